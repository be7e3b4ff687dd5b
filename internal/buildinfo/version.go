// Package buildinfo contains build-time information embedded via ldflags
package buildinfo

import "runtime/debug"

// Version is the application version, set at build time via ldflags
// Example: go build -ldflags "-X github.com/YoshitsuguKoike/uatreport/internal/buildinfo.Version=v1.0.0"
var Version = "dev"

// Commit is the VCS revision, set at build time via ldflags
var Commit = ""

// GetVersion returns the current version. Builds installed with
// "go install module@version" report the module version instead of "dev".
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetCommit returns the VCS revision from ldflags or the embedded build info.
func GetCommit() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}
