package config

import "os"

// HomeEnv overrides the directory setting.json is read from.
const HomeEnv = "UAT_HOME"

// ResolveHome returns the settings directory: $UAT_HOME, or ".uat".
func ResolveHome() string {
	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	return get(HomeEnv, ".uat")
}
