package common

import (
	"sync"

	"github.com/YoshitsuguKoike/uatreport/internal/app/config"
)

var (
	mu           sync.RWMutex
	globalConfig config.Config
	reportPath   string
	noColor      bool
)

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(cfg config.Config) {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig returns the global configuration, or the defaults when
// none has been loaded.
func GetGlobalConfig() config.Config {
	mu.RLock()
	defer mu.RUnlock()
	if globalConfig == nil {
		return config.Default()
	}
	return globalConfig
}

// SetReportPath records the --report override. Empty means use the
// configured report_path.
func SetReportPath(p string) {
	mu.Lock()
	defer mu.Unlock()
	reportPath = p
}

// ReportPath returns the report file commands operate on.
func ReportPath() string {
	mu.RLock()
	p := reportPath
	mu.RUnlock()
	if p != "" {
		return p
	}
	return GetGlobalConfig().ReportPath()
}

// SetNoColor records the --no-color flag.
func SetNoColor(v bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = v
}

// ColorEnabled reports whether tallies are printed in color.
func ColorEnabled() bool {
	mu.RLock()
	v := noColor
	mu.RUnlock()
	return !v && GetGlobalConfig().Color()
}
