package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/uatreport/internal/app/config"
)

// SettingFileName is the settings file looked up in the home directory.
const SettingFileName = "setting.json"

// RawSettings represents the structure of setting.json file.
// Pointer fields distinguish "unset" from zero values.
type RawSettings struct {
	// Core settings
	ReportPath *string `json:"report_path"`

	// Results metadata
	Tester          *string `json:"tester"`
	TestEnvironment *string `json:"test_environment"`

	// Behavior
	TrackDefectRevisions *bool `json:"track_defect_revisions"`
	Color                *bool `json:"color"`

	// Logging
	StderrLevel *string `json:"stderr_level"`
}

// LoadSettings loads configuration from <baseDir>/setting.json.
// Priority: setting.json > defaults. A missing file is not an error.
func LoadSettings(fsys afero.Fs, baseDir string) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	jsonPath := filepath.Join(baseDir, SettingFileName)
	data, err := afero.ReadFile(fsys, jsonPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", jsonPath, err)
		}
		configSource = "json"
		settingPath = jsonPath
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", jsonPath, err)
	}

	applyDefaults(settings)

	return buildAppConfig(baseDir, settings, configSource, settingPath), nil
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings) {
	def := config.Default()

	if settings.ReportPath == nil {
		v := def.ReportPath()
		settings.ReportPath = &v
	}
	if settings.Tester == nil {
		v := def.Tester()
		settings.Tester = &v
	}
	if settings.TestEnvironment == nil {
		v := def.TestEnvironment()
		settings.TestEnvironment = &v
	}
	if settings.TrackDefectRevisions == nil {
		v := def.TrackDefectRevisions()
		settings.TrackDefectRevisions = &v
	}
	if settings.Color == nil {
		v := def.Color()
		settings.Color = &v
	}
	if settings.StderrLevel == nil {
		v := def.StderrLevel()
		settings.StderrLevel = &v
	}
}

// buildAppConfig converts RawSettings to AppConfig
func buildAppConfig(home string, settings *RawSettings, configSource, settingPath string) *config.AppConfig {
	return config.NewAppConfig(
		home,
		*settings.ReportPath,
		*settings.Tester,
		*settings.TestEnvironment,
		*settings.TrackDefectRevisions,
		*settings.Color,
		*settings.StderrLevel,
		configSource,
		settingPath,
	)
}

// CreateDefaultSettings creates a default setting.json content
func CreateDefaultSettings() []byte {
	settings := &RawSettings{}
	applyDefaults(settings)

	data, _ := json.MarshalIndent(settings, "", "  ")
	return append(data, '\n')
}
