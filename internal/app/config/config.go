package config

// Config provides read-only access to application configuration.
// The app layer depends on this interface only, never on where the values
// came from (setting.json, environment, defaults).
type Config interface {
	// Core settings
	Home() string       // Directory holding setting.json (UAT_HOME)
	ReportPath() string // Report document to update

	// Metadata written when a results section is created
	Tester() string
	TestEnvironment() string

	// Behavior
	TrackDefectRevisions() bool // Keep revision_history on defect updates
	Color() bool                // Colorize the tally output

	// Logging
	StderrLevel() string

	// Metadata
	ConfigSource() string // "json" or "default"
	SettingPath() string  // Path to setting.json if loaded from file
}

// AppConfig is the concrete implementation of Config interface.
type AppConfig struct {
	home       string
	reportPath string

	tester          string
	testEnvironment string

	trackDefectRevisions bool
	color                bool

	stderrLevel string

	configSource string
	settingPath  string
}

// NewAppConfig creates an AppConfig from resolved values.
func NewAppConfig(
	home, reportPath string,
	tester, testEnvironment string,
	trackDefectRevisions, color bool,
	stderrLevel string,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		home:                 home,
		reportPath:           reportPath,
		tester:               tester,
		testEnvironment:      testEnvironment,
		trackDefectRevisions: trackDefectRevisions,
		color:                color,
		stderrLevel:          stderrLevel,
		configSource:         configSource,
		settingPath:          settingPath,
	}
}

// Default returns the configuration used when no setting.json exists.
func Default() *AppConfig {
	return NewAppConfig(".uat", "UAT.json", "uatreport", "", true, true, "warn", "default", "")
}

func (c *AppConfig) Home() string               { return c.home }
func (c *AppConfig) ReportPath() string         { return c.reportPath }
func (c *AppConfig) Tester() string             { return c.tester }
func (c *AppConfig) TestEnvironment() string    { return c.testEnvironment }
func (c *AppConfig) TrackDefectRevisions() bool { return c.trackDefectRevisions }
func (c *AppConfig) Color() bool                { return c.color }
func (c *AppConfig) StderrLevel() string        { return c.stderrLevel }
func (c *AppConfig) ConfigSource() string       { return c.configSource }
func (c *AppConfig) SettingPath() string        { return c.settingPath }
