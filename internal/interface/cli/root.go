package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/uatreport/internal/app/config"
	infraConfig "github.com/YoshitsuguKoike/uatreport/internal/infra/config"
	"github.com/YoshitsuguKoike/uatreport/internal/interface/cli/common"
	"github.com/YoshitsuguKoike/uatreport/internal/interface/cli/report"
	"github.com/YoshitsuguKoike/uatreport/internal/interface/cli/version"
)

func NewRoot() *cobra.Command {
	var (
		reportPath string
		logLevel   string
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "uatreport",
		Short: "Record UAT results into a JSON report",
		Long: `uatreport records user acceptance test results, defects and derived
summaries into a UAT.json report document. Every write holds an exclusive
lock on <report>.lock and replaces the file atomically.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Priority: flags > setting.json > defaults
			startup := common.NewLogBuffer()
			home := infraConfig.ResolveHome()
			startup.Debug("settings home: %s", home)

			cfg, err := infraConfig.LoadSettings(afero.NewOsFs(), home)
			if err != nil {
				// Continue with defaults if loading fails
				startup.Warn("%v; using defaults", err)
				cfg = config.Default()
			}
			startup.Debug("config source: %s", cfg.ConfigSource())

			level := cfg.StderrLevel()
			if cmd.Flags().Changed("log-level") {
				level = logLevel
			}
			common.InitGlobalLoggerTo(level, cmd.ErrOrStderr()).Drain(startup)

			common.SetGlobalConfig(cfg)
			common.SetReportPath(reportPath)
			common.SetNoColor(noColor)
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.PersistentFlags().StringVar(&reportPath, "report", "", "Report file (default: report_path from setting.json, else UAT.json)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Stderr log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(report.NewInitCommand())
	cmd.AddCommand(report.NewRecordCommand())
	cmd.AddCommand(report.NewDefectCommand())
	cmd.AddCommand(report.NewRecomputeCommand())
	cmd.AddCommand(report.NewSummarizeCommand())
	cmd.AddCommand(report.NewShowCommand())
	cmd.AddCommand(version.NewCommand())
	return cmd
}
