package report

import (
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/uatreport/internal/interface/cli/common"
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Add an empty test_results section to the report",
		Long: `Init makes sure the report has a test_results section with execution
metadata (execution_date, tester, test_environment from setting.json) and
empty scenarios_tested and defects lists. An existing section is left as is.

Examples:
  # Prepare UAT.json in the current directory
  uatreport init

  # Prepare a report elsewhere
  uatreport --report docs/uat/UAT.json init`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := common.NewReportUseCase().Init(cmd.Context(), common.ReportPath())
			if err != nil {
				return err
			}

			o := common.NewOutput(cmd.OutOrStdout(), common.ColorEnabled())
			if out.Created {
				o.Success("added test_results to %s", out.ReportPath)
			} else {
				o.Info("%s already has test_results", out.ReportPath)
			}
			return nil
		},
	}
}
