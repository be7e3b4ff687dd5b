package report

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/uatreport/internal/interface/cli/common"
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [SUITE-ID]",
		Short: "Print current tallies without writing",
		Long: `Show computes suite tallies and defect counts from the recorded results
and prints them. The report file is not modified.

Examples:
  uatreport show
  uatreport show TS-003
  uatreport show --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suiteID := ""
			if len(args) == 1 {
				suiteID = args[0]
			}

			out, err := common.NewReportUseCase().Show(cmd.Context(), common.ReportPath(), suiteID)
			if err != nil {
				return err
			}

			o := common.NewOutput(cmd.OutOrStdout(), common.ColorEnabled())
			if asJSON {
				return o.JSON(out)
			}
			for _, t := range out.Suites {
				o.SuiteTally(t)
			}
			o.Defects(out.DefectsBySeverity, out.TotalDefects)
			if len(out.MissingDefects) > 0 {
				o.Warning("results reference unrecorded defects: %s", strings.Join(out.MissingDefects, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
