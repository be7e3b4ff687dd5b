package report

import (
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/uatreport/internal/interface/cli/common"
)

// NewSummarizeCommand creates the summarize command
func NewSummarizeCommand() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Write test_execution_summary for the whole report",
		Long: `Summarize recomputes every suite summary, then writes the
test_execution_summary rollup: test period, totals by status, pass rate and
defect counts by severity.

Examples:
  uatreport summarize
  uatreport summarize --notes "Round 1 complete"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			es, err := common.NewReportUseCase().Summarize(cmd.Context(), common.ReportPath(), notes)
			if err != nil {
				return err
			}
			common.NewOutput(cmd.OutOrStdout(), common.ColorEnabled()).ExecutionSummary(es)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Summary notes (previous notes are kept when empty)")

	return cmd
}
