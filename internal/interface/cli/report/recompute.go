package report

import (
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/uatreport/internal/interface/cli/common"
)

// NewRecomputeCommand creates the recompute command
func NewRecomputeCommand() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "recompute <SUITE-ID>",
		Short: "Rewrite a suite's test_summary from its recorded results",
		Long: `Recompute counts the scenario results owned by a suite (scenario ids
starting with "<SUITE-ID>-") and rewrites its test_summary. Summary notes are
kept unless --notes is given.

Examples:
  uatreport recompute TS-001
  uatreport recompute TS-001 --notes "Retested after fix"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var notesPtr *string
			if cmd.Flags().Changed("notes") {
				notesPtr = &notes
			}

			out, err := common.NewReportUseCase().Recompute(cmd.Context(), common.ReportPath(), args[0], notesPtr)
			if err != nil {
				return err
			}
			common.NewOutput(cmd.OutOrStdout(), common.ColorEnabled()).SuiteTally(*out)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Replace the summary notes")

	return cmd
}
