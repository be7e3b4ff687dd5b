package report

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/uatreport/internal/application/dto"
	usecase "github.com/YoshitsuguKoike/uatreport/internal/application/usecase/report"
	"github.com/YoshitsuguKoike/uatreport/internal/interface/cli/common"
)

// NewRecordCommand creates the record command
func NewRecordCommand() *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "record <batch.yaml|->",
		Short: "Append scenario results and defects from a batch file",
		Long: `Record applies one batch document (YAML or JSON) to the report and
recomputes the test_summary of every suite it names. Scenario results and
defects are appended in batch order; defect_updates revise existing defects
in place. Either the whole batch is applied or nothing is written.

Batch keys:
  suite_id, scenarios[], summary_notes   results for one suite
  suites[]{suite_id, scenarios[], summary_notes}
  defects[]                              new defects
  defect_updates[]{defect_id, patch}     revisions of existing defects

Examples:
  # Record results for TS-001
  uatreport record batches/ts-001.yaml

  # Re-run a batch; identical entries already recorded are skipped
  uatreport record --skip-existing batches/ts-001.yaml

  # Read the batch from stdin
  cat batch.json | uatreport record -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := dto.RecordInput{
				ReportPath:   common.ReportPath(),
				SkipExisting: skipExisting,
			}
			if args[0] == "-" {
				data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), usecase.MaxBatchSize+1))
				if err != nil {
					return fmt.Errorf("failed to read batch from stdin: %w", err)
				}
				input.BatchData = data
			} else {
				input.BatchPath = args[0]
			}

			out, err := common.NewReportUseCase().Record(cmd.Context(), input)
			if err != nil {
				return err
			}
			common.NewOutput(cmd.OutOrStdout(), common.ColorEnabled()).Record(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Skip scenarios and defects already recorded with identical content")

	return cmd
}
