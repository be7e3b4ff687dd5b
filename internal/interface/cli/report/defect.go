package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/uatreport/internal/application/dto"
	model "github.com/YoshitsuguKoike/uatreport/internal/domain/model/report"
	"github.com/YoshitsuguKoike/uatreport/internal/interface/cli/common"
)

// NewDefectCommand creates the defect command group
func NewDefectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defect",
		Short: "Manage recorded defects",
		RunE:  func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newDefectUpdateCommand())
	return cmd
}

func newDefectUpdateCommand() *cobra.Command {
	var (
		sets     []string
		jsonSets []string
		steps    []string
	)

	cmd := &cobra.Command{
		Use:   "update <DEFECT-ID>",
		Short: "Revise fields of an existing defect in place",
		Long: `Update changes the named fields of one defect and keeps every other
field. When track_defect_revisions is on (the default), the previous values
are appended to the defect's revision_history with a ULID revision id.

Examples:
  # Downgrade after triage
  uatreport defect update DEF-003 --set severity=medium --set root_cause="stale cache"

  # Replace the reproduction steps
  uatreport defect update DEF-003 --steps "Open /companies" --steps "Click Save"

  # Set a non-string field
  uatreport defect update DEF-003 --set-json retest_count=2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := buildPatch(sets, jsonSets, steps, cmd.Flags().Changed("steps"))
			if err != nil {
				return err
			}

			out, err := common.NewReportUseCase().UpdateDefect(cmd.Context(), dto.UpdateDefectInput{
				ReportPath: common.ReportPath(),
				DefectID:   args[0],
				Patch:      patch,
			})
			if err != nil {
				return err
			}

			o := common.NewOutput(cmd.OutOrStdout(), common.ColorEnabled())
			if len(out.ChangedFields) == 0 {
				o.Info("%s unchanged", out.DefectID)
				return nil
			}
			o.Success("updated %s (%s): %s", out.DefectID, out.Severity, strings.Join(out.ChangedFields, ", "))
			if out.RevisionID != "" {
				o.Info("revision %s", out.RevisionID)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a string field (field=value, repeatable)")
	cmd.Flags().StringArrayVar(&jsonSets, "set-json", nil, "Set a field to a JSON value (field=json, repeatable)")
	cmd.Flags().StringArrayVar(&steps, "steps", nil, "Replace steps_to_reproduce (repeat once per step)")

	return cmd
}

// buildPatch turns --set, --set-json and --steps flags into a defect patch.
func buildPatch(sets, jsonSets, steps []string, stepsGiven bool) (model.Patch, error) {
	patch := model.Patch{}
	add := func(field string, v interface{}) error {
		if _, dup := patch[field]; dup {
			return fmt.Errorf("field %s given more than once", field)
		}
		patch[field] = v
		return nil
	}

	for _, kv := range sets {
		field, value, err := splitAssignment(kv)
		if err != nil {
			return nil, err
		}
		if err := add(field, value); err != nil {
			return nil, err
		}
	}
	for _, kv := range jsonSets {
		field, raw, err := splitAssignment(kv)
		if err != nil {
			return nil, err
		}
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("--set-json %s: %w", field, err)
		}
		if err := add(field, v); err != nil {
			return nil, err
		}
	}
	if stepsGiven {
		if steps == nil {
			steps = []string{}
		}
		if err := add("steps_to_reproduce", steps); err != nil {
			return nil, err
		}
	}

	if len(patch) == 0 {
		return nil, fmt.Errorf("nothing to update: use --set, --set-json or --steps")
	}
	return patch, nil
}

func splitAssignment(kv string) (string, string, error) {
	field, value, ok := strings.Cut(kv, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return "", "", fmt.Errorf("invalid assignment %q: expected field=value", kv)
	}
	return field, value, nil
}
