package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/relieflab/aftershock/internal/store"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the dataset and model artifact for consistency issues",
		Long: `Validate the loaded dataset for consistency issues.

This command checks for:
  - Graph edges referencing countries missing from the panel
  - Countries with zero funding requirement (no coverage ratio)
  - Countries with zero population in need
  - Severity values outside the expected 0-5 scale
  - Isolated countries with no spillover edges
  - Model artifact countries missing from the panel`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			deps, err := setupRuntime(cmd)
			if err != nil {
				return err
			}

			mem, ok := deps.store.(*store.MemoryStore)
			if !ok {
				return fmt.Errorf("dataset validation requires an in-memory store")
			}
			issues := store.ValidateDataset(mem)
			issues = append(issues, validateModel(deps)...)

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"valid":  !hasErrors(issues),
					"issues": issues,
				})
			}

			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintln(out, "Dataset is consistent, no issues found.")
				return nil
			}
			for _, issue := range issues {
				if issue.Country != "" {
					fmt.Fprintf(out, "[%s] %s: %s\n", issue.Severity, issue.Country, issue.Message)
				} else {
					fmt.Fprintf(out, "[%s] %s\n", issue.Severity, issue.Message)
				}
			}
			if hasErrors(issues) {
				return fmt.Errorf("validation found errors")
			}
			return nil
		},
	}
}

// validateModel cross-checks the model artifact against the panel.
func validateModel(deps *runtimeDeps) []store.ValidationIssue {
	params := deps.models.Snapshot()
	if params == nil {
		return nil
	}

	panel := make(map[string]struct{})
	for _, c := range deps.store.Countries() {
		panel[c] = struct{}{}
	}

	var missing []string
	for country := range params.NodeIndex {
		if _, ok := panel[country]; !ok {
			missing = append(missing, country)
		}
	}
	sort.Strings(missing)

	var issues []store.ValidationIssue
	for _, c := range missing {
		issues = append(issues, store.ValidationIssue{
			Severity: "warning",
			Country:  c,
			Message:  "present in the model artifact but missing from the panel",
		})
	}
	return issues
}

func hasErrors(issues []store.ValidationIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}
