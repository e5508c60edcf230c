package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/relieflab/aftershock/internal/sim"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <epicenter>",
		Short: "Simulate a funding shock propagating from an epicenter country",
		Long: `Simulate the spillover effect of a funding change at an epicenter
country. The delta is a signed percentage (e.g. -20 for a 20% cut) and
propagates over the spillover graph for the given number of steps.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deltaPct, _ := cmd.Flags().GetFloat64("delta")
			horizon, _ := cmd.Flags().GetInt("horizon")
			scope, _ := cmd.Flags().GetStringSlice("scope")
			costPerPerson, _ := cmd.Flags().GetFloat64("cost-per-person")
			debug, _ := cmd.Flags().GetBool("debug")
			jsonOut, _ := cmd.Flags().GetBool("json")

			deps, err := setupRuntime(cmd)
			if err != nil {
				return err
			}

			req := sim.Request{
				Epicenter:       args[0],
				DeltaFundingPct: deltaPct / 100.0,
				HorizonSteps:    horizon,
				RegionScope:     scope,
				CostPerPerson:   costPerPerson,
				Debug:           debug,
			}

			result, err := deps.engine.Simulate(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("simulate: %w", err)
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().Float64("delta", -10, "Funding change in percent (negative = cut)")
	cmd.Flags().Int("horizon", 3, "Number of propagation steps")
	cmd.Flags().StringSlice("scope", nil, "Restrict propagation to these ISO3 codes")
	cmd.Flags().Float64("cost-per-person", 0, "USD cost proxy per displaced person (0 = default)")
	cmd.Flags().Bool("debug", false, "Include per-edge propagation detail")

	return cmd
}

func printResult(cmd *cobra.Command, result *sim.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Epicenter:    %s (baseline year %d)\n", result.Epicenter, result.BaselineYear)
	fmt.Fprintf(out, "Delta:        %+.1f%% funding over %d steps\n", result.DeltaFundingPct*100, result.HorizonSteps)
	fmt.Fprintln(out)

	if len(result.Affected) == 0 {
		fmt.Fprintln(out, "No countries affected.")
	} else {
		fmt.Fprintf(out, "%-8s %12s %14s %16s %10s\n", "COUNTRY", "ΔSEVERITY", "ΔDISPLACED", "EXTRA COST USD", "P(UNDERF)")
		for _, a := range result.Affected {
			fmt.Fprintf(out, "%-8s %12.4f %14.2f %16.2f %10.4f\n",
				a.Country, a.DeltaSeverity, a.DeltaDisplaced, a.ExtraCostUSD, a.ProbUnderfundedNext)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Total displaced: %.2f across %d countries (cost %.2f USD, max Δseverity %.4f)\n",
			result.Totals.TotalDeltaDisplaced, result.Totals.AffectedCountries,
			result.Totals.TotalExtraCostUSD, result.Totals.MaxDeltaSeverity)
	}

	if len(result.EdgesUsed) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Edges used (%d):\n", len(result.EdgesUsed))
		for _, e := range result.EdgesUsed {
			fmt.Fprintf(out, "  step %d: %s -> %s (weight %.2f, stress %.5f)\n",
				e.Step, e.Source, e.Target, e.Weight, e.TransmittedStress)
		}
	}

	if len(result.Notes) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Notes:\n  %s\n", strings.Join(result.Notes, "\n  "))
	}
}
