package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type countrySummary struct {
	Country          string   `json:"country"`
	Year             int      `json:"year"`
	Severity         float64  `json:"severity"`
	CoverageRatio    *float64 `json:"coverage_ratio,omitempty"`
	PopulationInNeed float64  `json:"population_in_need"`
	OutDegree        int      `json:"out_degree"`
}

func newCountriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List panel countries with their baseline attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			deps, err := setupRuntime(cmd)
			if err != nil {
				return err
			}

			var summaries []countrySummary
			for _, country := range deps.store.Countries() {
				rec, err := deps.store.LatestRecord(country, 0)
				if err != nil {
					continue
				}
				s := countrySummary{
					Country:          country,
					Year:             rec.Year,
					Severity:         rec.Severity,
					PopulationInNeed: rec.PopulationInNeed,
					OutDegree:        len(deps.store.OutgoingEdges(country)),
				}
				if cov, ok := rec.CoverageRatio(); ok {
					s.CoverageRatio = &cov
				}
				summaries = append(summaries, s)
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Baseline year: %d\n\n", deps.store.BaselineYear())
			fmt.Fprintf(out, "%-8s %6s %10s %10s %14s %8s\n", "COUNTRY", "YEAR", "SEVERITY", "COVERAGE", "POP IN NEED", "EDGES")
			for _, s := range summaries {
				coverage := "n/a"
				if s.CoverageRatio != nil {
					coverage = fmt.Sprintf("%.2f", *s.CoverageRatio)
				}
				fmt.Fprintf(out, "%-8s %6d %10.2f %10s %14.0f %8d\n",
					s.Country, s.Year, s.Severity, coverage, s.PopulationInNeed, s.OutDegree)
			}
			return nil
		},
	}
}
