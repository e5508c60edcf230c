package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "aftershock",
		Short: "Aftershock - humanitarian funding spillover simulation",
		Long: `aftershock estimates how a funding change in one crisis-affected
country propagates as additional humanitarian stress (displacement, cost,
underfunding risk) to other countries over a short horizon.

It operates on a country-year panel and a weighted spillover graph
produced by an external ETL process, with an optional trained model
artifact and a deterministic heuristic fallback.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for machine consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Data root directory")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newCountriesCmd(),
		newGraphCmd(),
		newValidateCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("aftershock version %s\n", version)
			}
		},
	}
}
