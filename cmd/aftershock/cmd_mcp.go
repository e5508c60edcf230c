package main

import (
	"context"
	"fmt"

	"github.com/relieflab/aftershock/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Run aftershock as an MCP (Model Context Protocol) server over stdio.

Exposes simulation tools to MCP clients:
  - aftershock_simulate: run a spillover simulation
  - aftershock_countries: list panel countries
  - aftershock_status: dataset and model availability`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := setupRuntime(cmd)
			if err != nil {
				return err
			}

			srv, err := mcp.NewServer(&mcp.Config{
				Name:    "aftershock",
				Version: version,
			}, deps.engine, deps.store, deps.models)
			if err != nil {
				return fmt.Errorf("create MCP server: %w", err)
			}

			return srv.Run(context.Background())
		},
	}
}
