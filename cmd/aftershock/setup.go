package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/relieflab/aftershock/internal/config"
	"github.com/relieflab/aftershock/internal/engine"
	"github.com/relieflab/aftershock/internal/logging"
	"github.com/relieflab/aftershock/internal/model"
	"github.com/relieflab/aftershock/internal/store"
	"github.com/spf13/cobra"
)

// runtimeDeps bundles everything a command needs to run simulations.
type runtimeDeps struct {
	cfg    *config.Config
	store  store.Store
	models *model.Provider
	engine *engine.Engine
}

// setupRuntime loads configuration from the data root, opens the dataset
// and model artifact, and wires up the simulation engine.
func setupRuntime(cmd *cobra.Command) (*runtimeDeps, error) {
	root, _ := cmd.Flags().GetString("root")

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

	st, err := openStore(cmd.Context(), root, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}

	modelPath := cfg.Data.ModelPath
	if modelPath == "" {
		candidate := filepath.Join(root, "data", "model.json")
		if _, statErr := os.Stat(candidate); statErr == nil {
			modelPath = candidate
		}
	}
	provider, err := model.NewProvider(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model artifact: %w", err)
	}

	eng := engine.NewEngine(st, provider, cfg.Engine)
	eng.SetLogger(logger)
	if tracer := logging.NewTraceLogger(root, cfg.Logging.Level); tracer != nil {
		eng.SetTracer(tracer)
	}

	return &runtimeDeps{cfg: cfg, store: st, models: provider, engine: eng}, nil
}

// openStore resolves the dataset location in priority order: explicit
// database path, explicit panel+graph files, then defaults under root/data.
func openStore(ctx context.Context, root string, cfg *config.Config) (store.Store, error) {
	if cfg.Data.DatabasePath != "" {
		return store.OpenSQLite(ctx, cfg.Data.DatabasePath)
	}
	if cfg.Data.PanelPath != "" && cfg.Data.GraphPath != "" {
		return store.LoadDataset(cfg.Data.PanelPath, cfg.Data.GraphPath)
	}

	dbPath := filepath.Join(root, "data", "aftershock.db")
	if _, err := os.Stat(dbPath); err == nil {
		return store.OpenSQLite(ctx, dbPath)
	}
	panelPath := filepath.Join(root, "data", "panel.json")
	graphPath := filepath.Join(root, "data", "graph.json")
	return store.LoadDataset(panelPath, graphPath)
}
