// Package mcp provides an MCP (Model Context Protocol) server exposing
// the aftershock simulation engine as tools. External clients (dashboards,
// agents) call into this surface rather than the engine directly.
package mcp

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/relieflab/aftershock/internal/engine"
	"github.com/relieflab/aftershock/internal/model"
	"github.com/relieflab/aftershock/internal/store"
)

// Server wraps the MCP SDK server around a simulation engine.
type Server struct {
	server *sdk.Server
	engine *engine.Engine
	store  store.Store
	models *model.Provider
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "aftershock")
	Version string // Server version
}

// NewServer creates an MCP server over an already-constructed engine.
// The engine's store and model snapshot are read-only, so concurrent tool
// calls are safe without locking.
func NewServer(cfg *Config, eng *engine.Engine, s store.Store, models *model.Provider) (*Server, error) {
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	srv := &Server{
		server: mcpServer,
		engine: eng,
		store:  s,
		models: models,
	}
	srv.registerTools()
	return srv, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return s.server.Run(ctx, &sdk.StdioTransport{})
}
