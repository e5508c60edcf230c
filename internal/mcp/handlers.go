package mcp

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/relieflab/aftershock/internal/sim"
)

// registerTools registers all aftershock MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "aftershock_simulate",
		Description: "Simulate how a funding change at an epicenter country propagates as humanitarian stress to other countries",
	}, s.handleSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "aftershock_countries",
		Description: "List the countries in the panel with their baseline attributes and graph degree",
	}, s.handleCountries)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "aftershock_status",
		Description: "Report dataset and model availability for the simulation engine",
	}, s.handleStatus)
}

// handleSimulate runs one simulation. Input errors (unknown epicenter)
// surface as tool errors; degraded runs (clamps, missing model, data
// gaps) succeed with explanatory notes in the result.
func (s *Server) handleSimulate(ctx context.Context, req *sdk.CallToolRequest, args SimulateInput) (*sdk.CallToolResult, SimulateOutput, error) {
	result, err := s.engine.Simulate(ctx, sim.Request{
		Epicenter:       args.Epicenter,
		DeltaFundingPct: args.DeltaFundingPct,
		HorizonSteps:    args.HorizonSteps,
		RegionScope:     args.RegionScope,
		CostPerPerson:   args.CostPerPerson,
		Debug:           args.Debug,
	})
	if err != nil {
		if errors.Is(err, sim.ErrUnknownCountry) || errors.Is(err, sim.ErrInvalidRequest) {
			return nil, SimulateOutput{}, fmt.Errorf("invalid request: %w", err)
		}
		return nil, SimulateOutput{}, fmt.Errorf("simulation failed: %w", err)
	}

	return nil, SimulateOutput{Result: result}, nil
}

// handleCountries returns a baseline summary per panel country.
func (s *Server) handleCountries(ctx context.Context, req *sdk.CallToolRequest, args CountriesInput) (*sdk.CallToolResult, CountriesOutput, error) {
	countries := s.store.Countries()
	out := CountriesOutput{
		BaselineYear: s.store.BaselineYear(),
		Countries:    make([]CountrySummary, 0, len(countries)),
	}

	for _, country := range countries {
		rec, err := s.store.LatestRecord(country, args.Year)
		if err != nil {
			continue
		}
		coverage, _ := rec.CoverageRatio()
		out.Countries = append(out.Countries, CountrySummary{
			Country:          rec.Country,
			Year:             rec.Year,
			Severity:         rec.Severity,
			CoverageRatio:    coverage,
			PopulationInNeed: rec.PopulationInNeed,
			OutgoingEdges:    len(s.store.OutgoingEdges(country)),
		})
	}
	out.Count = len(out.Countries)
	return nil, out, nil
}

// handleStatus reports what the engine is running with.
func (s *Server) handleStatus(ctx context.Context, req *sdk.CallToolRequest, args StatusInput) (*sdk.CallToolResult, StatusOutput, error) {
	out := StatusOutput{
		BaselineYear:   s.store.BaselineYear(),
		CountryCount:   len(s.store.Countries()),
		ModelAvailable: s.models.Snapshot() != nil,
	}
	if note := s.models.LoadNote(); note != "" {
		out.Notes = append(out.Notes, note)
	}
	return nil, out, nil
}
