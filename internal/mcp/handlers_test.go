package mcp

import (
	"context"
	"strings"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/relieflab/aftershock/internal/config"
	"github.com/relieflab/aftershock/internal/engine"
	"github.com/relieflab/aftershock/internal/model"
	"github.com/relieflab/aftershock/internal/store"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	s := store.NewMemoryStore()
	records := []store.CountryYearRecord{
		{Country: "BFA", Year: 2024, Severity: 3.5, FundingRequiredUSD: 800e6, FundingReceivedUSD: 320e6, PopulationInNeed: 6.3e6},
		{Country: "MLI", Year: 2024, Severity: 3.2, FundingRequiredUSD: 700e6, FundingReceivedUSD: 350e6, PopulationInNeed: 7.1e6},
	}
	for _, rec := range records {
		if err := s.AddRecord(rec); err != nil {
			t.Fatalf("AddRecord(%s): %v", rec.Country, err)
		}
	}
	if err := s.AddEdge(store.GraphEdge{Source: "BFA", Target: "MLI", Weight: 0.4}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	provider, err := model.NewProvider("")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	eng := engine.NewEngine(s, provider, config.DefaultEngine())

	server, err := NewServer(&Config{Name: "test-server", Version: "v0.0.1"}, eng, s, provider)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return server
}

func TestHandleSimulate(t *testing.T) {
	server := setupTestServer(t)

	args := SimulateInput{Epicenter: "BFA", DeltaFundingPct: -0.2, HorizonSteps: 2}
	_, out, err := server.handleSimulate(context.Background(), &sdk.CallToolRequest{}, args)
	if err != nil {
		t.Fatalf("handleSimulate: %v", err)
	}

	if out.Result == nil {
		t.Fatal("expected a result")
	}
	if out.Result.Epicenter != "BFA" {
		t.Errorf("epicenter = %q", out.Result.Epicenter)
	}
	if len(out.Result.Affected) != 2 {
		t.Errorf("expected 2 affected countries, got %d", len(out.Result.Affected))
	}
	if out.Result.Totals.TotalDeltaDisplaced <= 0 {
		t.Errorf("expected positive displacement under a cut, got %v", out.Result.Totals.TotalDeltaDisplaced)
	}
}

func TestHandleSimulate_UnknownEpicenter(t *testing.T) {
	server := setupTestServer(t)

	args := SimulateInput{Epicenter: "XXX", DeltaFundingPct: -0.2, HorizonSteps: 2}
	_, _, err := server.handleSimulate(context.Background(), &sdk.CallToolRequest{}, args)
	if err == nil {
		t.Fatal("expected error for unknown epicenter")
	}
	if !strings.Contains(err.Error(), "invalid request") {
		t.Errorf("error should say invalid request, got %v", err)
	}
}

func TestHandleSimulate_MissingEpicenter(t *testing.T) {
	server := setupTestServer(t)

	args := SimulateInput{DeltaFundingPct: -0.2, HorizonSteps: 2}
	_, _, err := server.handleSimulate(context.Background(), &sdk.CallToolRequest{}, args)
	if err == nil {
		t.Fatal("expected error for missing epicenter")
	}
}

func TestHandleSimulate_ClampSurfacesInNotes(t *testing.T) {
	server := setupTestServer(t)

	// Out-of-range inputs succeed with notes rather than erroring.
	args := SimulateInput{Epicenter: "BFA", DeltaFundingPct: -0.8, HorizonSteps: 99}
	_, out, err := server.handleSimulate(context.Background(), &sdk.CallToolRequest{}, args)
	if err != nil {
		t.Fatalf("handleSimulate: %v", err)
	}
	if len(out.Result.Notes) == 0 {
		t.Error("expected clamp notes in the result")
	}
	if out.Result.DeltaFundingPct != -0.3 {
		t.Errorf("echoed delta = %v, want clamped -0.3", out.Result.DeltaFundingPct)
	}
}

func TestHandleCountries(t *testing.T) {
	server := setupTestServer(t)

	_, out, err := server.handleCountries(context.Background(), &sdk.CallToolRequest{}, CountriesInput{})
	if err != nil {
		t.Fatalf("handleCountries: %v", err)
	}

	if out.Count != 2 || len(out.Countries) != 2 {
		t.Fatalf("expected 2 countries, got count=%d len=%d", out.Count, len(out.Countries))
	}
	if out.BaselineYear != 2024 {
		t.Errorf("baseline year = %d", out.BaselineYear)
	}

	// Sorted by country code, with graph degree attached.
	if out.Countries[0].Country != "BFA" || out.Countries[1].Country != "MLI" {
		t.Errorf("unexpected order: %v", out.Countries)
	}
	if out.Countries[0].OutgoingEdges != 1 {
		t.Errorf("BFA outgoing edges = %d, want 1", out.Countries[0].OutgoingEdges)
	}
	if out.Countries[0].CoverageRatio != 0.4 {
		t.Errorf("BFA coverage = %v, want 0.4", out.Countries[0].CoverageRatio)
	}
}

func TestHandleStatus(t *testing.T) {
	server := setupTestServer(t)

	_, out, err := server.handleStatus(context.Background(), &sdk.CallToolRequest{}, StatusInput{})
	if err != nil {
		t.Fatalf("handleStatus: %v", err)
	}

	if out.BaselineYear != 2024 {
		t.Errorf("baseline year = %d", out.BaselineYear)
	}
	if out.CountryCount != 2 {
		t.Errorf("country count = %d", out.CountryCount)
	}
	if out.ModelAvailable {
		t.Error("no model artifact is configured")
	}
	if len(out.Notes) == 0 {
		t.Error("expected a model load note")
	}
}
