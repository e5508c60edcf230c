package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/relieflab/aftershock/internal/config"
	"github.com/relieflab/aftershock/internal/engine"
	"github.com/relieflab/aftershock/internal/model"
	"github.com/relieflab/aftershock/internal/sim"
	"github.com/relieflab/aftershock/internal/store"
)

// Runner orchestrates simulation experiments against a real engine.
type Runner struct {
	t *testing.T
}

// NewRunner creates a scenario runner.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t}
}

// Run executes the scenario and returns the collected results.
func (r *Runner) Run(sc Scenario) RunResult {
	r.t.Helper()
	ctx := context.Background()

	s := r.seedStore(sc)
	provider := r.buildProvider(sc)

	cfg := config.DefaultEngine()
	if sc.EngineConfig != nil {
		cfg = *sc.EngineConfig
	}
	eng := engine.NewEngine(s, provider, cfg)

	result := RunResult{
		Results:  make([]*sim.Result, 0, len(sc.Requests)),
		Store:    s,
		Provider: provider,
	}

	for i, req := range sc.Requests {
		if sc.BeforeRequest != nil {
			sc.BeforeRequest(i, provider)
		}
		res, err := eng.Simulate(ctx, req)
		if err != nil {
			r.t.Fatalf("scenario %s: request %d (%+v): %v", sc.Name, i, req, err)
		}
		result.Results = append(result.Results, res)
	}
	return result
}

// seedStore builds the fixture panel and graph.
func (r *Runner) seedStore(sc Scenario) *store.MemoryStore {
	r.t.Helper()
	s := store.NewMemoryStore()

	for _, rec := range sc.Panel {
		if err := s.AddRecord(rec); err != nil {
			r.t.Fatalf("scenario %s: AddRecord(%s/%d): %v", sc.Name, rec.Country, rec.Year, err)
		}
	}
	for _, e := range sc.Edges {
		if err := s.AddEdge(e); err != nil {
			r.t.Fatalf("scenario %s: AddEdge(%s->%s): %v", sc.Name, e.Source, e.Target, err)
		}
	}
	return s
}

// buildProvider materializes the scenario's model artifact, if any, and
// loads it through the production path.
func (r *Runner) buildProvider(sc Scenario) *model.Provider {
	r.t.Helper()

	if sc.Model == nil {
		provider, err := model.NewProvider("")
		if err != nil {
			r.t.Fatalf("scenario %s: NewProvider: %v", sc.Name, err)
		}
		return provider
	}

	path := WriteArtifact(r.t, sc.Model)
	provider, err := model.NewProvider(path)
	if err != nil {
		r.t.Fatalf("scenario %s: NewProvider(%s): %v", sc.Name, path, err)
	}
	return provider
}

// WriteArtifact marshals params to a model artifact file in a temp dir and
// returns its path. Exposed so reload scenarios can rewrite the artifact
// between requests.
func WriteArtifact(t *testing.T, params *model.Parameters) string {
	t.Helper()
	data, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("WriteArtifact: marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("WriteArtifact: write: %v", err)
	}
	return path
}

// FormatResultDebug returns a debug string for one result.
func FormatResultDebug(index int, res *sim.Result) string {
	s := fmt.Sprintf("Request %d: epicenter=%s delta=%.2f horizon=%d affected=%d\n",
		index, res.Epicenter, res.DeltaFundingPct, res.HorizonSteps, len(res.Affected))
	for _, a := range res.Affected {
		s += fmt.Sprintf("  %s: dSev=%.4f dDisp=%.2f cost=%.2f prob=%.4f\n",
			a.Country, a.DeltaSeverity, a.DeltaDisplaced, a.ExtraCostUSD, a.ProbUnderfundedNext)
	}
	for _, n := range res.Notes {
		s += fmt.Sprintf("  note: %s\n", n)
	}
	return s
}
