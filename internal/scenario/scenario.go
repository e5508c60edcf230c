package scenario

import (
	"github.com/relieflab/aftershock/internal/config"
	"github.com/relieflab/aftershock/internal/model"
	"github.com/relieflab/aftershock/internal/sim"
	"github.com/relieflab/aftershock/internal/store"
)

// Scenario defines a complete simulation experiment: a fixture dataset, an
// optional model artifact, and a batch of requests run in order.
type Scenario struct {
	Name  string
	Panel []store.CountryYearRecord
	Edges []store.GraphEdge

	// Requests are executed sequentially against the same engine.
	Requests []sim.Request

	// EngineConfig overrides the default tuning when non-nil.
	EngineConfig *config.EngineConfig

	// Model, when non-nil, is written to a temp artifact and loaded, so
	// the run covers the model path exactly as production would.
	Model *model.Parameters

	// BeforeRequest, when non-nil, is called before each request. Use it
	// to manipulate the provider between requests (e.g. swapping in a
	// retrained artifact for hot-reload scenarios).
	BeforeRequest func(index int, provider *model.Provider)
}

// RunResult collects everything a scenario produced, for assertions.
type RunResult struct {
	Results  []*sim.Result
	Store    *store.MemoryStore
	Provider *model.Provider
}

// Final returns the last result of the run.
func (r RunResult) Final() *sim.Result {
	return r.Results[len(r.Results)-1]
}
