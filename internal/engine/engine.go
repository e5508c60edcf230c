// Package engine implements the spillover simulation: a funding
// perturbation at an epicenter country propagates as humanitarian stress
// through a weighted country graph over a bounded number of steps.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/relieflab/aftershock/internal/config"
	"github.com/relieflab/aftershock/internal/logging"
	"github.com/relieflab/aftershock/internal/model"
	"github.com/relieflab/aftershock/internal/sim"
	"github.com/relieflab/aftershock/internal/store"
)

// minStress is the threshold below which carried stress is treated as
// zero and stops propagating.
const minStress = 1e-9

// Engine is the simulation orchestrator. It holds no per-request state:
// the store and model snapshot are read-only, so concurrent Simulate
// calls need no locking.
type Engine struct {
	store  store.Store
	models *model.Provider
	cfg    config.EngineConfig
	log    *slog.Logger
	trace  *logging.TraceLogger
}

// NewEngine creates a simulation engine. models may be nil for a
// heuristic-only engine.
func NewEngine(s store.Store, models *model.Provider, cfg config.EngineConfig) *Engine {
	return &Engine{
		store:  s,
		models: models,
		cfg:    cfg,
		log:    slog.New(slog.DiscardHandler),
	}
}

// SetLogger replaces the engine's operational logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.log = l
	}
}

// SetTracer attaches a propagation trace logger. A nil tracer disables
// tracing.
func (e *Engine) SetTracer(t *logging.TraceLogger) {
	e.trace = t
}

// nodeState accumulates one node's impact across steps.
type nodeState struct {
	deltaSeverity  float64
	deltaDisplaced float64
}

// Simulate runs one spillover simulation: Validate -> Perturb ->
// Propagate(horizon) -> Aggregate. Identical inputs against the same
// store and model snapshot produce identical results.
func (e *Engine) Simulate(ctx context.Context, req sim.Request) (*sim.Result, error) {
	epicenter := store.NormalizeISO3(req.Epicenter)
	if epicenter == "" {
		return nil, fmt.Errorf("%w: epicenter is required", sim.ErrInvalidRequest)
	}
	if math.IsNaN(req.DeltaFundingPct) || math.IsInf(req.DeltaFundingPct, 0) {
		return nil, fmt.Errorf("%w: delta_funding_pct must be finite, got %v", sim.ErrInvalidRequest, req.DeltaFundingPct)
	}
	if math.IsNaN(req.CostPerPerson) || math.IsInf(req.CostPerPerson, 0) {
		return nil, fmt.Errorf("%w: cost_per_person must be finite, got %v", sim.ErrInvalidRequest, req.CostPerPerson)
	}

	if _, err := e.store.LatestRecord(epicenter, 0); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: epicenter %q has no panel record", sim.ErrUnknownCountry, epicenter)
		}
		return nil, fmt.Errorf("resolving epicenter %s: %w", epicenter, err)
	}

	var notes []string
	delta, horizon, notes := clampRequest(req, notes)

	costPerPerson := req.CostPerPerson
	if costPerPerson <= 0 {
		costPerPerson = e.cfg.CostPerPersonUSD
	}

	scope := buildScope(req.RegionScope, epicenter)

	// Strategy selection: the model covers whatever its node index
	// names, the heuristic covers the rest. Model absence is a normal,
	// noted state.
	heuristic := NewHeuristicStrategy(e.cfg)
	modelStrat := NewModelStrategy(e.models.Snapshot(), e.store)
	if modelStrat == nil {
		if n := e.models.LoadNote(); n != "" {
			notes = append(notes, n)
		} else {
			notes = append(notes, "model unavailable; heuristic propagator in use")
		}
	}

	var neighbors map[string][]string
	if modelStrat != nil {
		neighbors = e.buildNeighborMap()
	}

	run := &simulationRun{
		engine:        e,
		epicenter:     epicenter,
		scope:         scope,
		heuristic:     heuristic,
		model:         modelStrat,
		neighbors:     neighbors,
		costPerPerson: costPerPerson,
		debug:         req.Debug,
		records:       make(map[string]*store.CountryYearRecord),
		acc:           make(map[string]*nodeState),
		noted:         make(map[string]bool),
	}

	stress0 := StressMagnitude(delta, e.cfg.StressGain)
	run.propagate(stress0, horizon)
	notes = append(notes, run.notes...)

	result := run.assemble(delta, horizon, notes)

	e.log.Debug("simulation complete",
		"epicenter", epicenter,
		"delta_funding_pct", delta,
		"horizon_steps", horizon,
		"affected_countries", result.Totals.AffectedCountries,
		"total_delta_displaced", result.Totals.TotalDeltaDisplaced,
	)
	return result, nil
}

// clampRequest clamps the funding delta and horizon to policy bounds,
// noting every clamp so silent truncation is never hidden from the caller.
func clampRequest(req sim.Request, notes []string) (float64, int, []string) {
	delta := req.DeltaFundingPct
	if delta < sim.MinDeltaFundingPct || delta > sim.MaxDeltaFundingPct {
		clamped := clamp(delta, sim.MinDeltaFundingPct, sim.MaxDeltaFundingPct)
		notes = append(notes, fmt.Sprintf("delta_funding_pct clamped from %v to %v", delta, clamped))
		delta = clamped
	}

	horizon := req.HorizonSteps
	if horizon < sim.MinHorizonSteps {
		notes = append(notes, fmt.Sprintf("horizon_steps clamped from %d to %d", horizon, sim.MinHorizonSteps))
		horizon = sim.MinHorizonSteps
	} else if horizon > sim.MaxHorizonSteps {
		notes = append(notes, fmt.Sprintf("horizon_steps clamped from %d to %d", horizon, sim.MaxHorizonSteps))
		horizon = sim.MaxHorizonSteps
	}
	return delta, horizon, notes
}

// buildScope returns the propagation scope, or nil when unrestricted.
// The epicenter is always in scope.
func buildScope(regionScope []string, epicenter string) map[string]bool {
	if len(regionScope) == 0 {
		return nil
	}
	scope := make(map[string]bool, len(regionScope)+1)
	for _, c := range regionScope {
		scope[store.NormalizeISO3(c)] = true
	}
	scope[epicenter] = true
	return scope
}

// buildNeighborMap computes undirected adjacency for the model path's
// neighborhood aggregate.
func (e *Engine) buildNeighborMap() map[string][]string {
	neighbors := make(map[string][]string)
	for _, country := range e.store.Countries() {
		for _, edge := range e.store.OutgoingEdges(country) {
			neighbors[edge.Source] = append(neighbors[edge.Source], edge.Target)
			neighbors[edge.Target] = append(neighbors[edge.Target], edge.Source)
		}
	}
	return neighbors
}

// simulationRun carries the mutable state of one Simulate call.
type simulationRun struct {
	engine        *Engine
	epicenter     string
	scope         map[string]bool
	heuristic     *HeuristicStrategy
	model         *ModelStrategy
	neighbors     map[string][]string
	costPerPerson float64
	debug         bool

	records map[string]*store.CountryYearRecord
	acc     map[string]*nodeState
	noted   map[string]bool
	notes   []string
	edges   []sim.EdgeImpact
}

// propagate runs the wave diffusion: at each step every carrying node's
// impact is applied via its strategy, then the wave moves one hop along
// weighted edges with per-step decay. A node farther than horizon hops
// from the epicenter is never reached.
func (r *simulationRun) propagate(stress0 float64, horizon int) {
	wave := map[string]float64{r.epicenter: stress0}
	spread := r.engine.cfg.SpreadFactor
	decay := r.engine.cfg.DecayFactor

	for step := 1; step <= horizon; step++ {
		// Sorted iteration keeps float accumulation reproducible.
		carriers := sortedKeys(wave)

		for _, country := range carriers {
			r.applyStep(country, wave[country], wave)
		}

		next := make(map[string]float64)
		for _, country := range carriers {
			stress := wave[country]
			if math.Abs(stress) < minStress {
				continue
			}
			for _, edge := range r.engine.store.OutgoingEdges(country) {
				if r.scope != nil && !r.scope[edge.Target] {
					continue
				}
				transmitted := stress * edge.Weight * spread * decay
				if math.Abs(transmitted) < minStress {
					continue
				}
				next[edge.Target] += transmitted

				if r.debug {
					r.edges = append(r.edges, sim.EdgeImpact{
						Step:              step,
						Source:            edge.Source,
						Target:            edge.Target,
						Weight:            edge.Weight,
						TransmittedStress: transmitted,
					})
				}
				r.engine.trace.Log(map[string]any{
					"event":  "edge_transmit",
					"step":   step,
					"src":    edge.Source,
					"dst":    edge.Target,
					"weight": edge.Weight,
					"stress": transmitted,
				})
			}
		}
		wave = next
	}
}

// applyStep evaluates one node's impact for the stress it carries this
// step, choosing the model path when supported and falling back to the
// heuristic otherwise.
func (r *simulationRun) applyStep(country string, stress float64, wave map[string]float64) {
	if math.Abs(stress) < minStress {
		return
	}

	rec, ok := r.record(country)
	if !ok {
		// Graph references a country absent from the panel: drop only
		// this node's contribution, the rest of the simulation stands.
		r.noteOnce("missing:"+country, fmt.Sprintf("%s is in the graph but has no panel record; contribution omitted", country))
		return
	}

	strategy := PropagationStrategy(r.heuristic)
	if r.model != nil && r.model.Supports(country) {
		strategy = r.model
	} else if r.model != nil {
		r.noteOnce("unsupported:"+country, fmt.Sprintf("%s not covered by model; heuristic used", country))
	}

	deltaSeverity, deltaDisplaced, err := strategy.StepImpact(rec, stress, r.neighborStress(country, wave))
	if err != nil {
		r.noteOnce("fallback:"+country, fmt.Sprintf("model path failed for %s; heuristic used", country))
		deltaSeverity, deltaDisplaced, _ = r.heuristic.StepImpact(rec, stress, 0)
	}

	if rec.PopulationInNeed <= 0 {
		r.noteOnce("nopop:"+country, fmt.Sprintf("insufficient data for %s: zero population in need; displacement omitted", country))
	}

	state := r.acc[country]
	if state == nil {
		state = &nodeState{}
		r.acc[country] = state
	}
	state.deltaSeverity += deltaSeverity
	state.deltaDisplaced += deltaDisplaced
}

// neighborStress returns the mean stress carried by the node's graph
// neighbors. Only the model path consumes it.
func (r *simulationRun) neighborStress(country string, wave map[string]float64) float64 {
	if r.neighbors == nil {
		return 0
	}
	adj := r.neighbors[country]
	if len(adj) == 0 {
		return 0
	}
	sum := 0.0
	for _, n := range adj {
		sum += wave[n]
	}
	return sum / float64(len(adj))
}

// record caches panel lookups for the run.
func (r *simulationRun) record(country string) (*store.CountryYearRecord, bool) {
	if rec, ok := r.records[country]; ok {
		return rec, rec != nil
	}
	rec, err := r.engine.store.LatestRecord(country, 0)
	if err != nil {
		r.records[country] = nil
		return nil, false
	}
	r.records[country] = rec
	return rec, true
}

func (r *simulationRun) noteOnce(key, note string) {
	if r.noted[key] {
		return
	}
	r.noted[key] = true
	r.notes = append(r.notes, note)
}

// assemble aggregates accumulated node states into the final result:
// per-country impacts ordered by descending displacement, plus totals.
func (r *simulationRun) assemble(delta float64, horizon int, notes []string) *sim.Result {
	affected := make([]sim.AffectedCountryImpact, 0, len(r.acc))

	for _, country := range sortedStateKeys(r.acc) {
		state := r.acc[country]
		if math.Abs(state.deltaSeverity) < minStress && math.Abs(state.deltaDisplaced) < minStress {
			continue
		}

		rec, _ := r.record(country)
		coverage, hasCoverage := rec.CoverageRatio()
		if !hasCoverage {
			r.noteOnce("nofunding:"+country, fmt.Sprintf("insufficient data for %s: zero funding required; underfunding probability omitted", country))
		}

		explanation := "spillover from " + r.epicenter
		if country == r.epicenter {
			explanation = "direct funding impact"
		}

		deltaSeverity := clamp(state.deltaSeverity, -1, 1)
		affected = append(affected, sim.AffectedCountryImpact{
			Country:             country,
			DeltaSeverity:       round(deltaSeverity, 4),
			DeltaDisplaced:      round(state.deltaDisplaced, 2),
			ExtraCostUSD:        round(state.deltaDisplaced*r.costPerPerson, 2),
			ProbUnderfundedNext: round(UnderfundedProbability(r.engine.cfg, coverage, hasCoverage, deltaSeverity), 4),
			Explanation:         explanation,
		})
	}

	// Presentation order: descending displacement, country code breaking
	// ties so equal impacts stay stable.
	sort.Slice(affected, func(i, j int) bool {
		if affected[i].DeltaDisplaced != affected[j].DeltaDisplaced {
			return affected[i].DeltaDisplaced > affected[j].DeltaDisplaced
		}
		return affected[i].Country < affected[j].Country
	})

	totals := sim.Totals{}
	for _, a := range affected {
		totals.TotalDeltaDisplaced += a.DeltaDisplaced
		totals.TotalExtraCostUSD += a.ExtraCostUSD
		if a.DeltaDisplaced != 0 {
			// Max over the nonzero-displacement set, not floored at zero:
			// under a funding increase every severity delta is negative and
			// the max must still come from the set.
			if totals.AffectedCountries == 0 || a.DeltaSeverity > totals.MaxDeltaSeverity {
				totals.MaxDeltaSeverity = a.DeltaSeverity
			}
			totals.AffectedCountries++
		}
	}
	totals.TotalDeltaDisplaced = round(totals.TotalDeltaDisplaced, 2)
	totals.TotalExtraCostUSD = round(totals.TotalExtraCostUSD, 2)

	if notes == nil {
		notes = []string{}
	}

	return &sim.Result{
		BaselineYear:    r.engine.store.BaselineYear(),
		Epicenter:       r.epicenter,
		DeltaFundingPct: delta,
		HorizonSteps:    horizon,
		Affected:        affected,
		Totals:          totals,
		EdgesUsed:       r.edges,
		Notes:           notes,
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStateKeys(m map[string]*nodeState) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
