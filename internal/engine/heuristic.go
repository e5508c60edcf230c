package engine

import (
	"math"

	"github.com/relieflab/aftershock/internal/config"
	"github.com/relieflab/aftershock/internal/store"
)

// PropagationStrategy converts one node's carried stress at one step into
// a (delta severity, delta displaced) contribution. Strategy selection is
// a per-node, per-step capability check, not a global switch: nodes the
// model does not cover fall back to the heuristic.
type PropagationStrategy interface {
	// Name identifies the strategy in notes and traces.
	Name() string

	// Supports reports whether the strategy can evaluate this country.
	Supports(country string) bool

	// StepImpact returns the node's incremental impact for one step.
	// stress is the stress carried at the node this step; neighborStress
	// is the mean stress currently carried by its graph neighbors.
	StepImpact(rec *store.CountryYearRecord, stress, neighborStress float64) (deltaSeverity, deltaDisplaced float64, err error)
}

// HeuristicStrategy is the deterministic closed-form diffusion rule. It is
// always available and serves as the correctness fallback for the model
// path.
type HeuristicStrategy struct {
	cfg config.EngineConfig
}

// NewHeuristicStrategy creates the heuristic propagation strategy.
func NewHeuristicStrategy(cfg config.EngineConfig) *HeuristicStrategy {
	return &HeuristicStrategy{cfg: cfg}
}

// Name implements PropagationStrategy.
func (h *HeuristicStrategy) Name() string { return "heuristic" }

// Supports implements PropagationStrategy. The heuristic covers every
// country that has a panel record.
func (h *HeuristicStrategy) Supports(country string) bool { return true }

// StepImpact converts stress into severity and displacement deltas.
// Severity scales directly with stress; displacement additionally scales
// with the node's population in need, since proportional stress displaces
// more people in a larger at-risk population. A node with no population
// data contributes zero displacement (the orchestrator notes the gap).
func (h *HeuristicStrategy) StepImpact(rec *store.CountryYearRecord, stress, neighborStress float64) (float64, float64, error) {
	deltaSeverity := clamp(h.cfg.SeverityGain*stress, -1, 1)

	deltaDisplaced := 0.0
	if rec.PopulationInNeed > 0 {
		deltaDisplaced = h.cfg.DisplacementGain * stress * rec.PopulationInNeed
	}
	return deltaSeverity, deltaDisplaced, nil
}

// StressMagnitude maps a funding delta to initial epicenter stress.
// Cuts (negative delta) produce positive stress, increases produce stress
// relief. tanh saturates so extreme deltas outside the calibrated range do
// not extrapolate without bound.
func StressMagnitude(deltaFundingPct, gain float64) float64 {
	return math.Tanh(-deltaFundingPct * gain)
}

// UnderfundedProbability estimates the chance a country crosses the
// underfunding threshold next period: lower baseline coverage and higher
// added stress both raise it. hasCoverage=false means the funding
// denominator was zero; the caller should note the gap and use 0.
func UnderfundedProbability(cfg config.EngineConfig, coverage float64, hasCoverage bool, deltaSeverity float64) float64 {
	if !hasCoverage {
		return 0
	}
	x := cfg.ProbCoverageGain*(1-coverage) + cfg.ProbSeverityGain*deltaSeverity - cfg.ProbBias
	return clamp(sigmoid(x), 0, 1)
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
