package engine

import (
	"fmt"
	"math"

	"github.com/relieflab/aftershock/internal/model"
	"github.com/relieflab/aftershock/internal/store"
)

// ModelStrategy evaluates nodes with the trained spillover model. It is
// built per simulation run around an immutable parameter snapshot, so an
// artifact reload mid-run is never observed.
type ModelStrategy struct {
	params *model.Parameters

	// needMax normalizes population-in-need features, computed once per
	// run over the panel so features match the training distribution.
	needMax float64
}

// NewModelStrategy builds a model strategy from a snapshot. Returns nil
// when no snapshot is available, which callers treat as "heuristic only".
func NewModelStrategy(params *model.Parameters, s store.Store) *ModelStrategy {
	if params == nil {
		return nil
	}

	needMax := 1.0
	for _, country := range s.Countries() {
		rec, err := s.LatestRecord(country, 0)
		if err != nil {
			continue
		}
		if rec.PopulationInNeed > needMax {
			needMax = rec.PopulationInNeed
		}
	}

	return &ModelStrategy{params: params, needMax: needMax}
}

// Name implements PropagationStrategy.
func (m *ModelStrategy) Name() string { return "model" }

// Supports implements PropagationStrategy: only countries in the
// artifact's node index can take the model path.
func (m *ModelStrategy) Supports(country string) bool {
	return m != nil && m.params.Supports(country)
}

// StepImpact runs one frozen forward pass for the node. The output is
// guaranteed finite; any non-finite result is an error the orchestrator
// answers with a heuristic fallback for that node.
func (m *ModelStrategy) StepImpact(rec *store.CountryYearRecord, stress, neighborStress float64) (float64, float64, error) {
	features := m.featureVector(rec)
	neighborAgg := make([]float64, len(features))
	for i := range neighborAgg {
		neighborAgg[i] = features[i] * neighborStress
	}

	pred, err := m.params.Forward(rec.Country, features, neighborAgg, stress)
	if err != nil {
		return 0, 0, err
	}

	deltaSeverity := clamp(pred.DeltaSeverity, -1, 1)
	deltaDisplaced := pred.DeltaDisplacedNorm * m.needMax
	if math.IsNaN(deltaDisplaced) || math.IsInf(deltaDisplaced, 0) {
		return 0, 0, fmt.Errorf("model displacement for %s is non-finite", rec.Country)
	}
	if rec.PopulationInNeed <= 0 {
		deltaDisplaced = 0
	}
	return deltaSeverity, deltaDisplaced, nil
}

// featureVector assembles the node features the model was trained on:
// severity, coverage ratio, normalized need, normalized funding gap, and
// normalized displacement. Forward zero-pads or truncates to the
// artifact's input_dim.
func (m *ModelStrategy) featureVector(rec *store.CountryYearRecord) []float64 {
	coverage, ok := rec.CoverageRatio()
	if !ok {
		coverage = 0.5
	}

	gap := rec.FundingRequiredUSD - rec.FundingReceivedUSD
	gapNorm := 0.0
	if rec.FundingRequiredUSD > 0 {
		gapNorm = clamp(gap/rec.FundingRequiredUSD, 0, 1)
	}

	return []float64{
		rec.Severity,
		clamp(coverage, 0, 2),
		rec.PopulationInNeed / m.needMax,
		gapNorm,
		rec.DisplacedCount / m.needMax,
	}
}
