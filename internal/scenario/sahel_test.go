package scenario

import (
	"testing"

	"github.com/relieflab/aftershock/internal/sim"
	"github.com/relieflab/aftershock/internal/store"
)

// sahelPanel is the canonical fixture: three Sahel countries with realistic
// baseline magnitudes.
func sahelPanel() []store.CountryYearRecord {
	return []store.CountryYearRecord{
		{Country: "BFA", Year: 2024, Severity: 3.5, FundingRequiredUSD: 800e6, FundingReceivedUSD: 320e6, PopulationInNeed: 6.3e6, DisplacedCount: 2.1e6},
		{Country: "MLI", Year: 2024, Severity: 3.2, FundingRequiredUSD: 700e6, FundingReceivedUSD: 350e6, PopulationInNeed: 7.1e6, DisplacedCount: 0.38e6},
		{Country: "NER", Year: 2024, Severity: 3.0, FundingRequiredUSD: 600e6, FundingReceivedUSD: 290e6, PopulationInNeed: 4.5e6, DisplacedCount: 0.71e6},
	}
}

func sahelEdges() []store.GraphEdge {
	return []store.GraphEdge{
		{Source: "BFA", Target: "MLI", Weight: 0.4},
		{Source: "BFA", Target: "NER", Weight: 0.3},
		{Source: "MLI", Target: "NER", Weight: 0.2},
	}
}

func TestSahelCut(t *testing.T) {
	r := NewRunner(t)
	result := r.Run(Scenario{
		Name:  "sahel-cut",
		Panel: sahelPanel(),
		Edges: sahelEdges(),
		Requests: []sim.Request{
			{Epicenter: "BFA", DeltaFundingPct: -0.2, HorizonSteps: 2},
		},
	})

	res := result.Final()
	if len(res.Affected) != 3 {
		t.Fatalf("expected 3 affected countries, got %d", len(res.Affected))
	}
	if res.Totals.TotalDeltaDisplaced <= 0 {
		t.Errorf("expected positive total displacement, got %v", res.Totals.TotalDeltaDisplaced)
	}
	if res.Totals.TotalExtraCostUSD <= 0 {
		t.Errorf("expected positive total cost, got %v", res.Totals.TotalExtraCostUSD)
	}

	AssertNonNegativeImpacts(t, result, 0)
	AssertTotalsConsistent(t, result, 0)
	AssertCountryAffected(t, result, 0, "BFA")
	AssertCountryAffected(t, result, 0, "MLI")
	AssertCountryAffected(t, result, 0, "NER")
}

func TestCutDepthMonotone(t *testing.T) {
	r := NewRunner(t)
	result := r.Run(Scenario{
		Name:  "cut-depth",
		Panel: sahelPanel(),
		Edges: sahelEdges(),
		Requests: []sim.Request{
			{Epicenter: "BFA", DeltaFundingPct: -0.05, HorizonSteps: 3},
			{Epicenter: "BFA", DeltaFundingPct: -0.15, HorizonSteps: 3},
			{Epicenter: "BFA", DeltaFundingPct: -0.3, HorizonSteps: 3},
		},
	})

	AssertMonotoneTotals(t, result, 0, 1, 2)
	for i := range result.Results {
		AssertTotalsConsistent(t, result, i)
	}
}

func TestRepeatedRequestsIdentical(t *testing.T) {
	req := sim.Request{Epicenter: "BFA", DeltaFundingPct: -0.25, HorizonSteps: 4}
	r := NewRunner(t)
	result := r.Run(Scenario{
		Name:     "repeat",
		Panel:    sahelPanel(),
		Edges:    sahelEdges(),
		Requests: []sim.Request{req, req, req},
	})

	AssertIdenticalResults(t, result, 0, 1)
	AssertIdenticalResults(t, result, 1, 2)
}

func TestHorizonBoundsReach(t *testing.T) {
	r := NewRunner(t)
	result := r.Run(Scenario{
		Name:  "horizon-reach",
		Panel: sahelPanel(),
		Edges: sahelEdges(),
		Requests: []sim.Request{
			{Epicenter: "MLI", DeltaFundingPct: -0.2, HorizonSteps: 1},
			{Epicenter: "MLI", DeltaFundingPct: -0.2, HorizonSteps: 2},
		},
	})

	// One step never leaves the epicenter; the second step reaches NER.
	AssertAffectedWithin(t, result, 0, "MLI")
	AssertCountryAffected(t, result, 1, "NER")
	AssertCountryNotAffected(t, result, 1, "BFA")
}

func TestRegionScopeFencesPropagation(t *testing.T) {
	r := NewRunner(t)
	result := r.Run(Scenario{
		Name:  "region-scope",
		Panel: sahelPanel(),
		Edges: sahelEdges(),
		Requests: []sim.Request{
			{Epicenter: "BFA", DeltaFundingPct: -0.2, HorizonSteps: 3, RegionScope: []string{"NER"}},
		},
	})

	AssertAffectedWithin(t, result, 0, "BFA", "NER")
	AssertCountryNotAffected(t, result, 0, "MLI")
}
