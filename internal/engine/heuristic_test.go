package engine

import (
	"math"
	"testing"

	"github.com/relieflab/aftershock/internal/config"
	"github.com/relieflab/aftershock/internal/store"
)

func TestStressMagnitude(t *testing.T) {
	gain := 3.0

	// A cut produces positive stress, an increase negative (relief).
	if got := StressMagnitude(-0.2, gain); got <= 0 {
		t.Errorf("cut should produce positive stress, got %v", got)
	}
	if got := StressMagnitude(0.2, gain); got >= 0 {
		t.Errorf("increase should produce negative stress, got %v", got)
	}
	if got := StressMagnitude(0, gain); got != 0 {
		t.Errorf("zero delta should produce zero stress, got %v", got)
	}

	// Saturating: stress stays inside (-1, 1) no matter the delta.
	if got := StressMagnitude(-100, gain); got >= 1 {
		t.Errorf("stress should saturate below 1, got %v", got)
	}

	// Symmetric in magnitude.
	cut := StressMagnitude(-0.2, gain)
	inc := StressMagnitude(0.2, gain)
	if math.Abs(cut+inc) > 1e-12 {
		t.Errorf("expected symmetric stress, got %v and %v", cut, inc)
	}
}

func TestHeuristicStrategy_StepImpact(t *testing.T) {
	h := NewHeuristicStrategy(config.DefaultEngine())
	rec := &store.CountryYearRecord{Country: "BFA", PopulationInNeed: 1e6}

	dSev, dDisp, err := h.StepImpact(rec, 0.5, 0)
	if err != nil {
		t.Fatalf("StepImpact: %v", err)
	}
	if want := 0.35 * 0.5; math.Abs(dSev-want) > 1e-12 {
		t.Errorf("delta severity = %v, want %v", dSev, want)
	}
	if want := 0.02 * 0.5 * 1e6; math.Abs(dDisp-want) > 1e-6 {
		t.Errorf("delta displaced = %v, want %v", dDisp, want)
	}
}

func TestHeuristicStrategy_ZeroPopulation(t *testing.T) {
	h := NewHeuristicStrategy(config.DefaultEngine())
	rec := &store.CountryYearRecord{Country: "BFA", PopulationInNeed: 0}

	dSev, dDisp, err := h.StepImpact(rec, 0.5, 0)
	if err != nil {
		t.Fatalf("StepImpact: %v", err)
	}
	if dDisp != 0 {
		t.Errorf("expected zero displacement without population data, got %v", dDisp)
	}
	if dSev == 0 {
		t.Error("severity impact should not depend on population data")
	}
}

func TestHeuristicStrategy_SeverityClamped(t *testing.T) {
	cfg := config.DefaultEngine()
	cfg.SeverityGain = 10
	h := NewHeuristicStrategy(cfg)
	rec := &store.CountryYearRecord{Country: "BFA", PopulationInNeed: 1e6}

	dSev, _, err := h.StepImpact(rec, 0.9, 0)
	if err != nil {
		t.Fatalf("StepImpact: %v", err)
	}
	if dSev != 1 {
		t.Errorf("delta severity should clamp to 1, got %v", dSev)
	}
}

func TestUnderfundedProbability(t *testing.T) {
	cfg := config.DefaultEngine()

	// Lower coverage raises the probability.
	low := UnderfundedProbability(cfg, 0.2, true, 0.1)
	high := UnderfundedProbability(cfg, 0.9, true, 0.1)
	if low <= high {
		t.Errorf("lower coverage should mean higher probability: %v vs %v", low, high)
	}

	// Higher added severity raises the probability.
	calm := UnderfundedProbability(cfg, 0.5, true, 0.0)
	stressed := UnderfundedProbability(cfg, 0.5, true, 0.3)
	if stressed <= calm {
		t.Errorf("higher severity should mean higher probability: %v vs %v", stressed, calm)
	}

	// Bounds hold at the extremes.
	for _, cov := range []float64{-5, 0, 0.5, 1, 10} {
		p := UnderfundedProbability(cfg, cov, true, 1)
		if p < 0 || p > 1 {
			t.Errorf("probability %v outside [0, 1] for coverage %v", p, cov)
		}
	}

	// No coverage data means no estimate.
	if p := UnderfundedProbability(cfg, 0, false, 0.5); p != 0 {
		t.Errorf("expected 0 without coverage data, got %v", p)
	}
}
