package scenario

import (
	"math"
	"strings"
	"testing"

	"github.com/relieflab/aftershock/internal/sim"
)

// AssertCountryAffected asserts that the result at index contains the given
// country with strictly positive displacement.
func AssertCountryAffected(t *testing.T, result RunResult, index int, country string) {
	t.Helper()
	if impact := Impact(result.Results[index], country); impact == nil {
		t.Errorf("AssertCountryAffected: request %d: %s missing from affected list", index, country)
	}
}

// AssertCountryNotAffected asserts that the country never appears in the
// result at index.
func AssertCountryNotAffected(t *testing.T, result RunResult, index int, country string) {
	t.Helper()
	if impact := Impact(result.Results[index], country); impact != nil {
		t.Errorf("AssertCountryNotAffected: request %d: %s unexpectedly affected: %+v", index, country, impact)
	}
}

// AssertAffectedWithin asserts that every affected country of the result at
// index is in the allowed set.
func AssertAffectedWithin(t *testing.T, result RunResult, index int, allowed ...string) {
	t.Helper()
	ok := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		ok[c] = true
	}
	for _, a := range result.Results[index].Affected {
		if !ok[a.Country] {
			t.Errorf("AssertAffectedWithin: request %d: %s outside the allowed set %v", index, a.Country, allowed)
		}
	}
}

// AssertNonNegativeImpacts asserts that every per-country impact of the
// result at index is non-negative (the expectation under a funding cut).
func AssertNonNegativeImpacts(t *testing.T, result RunResult, index int) {
	t.Helper()
	for _, a := range result.Results[index].Affected {
		if a.DeltaSeverity < 0 || a.DeltaDisplaced < 0 || a.ExtraCostUSD < 0 {
			t.Errorf("AssertNonNegativeImpacts: request %d: %s has negative impact: %+v", index, a.Country, a)
		}
		if a.ProbUnderfundedNext < 0 || a.ProbUnderfundedNext > 1 {
			t.Errorf("AssertNonNegativeImpacts: request %d: %s probability %v outside [0, 1]", index, a.Country, a.ProbUnderfundedNext)
		}
	}
}

// AssertTotalsConsistent asserts that the result's totals equal the sum of
// its per-country impacts (within rounding slack).
func AssertTotalsConsistent(t *testing.T, result RunResult, index int) {
	t.Helper()
	res := result.Results[index]

	var sumDisplaced, sumCost, maxSev float64
	countries := 0
	for _, a := range res.Affected {
		sumDisplaced += a.DeltaDisplaced
		sumCost += a.ExtraCostUSD
		if a.DeltaDisplaced != 0 {
			if countries == 0 || a.DeltaSeverity > maxSev {
				maxSev = a.DeltaSeverity
			}
			countries++
		}
	}

	if math.Abs(res.Totals.TotalDeltaDisplaced-sumDisplaced) > 0.01 {
		t.Errorf("AssertTotalsConsistent: request %d: total displaced %v != sum %v", index, res.Totals.TotalDeltaDisplaced, sumDisplaced)
	}
	if math.Abs(res.Totals.TotalExtraCostUSD-sumCost) > 0.01 {
		t.Errorf("AssertTotalsConsistent: request %d: total cost %v != sum %v", index, res.Totals.TotalExtraCostUSD, sumCost)
	}
	if res.Totals.AffectedCountries != countries {
		t.Errorf("AssertTotalsConsistent: request %d: affected countries %d != %d", index, res.Totals.AffectedCountries, countries)
	}
	if res.Totals.MaxDeltaSeverity != maxSev {
		t.Errorf("AssertTotalsConsistent: request %d: max delta severity %v != %v", index, res.Totals.MaxDeltaSeverity, maxSev)
	}
}

// AssertMonotoneTotals asserts that total displacement does not decrease
// across the given request indices (ordered from smallest to largest cut).
func AssertMonotoneTotals(t *testing.T, result RunResult, indices ...int) {
	t.Helper()
	for i := 1; i < len(indices); i++ {
		prev := result.Results[indices[i-1]].Totals.TotalDeltaDisplaced
		cur := result.Results[indices[i]].Totals.TotalDeltaDisplaced
		if cur < prev {
			t.Errorf("AssertMonotoneTotals: request %d total %v < request %d total %v", indices[i], cur, indices[i-1], prev)
		}
	}
}

// AssertIdenticalResults asserts that two requests of the run produced
// byte-for-byte identical outcomes.
func AssertIdenticalResults(t *testing.T, result RunResult, indexA, indexB int) {
	t.Helper()
	a, b := result.Results[indexA], result.Results[indexB]
	if len(a.Affected) != len(b.Affected) {
		t.Errorf("AssertIdenticalResults: requests %d and %d differ in affected count: %d vs %d", indexA, indexB, len(a.Affected), len(b.Affected))
		return
	}
	for i := range a.Affected {
		if a.Affected[i] != b.Affected[i] {
			t.Errorf("AssertIdenticalResults: requests %d and %d differ at %s: %+v vs %+v",
				indexA, indexB, a.Affected[i].Country, a.Affected[i], b.Affected[i])
		}
	}
	if a.Totals != b.Totals {
		t.Errorf("AssertIdenticalResults: requests %d and %d differ in totals: %+v vs %+v", indexA, indexB, a.Totals, b.Totals)
	}
}

// AssertNoteContains asserts that some note of the result at index contains
// the given substring.
func AssertNoteContains(t *testing.T, result RunResult, index int, substr string) {
	t.Helper()
	for _, n := range result.Results[index].Notes {
		if strings.Contains(n, substr) {
			return
		}
	}
	t.Errorf("AssertNoteContains: request %d: no note contains %q (notes: %v)", index, substr, result.Results[index].Notes)
}

// Impact returns the affected entry for country, or nil when absent.
func Impact(res *sim.Result, country string) *sim.AffectedCountryImpact {
	for i := range res.Affected {
		if res.Affected[i].Country == country {
			return &res.Affected[i]
		}
	}
	return nil
}
