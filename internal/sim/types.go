// Package sim defines the request and result types shared by the simulation
// engine, the MCP server, and the CLI.
package sim

// Policy bounds for request clamping. Requests outside these ranges are
// clamped, not rejected, and the clamp is surfaced in Result.Notes.
const (
	// MinDeltaFundingPct is the largest supported funding cut (-30%).
	MinDeltaFundingPct = -0.3

	// MaxDeltaFundingPct is the largest supported funding increase (+30%).
	MaxDeltaFundingPct = 0.3

	// MinHorizonSteps is the minimum number of propagation steps.
	MinHorizonSteps = 1

	// MaxHorizonSteps is the maximum number of propagation steps.
	MaxHorizonSteps = 10

	// DefaultCostPerPersonUSD is the cost proxy applied per additionally
	// displaced person when the request does not override it.
	DefaultCostPerPersonUSD = 250.0
)

// Request describes one simulation: a funding perturbation at an epicenter
// country propagated over a short horizon.
type Request struct {
	// Epicenter is the ISO3 code of the country whose funding changes.
	Epicenter string `json:"epicenter"`

	// DeltaFundingPct is the funding change as a signed fraction
	// (e.g. -0.2 for a 20% cut). Clamped to [MinDeltaFundingPct, MaxDeltaFundingPct].
	DeltaFundingPct float64 `json:"delta_funding_pct"`

	// HorizonSteps is the number of discrete propagation steps.
	// Clamped to [MinHorizonSteps, MaxHorizonSteps].
	HorizonSteps int `json:"horizon_steps"`

	// RegionScope, when non-empty, restricts propagation to the listed
	// ISO3 codes. The epicenter is always in scope.
	RegionScope []string `json:"region_scope,omitempty"`

	// CostPerPerson is the USD cost proxy per displaced person.
	// Zero means DefaultCostPerPersonUSD.
	CostPerPerson float64 `json:"cost_per_person,omitempty"`

	// Debug requests per-edge propagation detail in Result.EdgesUsed.
	Debug bool `json:"debug,omitempty"`
}

// AffectedCountryImpact is the per-country outcome of a simulation.
type AffectedCountryImpact struct {
	Country             string  `json:"country"`
	DeltaSeverity       float64 `json:"delta_severity"`
	DeltaDisplaced      float64 `json:"delta_displaced"`
	ExtraCostUSD        float64 `json:"extra_cost_usd"`
	ProbUnderfundedNext float64 `json:"prob_underfunded_next"`
	Explanation         string  `json:"explanation,omitempty"`
}

// Totals aggregates per-country impacts.
type Totals struct {
	TotalDeltaDisplaced float64 `json:"total_delta_displaced"`
	TotalExtraCostUSD   float64 `json:"total_extra_cost_usd"`

	// AffectedCountries counts entries in Affected with strictly
	// nonzero DeltaDisplaced.
	AffectedCountries int `json:"affected_countries"`

	// MaxDeltaSeverity is the maximum DeltaSeverity over those same
	// entries, 0 when none.
	MaxDeltaSeverity float64 `json:"max_delta_severity"`
}

// EdgeImpact records stress transmitted along one graph edge during one
// propagation step. Collected only when the caller requests debug output.
type EdgeImpact struct {
	Step              int     `json:"step"`
	Source            string  `json:"src"`
	Target            string  `json:"dst"`
	Weight            float64 `json:"weight"`
	TransmittedStress float64 `json:"transmitted_stress"`
}

// Result is the full outcome of one simulation run. It echoes the
// effective (post-clamp) request parameters.
type Result struct {
	BaselineYear    int                     `json:"baseline_year"`
	Epicenter       string                  `json:"epicenter"`
	DeltaFundingPct float64                 `json:"delta_funding_pct"`
	HorizonSteps    int                     `json:"horizon_steps"`
	Affected        []AffectedCountryImpact `json:"affected"`
	Totals          Totals                  `json:"totals"`

	// EdgesUsed holds per-edge propagation detail when debug tracing was
	// requested, nil otherwise.
	EdgesUsed []EdgeImpact `json:"graph_edges_used,omitempty"`

	// Notes surfaces soft warnings: clamped inputs, heuristic fallback,
	// countries with insufficient data.
	Notes []string `json:"notes"`
}
