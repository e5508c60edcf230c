package mcp

import "github.com/relieflab/aftershock/internal/sim"

// SimulateInput defines the input for the aftershock_simulate tool.
type SimulateInput struct {
	Epicenter       string   `json:"epicenter" jsonschema:"ISO3 code of the country whose funding changes (e.g. 'BFA')"`
	DeltaFundingPct float64  `json:"delta_funding_pct" jsonschema:"Funding change as a signed fraction (e.g. -0.2 for a 20% cut); clamped to [-0.3, 0.3]"`
	HorizonSteps    int      `json:"horizon_steps" jsonschema:"Number of propagation steps; clamped to [1, 10]"`
	RegionScope     []string `json:"region_scope,omitempty" jsonschema:"Optional ISO3 codes restricting propagation targets"`
	CostPerPerson   float64  `json:"cost_per_person,omitempty" jsonschema:"USD cost proxy per displaced person (default 250)"`
	Debug           bool     `json:"debug,omitempty" jsonschema:"Include per-edge propagation detail in the result"`
}

// SimulateOutput defines the output for the aftershock_simulate tool.
type SimulateOutput struct {
	Result *sim.Result `json:"result" jsonschema:"Structured impact estimate"`
}

// CountriesInput defines the input for the aftershock_countries tool.
type CountriesInput struct {
	Year int `json:"year,omitempty" jsonschema:"Panel year to report (0 = latest available)"`
}

// CountrySummary is one panel country's baseline view.
type CountrySummary struct {
	Country          string  `json:"country"`
	Year             int     `json:"year"`
	Severity         float64 `json:"severity"`
	CoverageRatio    float64 `json:"coverage_ratio"`
	PopulationInNeed float64 `json:"population_in_need"`
	OutgoingEdges    int     `json:"outgoing_edges"`
}

// CountriesOutput defines the output for the aftershock_countries tool.
type CountriesOutput struct {
	BaselineYear int              `json:"baseline_year" jsonschema:"Most recent year in the panel"`
	Countries    []CountrySummary `json:"countries" jsonschema:"Baseline view per panel country"`
	Count        int              `json:"count" jsonschema:"Number of countries"`
}

// StatusInput defines the input for the aftershock_status tool.
type StatusInput struct{}

// StatusOutput defines the output for the aftershock_status tool.
type StatusOutput struct {
	BaselineYear   int      `json:"baseline_year" jsonschema:"Most recent year in the panel"`
	CountryCount   int      `json:"country_count" jsonschema:"Number of panel countries"`
	ModelAvailable bool     `json:"model_available" jsonschema:"Whether a trained model artifact is loaded"`
	Notes          []string `json:"notes,omitempty" jsonschema:"Data and model load notes"`
}
