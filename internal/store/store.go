// Package store provides read access to the country-year panel and the
// spillover graph. Both are produced by an external ETL process, loaded
// once at startup, and read-only during simulation.
package store

import "errors"

// ErrNotFound reports a country with no panel record at all.
var ErrNotFound = errors.New("country not found in panel")

// CountryYearRecord is one row of the panel: baseline attributes for a
// (country, year) pair. Immutable once loaded.
type CountryYearRecord struct {
	Country            string  `json:"country"`
	Year               int     `json:"year"`
	Severity           float64 `json:"severity"`
	FundingRequiredUSD float64 `json:"funding_required_usd"`
	FundingReceivedUSD float64 `json:"funding_received_usd"`
	PopulationInNeed   float64 `json:"population_in_need"`
	DisplacedCount     float64 `json:"displaced_count"`
}

// CoverageRatio returns funding received over funding required, and false
// when the denominator is zero (insufficient data).
func (r *CountryYearRecord) CoverageRatio() (float64, bool) {
	if r.FundingRequiredUSD <= 0 {
		return 0, false
	}
	return r.FundingReceivedUSD / r.FundingRequiredUSD, true
}

// GraphEdge is a directed spillover edge. Weight is the fraction of stress
// transmitted from Source to Target per propagation step, in [0, 1].
type GraphEdge struct {
	Source string  `json:"src"`
	Target string  `json:"dst"`
	Weight float64 `json:"weight"`
}

// Store is the read-only view the simulation engine operates on.
// Implementations must be safe for concurrent readers.
type Store interface {
	// LatestRecord returns the most recent record for country at or
	// before year. Year 0 means the latest available. Returns ErrNotFound
	// when the country has no record at all.
	LatestRecord(country string, year int) (*CountryYearRecord, error)

	// OutgoingEdges returns the country's outgoing edges. Graph leaves
	// yield an empty slice, not an error.
	OutgoingEdges(country string) []GraphEdge

	// Countries returns all panel countries in sorted order.
	Countries() []string

	// BaselineYear returns the most recent year present in the panel.
	BaselineYear() int
}
