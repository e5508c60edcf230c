package store

import "fmt"

// ValidationIssue is one consistency problem found in a loaded dataset.
type ValidationIssue struct {
	// Severity is "error" or "warning". Errors make simulation results
	// unreliable; warnings only degrade them.
	Severity string `json:"severity"`
	Country  string `json:"country,omitempty"`
	Message  string `json:"message"`
}

// ValidateDataset checks a loaded dataset for drift between the panel and
// the spillover graph. Structural edge problems (bad weights, self-loops)
// are rejected at load time; this catches the cross-file issues a loader
// cannot see.
func ValidateDataset(s *MemoryStore) []ValidationIssue {
	var issues []ValidationIssue

	panel := make(map[string]struct{})
	for _, c := range s.Countries() {
		panel[c] = struct{}{}
	}

	// Graph nodes with no panel record cannot carry impact.
	for _, c := range s.GraphCountries() {
		if _, ok := panel[c]; !ok {
			issues = append(issues, ValidationIssue{
				Severity: "error",
				Country:  c,
				Message:  "referenced by the graph but missing from the panel",
			})
		}
	}

	inGraph := make(map[string]struct{})
	for _, c := range s.GraphCountries() {
		inGraph[c] = struct{}{}
	}

	for _, c := range s.Countries() {
		rec, err := s.LatestRecord(c, 0)
		if err != nil {
			continue
		}
		if _, ok := rec.CoverageRatio(); !ok {
			issues = append(issues, ValidationIssue{
				Severity: "warning",
				Country:  c,
				Message:  "funding requirement is zero, coverage ratio unavailable",
			})
		}
		if rec.PopulationInNeed <= 0 {
			issues = append(issues, ValidationIssue{
				Severity: "warning",
				Country:  c,
				Message:  "population in need is zero, displacement impact will be zero",
			})
		}
		if rec.Severity < 0 || rec.Severity > 5 {
			issues = append(issues, ValidationIssue{
				Severity: "warning",
				Country:  c,
				Message:  fmt.Sprintf("severity %.2f outside the expected 0-5 scale", rec.Severity),
			})
		}
		if _, ok := inGraph[c]; !ok {
			issues = append(issues, ValidationIssue{
				Severity: "warning",
				Country:  c,
				Message:  "isolated: no spillover edges in either direction",
			})
		}
	}

	return issues
}
