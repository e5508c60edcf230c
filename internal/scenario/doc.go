// Package scenario provides a multi-request test harness for validating
// end-to-end properties of the spillover simulation engine.
//
// Scenarios exercise the real Engine, MemoryStore, and model Provider with
// no mocks. A scenario is a Go builder that constructs a fixture panel and
// spillover graph, optionally installs a model artifact, and runs a batch
// of simulation requests, capturing every result for property-based
// assertions.
//
// Each test gets an isolated temp directory for the model artifact, so
// reload experiments never touch shared state.
//
// Usage:
//
//	func TestCutPropagation(t *testing.T) {
//	    r := scenario.NewRunner(t)
//	    result := r.Run(scenario.Scenario{
//	        Name:     "sahel-cut",
//	        Panel:    []store.CountryYearRecord{...},
//	        Edges:    []store.GraphEdge{...},
//	        Requests: []sim.Request{...},
//	    })
//	    scenario.AssertNonNegativeImpacts(t, result, 0)
//	}
package scenario
