package visualization

import (
	"strings"
	"testing"

	"github.com/relieflab/aftershock/internal/store"
)

func fixtureStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	records := []store.CountryYearRecord{
		{Country: "BFA", Year: 2024, Severity: 3.5, FundingRequiredUSD: 800e6, FundingReceivedUSD: 320e6, PopulationInNeed: 6.3e6},
		{Country: "MLI", Year: 2024, Severity: 1.5, FundingRequiredUSD: 700e6, FundingReceivedUSD: 350e6, PopulationInNeed: 7.1e6},
	}
	for _, rec := range records {
		if err := s.AddRecord(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.AddEdge(store.GraphEdge{Source: "BFA", Target: "MLI", Weight: 0.4}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRenderDOT(t *testing.T) {
	dot := RenderDOT(fixtureStore(t))

	if !strings.HasPrefix(dot, "digraph aftershock {") {
		t.Errorf("missing digraph header:\n%s", dot)
	}
	if !strings.Contains(dot, `"BFA"`) || !strings.Contains(dot, `"MLI"`) {
		t.Errorf("missing country nodes:\n%s", dot)
	}
	if !strings.Contains(dot, `"BFA" -> "MLI"`) {
		t.Errorf("missing edge:\n%s", dot)
	}
	// Severity buckets drive fill color.
	if !strings.Contains(dot, "tomato") {
		t.Errorf("BFA at severity 3.5 should render tomato:\n%s", dot)
	}
	if !strings.Contains(dot, "lightgray") {
		t.Errorf("MLI at severity 1.5 should render lightgray:\n%s", dot)
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Errorf("unterminated digraph:\n%s", dot)
	}
}

func TestRenderDOT_GraphOnlyCountry(t *testing.T) {
	s := fixtureStore(t)
	if err := s.AddEdge(store.GraphEdge{Source: "BFA", Target: "TCD", Weight: 0.2}); err != nil {
		t.Fatal(err)
	}

	dot := RenderDOT(s)
	if !strings.Contains(dot, `"TCD"`) {
		t.Errorf("graph-only country should still render:\n%s", dot)
	}
}

func TestRenderJSON(t *testing.T) {
	g := RenderJSON(fixtureStore(t))

	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
	if g.Nodes[0].Country != "BFA" || !g.Nodes[0].InPanel {
		t.Errorf("unexpected first node: %+v", g.Nodes[0])
	}
	if g.Nodes[0].CoverageRatio == nil || *g.Nodes[0].CoverageRatio != 0.4 {
		t.Errorf("BFA coverage ratio = %v, want 0.4", g.Nodes[0].CoverageRatio)
	}
	if len(g.Edges) != 1 || g.Edges[0].Target != "MLI" {
		t.Errorf("unexpected edges: %v", g.Edges)
	}
}
