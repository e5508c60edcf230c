// Package visualization renders the spillover graph in inspectable output
// formats. It reads the same store the engine simulates over, so what it
// draws is exactly what propagates.
package visualization

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relieflab/aftershock/internal/store"
)

// Format specifies the output format for graph rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// severityColor buckets a country's baseline severity into a DOT fill
// color, red end of the scale for the most severe crises.
func severityColor(severity float64) string {
	switch {
	case severity >= 4:
		return "firebrick"
	case severity >= 3:
		return "tomato"
	case severity >= 2:
		return "goldenrod"
	default:
		return "lightgray"
	}
}

// RenderDOT produces a Graphviz DOT representation of the spillover graph.
// Node fill encodes baseline severity; edge pen width encodes transmission
// weight. Countries without a panel record render gray with no tooltip.
func RenderDOT(s store.Store) string {
	var b strings.Builder
	b.WriteString("digraph aftershock {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	for _, country := range graphNodes(s) {
		rec, err := s.LatestRecord(country, 0)
		if err != nil {
			b.WriteString(fmt.Sprintf("  %q [fillcolor=\"lightgray\", label=%q];\n", country, country))
			continue
		}
		tooltip := fmt.Sprintf("severity=%.1f", rec.Severity)
		if cov, ok := rec.CoverageRatio(); ok {
			tooltip += fmt.Sprintf(" coverage=%.2f", cov)
		}
		b.WriteString(fmt.Sprintf("  %q [fillcolor=%q, label=%q, tooltip=%q];\n",
			country, severityColor(rec.Severity), country, tooltip))
	}
	b.WriteString("\n")

	for _, country := range graphNodes(s) {
		for _, edge := range s.OutgoingEdges(country) {
			b.WriteString(fmt.Sprintf("  %q -> %q [label=\"%.2f\", penwidth=\"%.1f\"];\n",
				edge.Source, edge.Target, edge.Weight, 0.5+3*edge.Weight))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// GraphNode is one country in the JSON rendering.
type GraphNode struct {
	Country       string   `json:"country"`
	Severity      float64  `json:"severity"`
	CoverageRatio *float64 `json:"coverage_ratio,omitempty"`
	InPanel       bool     `json:"in_panel"`
}

// Graph is the JSON rendering of the spillover graph.
type Graph struct {
	Nodes []GraphNode       `json:"nodes"`
	Edges []store.GraphEdge `json:"edges"`
}

// RenderJSON produces a machine-readable graph representation.
func RenderJSON(s store.Store) Graph {
	g := Graph{Nodes: []GraphNode{}, Edges: []store.GraphEdge{}}

	for _, country := range graphNodes(s) {
		node := GraphNode{Country: country}
		if rec, err := s.LatestRecord(country, 0); err == nil {
			node.InPanel = true
			node.Severity = rec.Severity
			if cov, ok := rec.CoverageRatio(); ok {
				node.CoverageRatio = &cov
			}
		}
		g.Nodes = append(g.Nodes, node)

		g.Edges = append(g.Edges, s.OutgoingEdges(country)...)
	}
	return g
}

// graphNodes returns every country to draw: the panel plus any country the
// graph references, deduplicated and sorted.
func graphNodes(s store.Store) []string {
	if m, ok := s.(*store.MemoryStore); ok {
		seen := make(map[string]bool)
		var out []string
		for _, c := range m.Countries() {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
		for _, c := range m.GraphCountries() {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
		sort.Strings(out)
		return out
	}
	return s.Countries()
}
