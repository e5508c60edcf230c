package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// panelFile is the on-disk shape of panel.json: one record per
// (country, year).
type panelFile struct {
	Records []CountryYearRecord `json:"records"`
}

// graphFile is the on-disk shape of graph.json: a flat edge list.
type graphFile struct {
	Edges []GraphEdge `json:"edges"`
}

// LoadDataset loads a panel and spillover graph from JSON files into a
// MemoryStore. This is the lightweight fixture path; production data comes
// from the ETL-produced SQLite database (see OpenSQLite).
func LoadDataset(panelPath, graphPath string) (*MemoryStore, error) {
	s := NewMemoryStore()

	panelData, err := os.ReadFile(panelPath)
	if err != nil {
		return nil, fmt.Errorf("reading panel file: %w", err)
	}
	var panel panelFile
	if err := json.Unmarshal(panelData, &panel); err != nil {
		return nil, fmt.Errorf("parsing panel file %s: %w", panelPath, err)
	}
	if len(panel.Records) == 0 {
		return nil, fmt.Errorf("panel file %s contains no records", panelPath)
	}
	for _, rec := range panel.Records {
		if err := s.AddRecord(rec); err != nil {
			return nil, fmt.Errorf("panel file %s: %w", panelPath, err)
		}
	}

	graphData, err := os.ReadFile(graphPath)
	if err != nil {
		return nil, fmt.Errorf("reading graph file: %w", err)
	}
	var graph graphFile
	if err := json.Unmarshal(graphData, &graph); err != nil {
		return nil, fmt.Errorf("parsing graph file %s: %w", graphPath, err)
	}
	for _, edge := range graph.Edges {
		if err := s.AddEdge(edge); err != nil {
			return nil, fmt.Errorf("graph file %s: %w", graphPath, err)
		}
	}

	return s, nil
}
