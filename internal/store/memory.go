package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore implements Store with in-memory maps. It is the backing
// representation for every loader (SQLite, JSON dataset) and is used
// directly in tests. Writes happen only during load; reads are lock-free
// safe once loading has finished, but the mutex keeps the type safe for
// callers that interleave.
type MemoryStore struct {
	mu sync.RWMutex

	// records per country, sorted ascending by year.
	records map[string][]CountryYearRecord

	// adjacency keyed by source country.
	edges map[string][]GraphEdge

	baselineYear int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]CountryYearRecord),
		edges:   make(map[string][]GraphEdge),
	}
}

// AddRecord inserts a panel record. Country codes are normalized to upper
// case. Records for one country are kept sorted by year.
func (s *MemoryStore) AddRecord(rec CountryYearRecord) error {
	rec.Country = NormalizeISO3(rec.Country)
	if rec.Country == "" {
		return fmt.Errorf("panel record: country code is required")
	}
	if rec.Year <= 0 {
		return fmt.Errorf("panel record %s: year is required, got %d", rec.Country, rec.Year)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.records[rec.Country]
	rows = append(rows, rec)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	s.records[rec.Country] = rows

	if rec.Year > s.baselineYear {
		s.baselineYear = rec.Year
	}
	return nil
}

// AddEdge inserts a directed spillover edge. Weights outside [0, 1] are
// rejected so a corrupt graph fails at load time, not mid-simulation.
func (s *MemoryStore) AddEdge(edge GraphEdge) error {
	edge.Source = NormalizeISO3(edge.Source)
	edge.Target = NormalizeISO3(edge.Target)
	if edge.Source == "" || edge.Target == "" {
		return fmt.Errorf("graph edge: source and target are required")
	}
	if edge.Source == edge.Target {
		return fmt.Errorf("graph edge %s: self-loops are not allowed", edge.Source)
	}
	if edge.Weight < 0 || edge.Weight > 1 {
		return fmt.Errorf("graph edge %s->%s: weight %v outside [0, 1]", edge.Source, edge.Target, edge.Weight)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.edges[edge.Source] = append(s.edges[edge.Source], edge)
	return nil
}

// LatestRecord returns the most recent record at or before year (year 0 =
// latest available).
func (s *MemoryStore) LatestRecord(country string, year int) (*CountryYearRecord, error) {
	country = NormalizeISO3(country)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.records[country]
	if !ok || len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, country)
	}

	if year == 0 {
		rec := rows[len(rows)-1]
		return &rec, nil
	}

	// Walk backwards for the newest record at or before the requested year.
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Year <= year {
			rec := rows[i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no record at or before %d", ErrNotFound, country, year)
}

// OutgoingEdges returns the adjacency list for country. Leaves get an
// empty slice.
func (s *MemoryStore) OutgoingEdges(country string) []GraphEdge {
	country = NormalizeISO3(country)

	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := s.edges[country]
	out := make([]GraphEdge, len(edges))
	copy(out, edges)
	return out
}

// Countries returns all panel countries sorted ascending.
func (s *MemoryStore) Countries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.records))
	for c := range s.records {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// BaselineYear returns the most recent year across the whole panel.
func (s *MemoryStore) BaselineYear() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baselineYear
}

// GraphCountries returns every country referenced by the graph (as source
// or target), sorted. Used by validation to detect graph/panel drift.
func (s *MemoryStore) GraphCountries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for src, edges := range s.edges {
		seen[src] = struct{}{}
		for _, e := range edges {
			seen[e.Target] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// NormalizeISO3 upper-cases and trims a country code.
func NormalizeISO3(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
