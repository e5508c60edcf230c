package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // SQLite driver
)

// OpenSQLite loads the panel and spillover graph from an ETL-produced
// SQLite database into a MemoryStore. The database is fully read at open
// time and closed before returning, so simulations never touch disk.
func OpenSQLite(ctx context.Context, dbPath string) (*MemoryStore, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("aftershock database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening aftershock database: %w", err)
	}
	defer db.Close()

	s := NewMemoryStore()

	if err := loadPanel(ctx, db, s); err != nil {
		return nil, err
	}
	if err := loadEdges(ctx, db, s); err != nil {
		return nil, err
	}

	if len(s.Countries()) == 0 {
		return nil, fmt.Errorf("aftershock database %s: panel table is empty", dbPath)
	}
	return s, nil
}

func loadPanel(ctx context.Context, db *sql.DB, s *MemoryStore) error {
	rows, err := db.QueryContext(ctx, `
        SELECT country, year, severity, funding_required_usd,
               funding_received_usd, population_in_need, displaced_count
        FROM panel`)
	if err != nil {
		return fmt.Errorf("querying panel: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec CountryYearRecord
		if err := rows.Scan(
			&rec.Country, &rec.Year, &rec.Severity,
			&rec.FundingRequiredUSD, &rec.FundingReceivedUSD,
			&rec.PopulationInNeed, &rec.DisplacedCount,
		); err != nil {
			return fmt.Errorf("scanning panel row: %w", err)
		}
		if err := s.AddRecord(rec); err != nil {
			return fmt.Errorf("panel table: %w", err)
		}
	}
	return rows.Err()
}

func loadEdges(ctx context.Context, db *sql.DB, s *MemoryStore) error {
	rows, err := db.QueryContext(ctx, `SELECT source, target, weight FROM edges`)
	if err != nil {
		return fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var edge GraphEdge
		if err := rows.Scan(&edge.Source, &edge.Target, &edge.Weight); err != nil {
			return fmt.Errorf("scanning edge row: %w", err)
		}
		if err := s.AddEdge(edge); err != nil {
			return fmt.Errorf("edges table: %w", err)
		}
	}
	return rows.Err()
}
