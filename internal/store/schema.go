package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema for the ETL-produced aftershock database. The ETL owns writes;
// this process only reads. InitSchema exists so tests and local tooling
// can build fixture databases with the same shape.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS panel (
    country              TEXT NOT NULL,
    year                 INTEGER NOT NULL,
    severity             REAL NOT NULL DEFAULT 0,
    funding_required_usd REAL NOT NULL DEFAULT 0,
    funding_received_usd REAL NOT NULL DEFAULT 0,
    population_in_need   REAL NOT NULL DEFAULT 0,
    displaced_count      REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (country, year)
);

CREATE TABLE IF NOT EXISTS edges (
    source TEXT NOT NULL,
    target TEXT NOT NULL,
    weight REAL NOT NULL,
    PRIMARY KEY (source, target)
);

CREATE INDEX IF NOT EXISTS idx_panel_country ON panel(country);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
`

// InitSchema creates the panel and edges tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("initializing aftershock schema: %w", err)
	}
	return nil
}
