// Package archive keeps every freshly scraped snapshot in PostgreSQL so deal
// scores can be compared across days.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"fyndchans/listingworker/internal/crawler"
	"fyndchans/listingworker/logger"
)

const (
	pingAttempts = 10
	pingBackoff  = 2 * time.Second
	batchSize    = 50
	columnCount  = 9
)

// PostgresArchive appends ranked snapshots to the listing_snapshots table.
type PostgresArchive struct {
	db *sql.DB
}

// NewPostgresArchive opens a connection, waits for the server and migrates
// the schema.
func NewPostgresArchive(ctx context.Context, dsn string) (*PostgresArchive, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < pingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(pingBackoff):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	a := &PostgresArchive{db: db}
	if err := a.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return a, nil
}

func (a *PostgresArchive) migrate(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listing_snapshots (
			id           BIGSERIAL PRIMARY KEY,
			run_id       UUID          NOT NULL,
			captured_at  TIMESTAMPTZ   NOT NULL,
			rank         INTEGER       NOT NULL,
			address      TEXT,
			list_price   NUMERIC(14,2) NOT NULL DEFAULT 0,
			valuation    NUMERIC(14,2),
			deal_score   NUMERIC(14,2) NOT NULL DEFAULT 0,
			url          TEXT          NOT NULL,
			next_showing TEXT,
			UNIQUE (run_id, rank)
		);

		CREATE INDEX IF NOT EXISTS idx_listing_snapshots_captured ON listing_snapshots(captured_at);
		CREATE INDEX IF NOT EXISTS idx_listing_snapshots_url      ON listing_snapshots(url);
	`)
	return err
}

// Write stores listings, in their ranked order, under runID.
// All rows of a run land in one transaction.
func (a *PostgresArchive) Write(ctx context.Context, runID string, capturedAt time.Time, listings []crawler.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := insertQuery(runID, capturedAt, i, listings[i:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}

	logger.ForArchive().Debug().
		Str("run_id", runID).
		Int("rows", len(listings)).
		Msg("Snapshot archived")
	return nil
}

// insertQuery builds one multi-row insert; offset is the rank of batch[0].
func insertQuery(runID string, capturedAt time.Time, offset int, batch []crawler.Listing) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*columnCount)

	for idx, l := range batch {
		base := idx * columnCount
		placeholders := make([]string, columnCount)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runID, capturedAt, offset+idx+1,
			nullString(l.Address), l.ListPrice, nullFloat(l.Valuation), l.DealScore,
			l.URL, nullString(emptyToNil(l.NextShowing)))
	}

	query := fmt.Sprintf(`
		INSERT INTO listing_snapshots (run_id, captured_at, rank, address, list_price, valuation, deal_score, url, next_showing)
		VALUES %s
		ON CONFLICT (run_id, rank) DO NOTHING
	`, strings.Join(valueStrings, ","))

	return query, valueArgs
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Runs returns the number of archived snapshots.
func (a *PostgresArchive) Runs(ctx context.Context) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT run_id) FROM listing_snapshots`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("postgres: count runs: %w", err)
	}
	return n, nil
}

// Close closes the database handle.
func (a *PostgresArchive) Close() error {
	return a.db.Close()
}
