package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"airbnb-reviews/models"
)

// PostgresWriter archives acquisition results to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS acquisitions (
			request_id    VARCHAR(26)  PRIMARY KEY,
			listing_id    VARCHAR(32)  NOT NULL,
			property_name TEXT         NOT NULL,
			location      TEXT         NOT NULL,
			tier          VARCHAR(16)  NOT NULL,
			review_count  INTEGER      NOT NULL DEFAULT 0,
			diagnostic    TEXT         NOT NULL DEFAULT '',
			acquired_at   TIMESTAMPTZ  NOT NULL
		);

		CREATE TABLE IF NOT EXISTS acquisition_reviews (
			id          SERIAL PRIMARY KEY,
			request_id  VARCHAR(26) NOT NULL REFERENCES acquisitions(request_id) ON DELETE CASCADE,
			position    INTEGER     NOT NULL,
			review      TEXT        NOT NULL,
			source_url  TEXT        NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_acquisitions_listing ON acquisitions(listing_id);
		CREATE INDEX IF NOT EXISTS idx_acquisitions_tier    ON acquisitions(tier);
	`)
	return err
}

// WriteResults inserts every result and its reviews in one transaction.
// Results already archived under the same request ID are skipped.
func (pw *PostgresWriter) WriteResults(results []*models.AcquisitionResult) error {
	if len(results) == 0 {
		return nil
	}

	ctx := context.Background()
	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range results {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO acquisitions
				(request_id, listing_id, property_name, location, tier, review_count, diagnostic, acquired_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (request_id) DO NOTHING
		`, r.RequestID, r.ListingID, r.PropertyName, r.Location, string(r.Tier), r.ReviewCount, r.Diagnostic, r.AcquiredAt)
		if err != nil {
			return fmt.Errorf("postgres: insert acquisition %s: %w", r.RequestID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		if err := insertReviews(ctx, tx, r); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

const batchSize = 50

func insertReviews(ctx context.Context, tx *sql.Tx, r *models.AcquisitionResult) error {
	for i := 0; i < len(r.Reviews); i += batchSize {
		end := i + batchSize
		if end > len(r.Reviews) {
			end = len(r.Reviews)
		}
		query, args := reviewBatch(r, i, end)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert reviews %s: %w", r.RequestID, err)
		}
	}
	return nil
}

// reviewBatch builds a multi-row insert for reviews[start:end].
func reviewBatch(r *models.AcquisitionResult, start, end int) (string, []interface{}) {
	valueStrings := make([]string, 0, end-start)
	valueArgs := make([]interface{}, 0, (end-start)*4)

	for idx := start; idx < end; idx++ {
		base := (idx - start) * 4
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		source := ""
		if idx < len(r.RawReviews) {
			source = r.RawReviews[idx].SourceURL
		}
		valueArgs = append(valueArgs, r.RequestID, idx+1, r.Reviews[idx], source)
	}

	query := fmt.Sprintf(`
		INSERT INTO acquisition_reviews (request_id, position, review, source_url)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
