package interactionlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time interface check.
var _ Logger = (*PostgresStore)(nil)

// schema creates the interaction log table. Idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS assistant_interactions (
	id          BIGSERIAL PRIMARY KEY,
	session_id  TEXT        NOT NULL,
	message     TEXT        NOT NULL,
	response    TEXT        NOT NULL,
	topic_id    TEXT        NOT NULL,
	confidence  DOUBLE PRECISION,
	feedback    TEXT,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assistant_interactions_session
	ON assistant_interactions (session_id, created_at);
`

// PostgresStore persists interaction records in PostgreSQL for the
// platform's analytics queries. Safe for concurrent use.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database at dsn, verifies the
// connection, and ensures the interaction table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("interactionlog: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("interactionlog: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("interactionlog: migrate: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Log implements [Logger].
func (s *PostgresStore) Log(ctx context.Context, rec Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO assistant_interactions
			(session_id, message, response, topic_id, confidence, feedback, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.SessionID, rec.Message, rec.Response, rec.TopicID,
		rec.Confidence, nullable(rec.Feedback), rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("interactionlog: insert: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable. Used by the readiness
// probe.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// nullable maps "" to nil so empty feedback stores as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
