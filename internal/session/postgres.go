package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx driver

	"github.com/gometeo/cityweather/internal/model"
)

type PostgresStore struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger
}

func NewPostgresStore(dsn string, ttl time.Duration, logger *slog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := newPostgresStore(db, ttl, logger)
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newPostgresStore(db *sql.DB, ttl time.Duration, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, logger: logger}
}

// migrate creates the sessions table and drops rows that expired while the
// service was down.
func (s *PostgresStore) migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		id VARCHAR(64) PRIMARY KEY,
		data JSONB NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}

	removed, err := s.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("session store connected", "backend", "postgres", "expired_removed", removed)
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Set upserts the state and pushes its expiry ttl into the future.
func (s *PostgresStore) Set(ctx context.Context, id string, state *model.SessionState) error {
	b, err := encodeState(state)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (id, data, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data,
		    expires_at = EXCLUDED.expires_at;
	`

	if _, err := s.db.ExecContext(ctx, query, id, string(b), time.Now().Add(s.ttl)); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.SessionState, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE id = $1 AND expires_at > now()`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	return decodeState(data)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// DeleteExpired removes rows whose expiry has passed and reports how many.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

var _ Store = (*PostgresStore)(nil)
