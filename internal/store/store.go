// Package store is the optional Postgres backing for player accounts. The
// relay core never talks to it directly; it only surfaces as an
// Authenticator and as seed rows for the profile directory.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// Store wraps DB access.
type Store struct {
	Pool *pgxpool.Pool
}

func New(dsn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// EnsureSchema creates the accounts table when it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			account_id  INTEGER PRIMARY KEY,
			name        TEXT NOT NULL,
			token_hash  TEXT NOT NULL UNIQUE,
			cube        SMALLINT NOT NULL DEFAULT 0,
			color1      SMALLINT NOT NULL DEFAULT 0,
			color2      SMALLINT NOT NULL DEFAULT 0,
			role        SMALLINT NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

// HashToken hashes a login token for at-rest comparison.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
