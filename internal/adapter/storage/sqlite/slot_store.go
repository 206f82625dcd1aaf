// Package sqlite stores slots in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SlotStore implements ports.SlotStore and ports.HealthChecker on a single
// SQLite file.
type SlotStore struct {
	db *sql.DB
}

// Open creates the database file if needed, applies migrations and returns
// a ready store.
func Open(ctx context.Context, dbPath string, log zerolog.Logger) (*SlotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time; avoids SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("path", dbPath).Msg("SQLite slot store ready")
	return &SlotStore{db: db}, nil
}

func (s *SlotStore) Close() error {
	return s.db.Close()
}

// Get returns nil, nil when the slot has no row.
func (s *SlotStore) Get(ctx context.Context, slot string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE slot = ?`, slot).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot %s: %w", slot, err)
	}
	return value, nil
}

func (s *SlotStore) Set(ctx context.Context, slot string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv_slots (slot, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (slot) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		slot, value)
	if err != nil {
		return fmt.Errorf("set slot %s: %w", slot, err)
	}
	return nil
}

func (s *SlotStore) Delete(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_slots WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

func (s *SlotStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SlotStore) Name() string {
	return "sqlite"
}
