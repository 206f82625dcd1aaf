package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SlotStore implements ports.SlotStore on the kv_slots table.
type SlotStore struct {
	pool Pool
}

func NewSlotStore(pool Pool) *SlotStore {
	return &SlotStore{pool: pool}
}

// Get returns nil, nil when the slot has no row.
func (s *SlotStore) Get(ctx context.Context, slot string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_slots WHERE slot = $1`, slot).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot %s: %w", slot, err)
	}
	return value, nil
}

// Set upserts the slot value.
func (s *SlotStore) Set(ctx context.Context, slot string, value []byte) error {
	query := `INSERT INTO kv_slots (slot, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, slot, value); err != nil {
		return fmt.Errorf("set slot %s: %w", slot, err)
	}
	return nil
}

func (s *SlotStore) Delete(ctx context.Context, slot string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_slots WHERE slot = $1`, slot); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}
