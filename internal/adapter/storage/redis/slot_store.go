package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// SlotStore implements ports.SlotStore with one Redis string per slot.
// Slots never expire.
type SlotStore struct {
	client *goredis.Client
	prefix string
}

// NewSlotStore creates a slot store whose keys start with prefix.
func NewSlotStore(client *goredis.Client, prefix string) *SlotStore {
	return &SlotStore{
		client: client,
		prefix: prefix + "slot:",
	}
}

// Get returns nil, nil if the slot does not exist.
func (s *SlotStore) Get(ctx context.Context, slot string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+slot).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis slot get %s: %w", slot, err)
	}
	return val, nil
}

func (s *SlotStore) Set(ctx context.Context, slot string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+slot, value, 0).Err(); err != nil {
		return fmt.Errorf("redis slot set %s: %w", slot, err)
	}
	return nil
}

func (s *SlotStore) Delete(ctx context.Context, slot string) error {
	if err := s.client.Del(ctx, s.prefix+slot).Err(); err != nil {
		return fmt.Errorf("redis slot delete %s: %w", slot, err)
	}
	return nil
}
