package store

import (
	"context"

	"spendwiser/internal/core/ports"

	"github.com/rs/zerolog"
)

// PreferenceStore implements ports.PreferenceRepository.
type PreferenceStore struct {
	codec slotCodec
}

func NewPreferenceStore(slots ports.SlotStore, onCorrupt string, log zerolog.Logger) *PreferenceStore {
	return &PreferenceStore{codec: newSlotCodec(slots, onCorrupt, log)}
}

func (s *PreferenceStore) DisplayCurrency(ctx context.Context) (string, error) {
	var code string
	if _, _, err := s.codec.read(ctx, ports.SlotDisplayCurrency, &code); err != nil {
		return "", err
	}
	return code, nil
}

func (s *PreferenceStore) SetDisplayCurrency(ctx context.Context, code string) error {
	return s.codec.write(ctx, ports.SlotDisplayCurrency, code)
}
