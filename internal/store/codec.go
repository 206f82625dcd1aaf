// Package store encodes the ledger, credential directory, session and
// preferences into named slots of a ports.SlotStore.
package store

import (
	"context"
	"encoding/json"

	"spendwiser/config"
	"spendwiser/internal/core/ports"
	"spendwiser/pkg/apperror"

	"github.com/rs/zerolog"
)

// slotCodec reads and writes JSON values in slots and applies the corrupt
// data policy.
type slotCodec struct {
	slots     ports.SlotStore
	onCorrupt string
	log       zerolog.Logger
}

func newSlotCodec(slots ports.SlotStore, onCorrupt string, log zerolog.Logger) slotCodec {
	if onCorrupt == "" {
		onCorrupt = config.OnCorruptFallback
	}
	return slotCodec{slots: slots, onCorrupt: onCorrupt, log: log}
}

// read decodes slot into dst. found is false when the slot is absent, empty
// or holds JSON null. recovered is true when malformed data was discarded
// under the fallback policy; dst is left untouched in that case.
func (c slotCodec) read(ctx context.Context, slot string, dst any) (found, recovered bool, err error) {
	raw, err := c.slots.Get(ctx, slot)
	if err != nil {
		return false, false, apperror.ErrStoreUnavailable(err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, false, nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		if c.onCorrupt == config.OnCorruptFail {
			return false, false, apperror.ErrCorruptSlot(slot, err)
		}
		c.log.Warn().
			Err(err).
			Str("slot", slot).
			Int("bytes", len(raw)).
			Msg("malformed slot data replaced with defaults")
		return false, true, nil
	}

	return true, false, nil
}

func (c slotCodec) write(ctx context.Context, slot string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apperror.InternalError(err)
	}
	if err := c.slots.Set(ctx, slot, raw); err != nil {
		return apperror.ErrStoreUnavailable(err)
	}
	return nil
}

func (c slotCodec) clear(ctx context.Context, slot string) error {
	if err := c.slots.Delete(ctx, slot); err != nil {
		return apperror.ErrStoreUnavailable(err)
	}
	return nil
}
