package store

import (
	"context"

	"spendwiser/internal/core/domain"
	"spendwiser/internal/core/ports"

	"github.com/rs/zerolog"
)

// LedgerStore implements ports.LedgerRepository.
type LedgerStore struct {
	codec slotCodec
}

// NewLedgerStore creates a ledger repository over slots. onCorrupt is one
// of config.OnCorruptFallback or config.OnCorruptFail.
func NewLedgerStore(slots ports.SlotStore, onCorrupt string, log zerolog.Logger) *LedgerStore {
	return &LedgerStore{codec: newSlotCodec(slots, onCorrupt, log)}
}

// Load reads both collections. An absent slot yields its default: the seed
// wallets or an empty transaction list.
func (s *LedgerStore) Load(ctx context.Context) (*ports.LedgerSnapshot, error) {
	snap := &ports.LedgerSnapshot{}

	var wallets []domain.Wallet
	found, recovered, err := s.codec.read(ctx, ports.SlotWallets, &wallets)
	if err != nil {
		return nil, err
	}
	if recovered {
		snap.Recovered = append(snap.Recovered, ports.SlotWallets)
	}
	if !found {
		wallets = domain.SeedWallets()
	}

	var txns []domain.Transaction
	found, recovered, err = s.codec.read(ctx, ports.SlotTransactions, &txns)
	if err != nil {
		return nil, err
	}
	if recovered {
		snap.Recovered = append(snap.Recovered, ports.SlotTransactions)
	}
	if !found || txns == nil {
		txns = []domain.Transaction{}
	}

	snap.Wallets = wallets
	snap.Transactions = txns
	return snap, nil
}

func (s *LedgerStore) SaveWallets(ctx context.Context, wallets []domain.Wallet) error {
	return s.codec.write(ctx, ports.SlotWallets, wallets)
}

func (s *LedgerStore) SaveTransactions(ctx context.Context, txns []domain.Transaction) error {
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return s.codec.write(ctx, ports.SlotTransactions, txns)
}
