package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"spendwiser/config"
	"spendwiser/internal/core/domain"
	"spendwiser/internal/core/ports"
	"spendwiser/internal/money"
	"spendwiser/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService.
// One mutex serializes every read and write of the collections, so two
// AddTransaction calls never interleave.
type LedgerServiceImpl struct {
	repo     ports.LedgerRepository
	conv     *money.Converter
	dangling string
	log      zerolog.Logger

	mu      sync.Mutex
	loaded  bool
	wallets []domain.Wallet
	txns    []domain.Transaction // most recent first

	now   func() time.Time
	newID func() (string, error)
}

// NewLedgerService creates a ledger. dangling is one of the
// config.Dangling* policies; empty means config.DanglingRecord.
func NewLedgerService(
	repo ports.LedgerRepository,
	conv *money.Converter,
	dangling string,
	log zerolog.Logger,
) *LedgerServiceImpl {
	if dangling == "" {
		dangling = config.DanglingRecord
	}
	return &LedgerServiceImpl{
		repo:     repo,
		conv:     conv,
		dangling: dangling,
		log:      log,
		now:      time.Now,
		newID:    newTransactionID,
	}
}

func newTransactionID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Load replaces the in-memory collections with the stored ones.
func (s *LedgerServiceImpl) Load(ctx context.Context) ([]string, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.wallets = snap.Wallets
	s.txns = snap.Transactions
	s.loaded = true
	s.mu.Unlock()

	if len(snap.Recovered) > 0 {
		s.log.Warn().Strs("slots", snap.Recovered).Msg("ledger loaded with defaults for malformed slots")
	}
	s.log.Info().
		Int("wallets", len(snap.Wallets)).
		Int("transactions", len(snap.Transactions)).
		Msg("ledger loaded")

	return snap.Recovered, nil
}

// AddTransaction records a new transaction and applies it to its wallet.
// Both slots are written before memory changes; a failed write leaves the
// ledger as it was.
func (s *LedgerServiceImpl) AddTransaction(ctx context.Context, draft domain.TransactionDraft) (*ports.AddResult, error) {
	draft = s.normalizeDraft(draft)
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, apperror.ErrLedgerNotLoaded()
	}

	id, err := s.newID()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("transaction id: %w", err))
	}
	txn := draft.Record(id)
	result := &ports.AddResult{Transaction: txn}

	wallets := cloneWallets(s.wallets)
	idx := findWallet(wallets, txn.WalletID)

	if idx < 0 {
		switch s.dangling {
		case config.DanglingReject:
			return nil, apperror.ErrWalletNotFound(txn.WalletID)
		case config.DanglingPlaceholder:
			wallets = append(wallets, domain.PlaceholderWallet(txn.WalletID, txn.Currency))
			idx = len(wallets) - 1
			s.log.Info().Str("wallet_id", txn.WalletID).Msg("created placeholder wallet")
		default:
			result.Warning = fmt.Sprintf("wallet %q not found; balance not updated", txn.WalletID)
			s.log.Warn().
				Str("wallet_id", txn.WalletID).
				Str("transaction_id", txn.ID).
				Msg("transaction recorded against unknown wallet")
		}
	}

	if idx >= 0 {
		w := &wallets[idx]
		delta := s.conv.Convert(txn.Amount, txn.Currency, w.Currency)
		if txn.Type == domain.TransactionTypeExpense {
			delta = delta.Neg()
		}
		w.Balance = w.Balance.Add(delta)

		updated := *w
		result.Wallet = &updated
		result.BalanceApplied = true
	}

	txns := make([]domain.Transaction, 0, len(s.txns)+1)
	txns = append(txns, txn)
	txns = append(txns, s.txns...)

	if err := s.repo.SaveTransactions(ctx, txns); err != nil {
		return nil, err
	}

	if result.BalanceApplied {
		if err := s.repo.SaveWallets(ctx, wallets); err != nil {
			if rbErr := s.repo.SaveTransactions(ctx, s.txns); rbErr != nil {
				s.log.Error().Err(rbErr).Msg("restoring transactions slot after failed wallet save")
			}
			return nil, err
		}
	}

	s.txns = txns
	s.wallets = wallets

	ev := s.log.Info().
		Str("transaction_id", txn.ID).
		Str("wallet_id", txn.WalletID).
		Str("type", string(txn.Type)).
		Str("amount", txn.Amount.String()).
		Str("currency", txn.Currency).
		Bool("balance_applied", result.BalanceApplied)
	if result.Wallet != nil {
		ev = ev.Str("balance", result.Wallet.Balance.String())
	}
	ev.Msg("transaction added")

	return result, nil
}

func (s *LedgerServiceImpl) normalizeDraft(d domain.TransactionDraft) domain.TransactionDraft {
	d.Type = domain.TransactionType(strings.ToLower(strings.TrimSpace(string(d.Type))))
	d.Category = strings.TrimSpace(d.Category)
	if d.Category == "" {
		d.Category = domain.CategoryOther
	}
	d.Description = strings.TrimSpace(d.Description)
	d.WalletID = strings.TrimSpace(d.WalletID)
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))
	d.Date = strings.TrimSpace(d.Date)
	if d.Date == "" {
		d.Date = s.now().Format(domain.DateLayout)
	}
	return d
}

func (s *LedgerServiceImpl) validateDraft(d domain.TransactionDraft) error {
	switch {
	case !d.Amount.IsPositive():
		return apperror.Validation("amount must be greater than zero")
	case !d.Type.IsValid():
		return apperror.Validation("type must be income or expense")
	case d.WalletID == "":
		return apperror.Validation("walletId is required")
	case d.Description == "":
		return apperror.Validation("description is required")
	case !s.conv.Supports(d.Currency):
		return apperror.ErrUnsupportedCurrency(d.Currency)
	}
	if _, ok := domain.ParseDate(d.Date); !ok {
		return apperror.Validation("date must be an ISO-8601 date")
	}
	return nil
}

// Wallets returns a copy of the wallet collection.
func (s *LedgerServiceImpl) Wallets() ([]domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, apperror.ErrLedgerNotLoaded()
	}
	return cloneWallets(s.wallets), nil
}

// Transactions returns a copy of the transactions, most recent first.
func (s *LedgerServiceImpl) Transactions() ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, apperror.ErrLedgerNotLoaded()
	}
	return cloneTransactions(s.txns), nil
}

// Supports reports whether currency can be used in drafts and views.
func (s *LedgerServiceImpl) Supports(currency string) bool {
	return s.conv.Supports(currency)
}

// WalletView returns the wallets with balances shown in currency.
func (s *LedgerServiceImpl) WalletView(currency string) ([]domain.Wallet, error) {
	currency = strings.ToUpper(currency)
	if !s.conv.Supports(currency) {
		return nil, apperror.ErrUnsupportedCurrency(currency)
	}

	wallets, err := s.Wallets()
	if err != nil {
		return nil, err
	}
	return ConvertWallets(wallets, currency, s.conv), nil
}

// TransactionView returns the transactions tab: shown in q.Currency and
// filtered by description.
func (s *LedgerServiceImpl) TransactionView(q ports.TransactionQuery) ([]domain.Transaction, error) {
	currency := strings.ToUpper(q.Currency)
	if !s.conv.Supports(currency) {
		return nil, apperror.ErrUnsupportedCurrency(currency)
	}

	txns, err := s.Transactions()
	if err != nil {
		return nil, err
	}
	return Search(ConvertTransactions(txns, currency, s.conv), q.Query, SearchOptions{}), nil
}

// Dashboard builds the dashboard view. The summary covers every
// transaction; the list is filtered by description or category.
func (s *LedgerServiceImpl) Dashboard(q ports.DashboardQuery) (*ports.DashboardView, error) {
	currency := strings.ToUpper(q.Currency)
	if !s.conv.Supports(currency) {
		return nil, apperror.ErrUnsupportedCurrency(currency)
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, apperror.ErrLedgerNotLoaded()
	}
	wallets := ConvertWallets(s.wallets, currency, s.conv)
	txns := ConvertTransactions(s.txns, currency, s.conv)
	s.mu.Unlock()

	summary := Aggregate(txns)

	return &ports.DashboardView{
		Currency:     currency,
		Wallets:      wallets,
		Transactions: Search(txns, q.Query, SearchOptions{IncludeCategory: true}),
		Summary:      summary,
		Formatted: ports.FormattedSummary{
			TotalIncome:  money.Format(summary.TotalIncome, currency, money.Whole),
			TotalExpense: money.Format(summary.TotalExpense, currency, money.Whole),
			Balance:      money.Format(summary.Balance, currency, money.Whole),
		},
		WalletCount: len(wallets),
	}, nil
}

func findWallet(wallets []domain.Wallet, id string) int {
	for i := range wallets {
		if wallets[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneWallets(in []domain.Wallet) []domain.Wallet {
	out := make([]domain.Wallet, len(in))
	copy(out, in)
	return out
}

func cloneTransactions(in []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(in))
	copy(out, in)
	return out
}
