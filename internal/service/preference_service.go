package service

import (
	"context"
	"strings"

	"spendwiser/internal/core/ports"
	"spendwiser/internal/money"
	"spendwiser/pkg/apperror"

	"github.com/rs/zerolog"
)

// PreferenceServiceImpl implements ports.PreferenceService.
type PreferenceServiceImpl struct {
	repo     ports.PreferenceRepository
	conv     *money.Converter
	fallback string
	log      zerolog.Logger
}

// NewPreferenceService creates a preference service. fallback is the
// display currency used until the user picks one.
func NewPreferenceService(repo ports.PreferenceRepository, conv *money.Converter, fallback string, log zerolog.Logger) *PreferenceServiceImpl {
	return &PreferenceServiceImpl{
		repo:     repo,
		conv:     conv,
		fallback: strings.ToUpper(fallback),
		log:      log,
	}
}

// DisplayCurrency returns the saved preference, or the fallback when none
// is saved or the saved code is no longer supported.
func (s *PreferenceServiceImpl) DisplayCurrency(ctx context.Context) (string, error) {
	code, err := s.repo.DisplayCurrency(ctx)
	if err != nil {
		return "", err
	}
	if code == "" || !s.conv.Supports(code) {
		return s.fallback, nil
	}
	return code, nil
}

// SetDisplayCurrency saves code and returns it normalized.
func (s *PreferenceServiceImpl) SetDisplayCurrency(ctx context.Context, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !s.conv.Supports(code) {
		return "", apperror.ErrUnsupportedCurrency(code)
	}
	if err := s.repo.SetDisplayCurrency(ctx, code); err != nil {
		return "", err
	}
	s.log.Info().Str("currency", code).Msg("display currency changed")
	return code, nil
}
