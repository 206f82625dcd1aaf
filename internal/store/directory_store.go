package store

import (
	"context"

	"spendwiser/internal/core/domain"
	"spendwiser/internal/core/ports"

	"github.com/rs/zerolog"
)

// CredentialStore implements ports.CredentialRepository.
type CredentialStore struct {
	codec slotCodec
}

func NewCredentialStore(slots ports.SlotStore, onCorrupt string, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{codec: newSlotCodec(slots, onCorrupt, log)}
}

// List returns every stored credential, or an empty list.
func (s *CredentialStore) List(ctx context.Context) ([]domain.Credential, error) {
	var creds []domain.Credential
	found, _, err := s.codec.read(ctx, ports.SlotUsers, &creds)
	if err != nil {
		return nil, err
	}
	if !found || creds == nil {
		return []domain.Credential{}, nil
	}
	return creds, nil
}

func (s *CredentialStore) Save(ctx context.Context, creds []domain.Credential) error {
	return s.codec.write(ctx, ports.SlotUsers, creds)
}

// SessionStore implements ports.SessionRepository.
type SessionStore struct {
	codec slotCodec
}

func NewSessionStore(slots ports.SlotStore, onCorrupt string, log zerolog.Logger) *SessionStore {
	return &SessionStore{codec: newSlotCodec(slots, onCorrupt, log)}
}

// Current returns the logged-in user, or nil.
func (s *SessionStore) Current(ctx context.Context) (*domain.User, error) {
	var user domain.User
	found, _, err := s.codec.read(ctx, ports.SlotSession, &user)
	if err != nil {
		return nil, err
	}
	if !found || user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// Set replaces the session. Only the public user fields are stored.
func (s *SessionStore) Set(ctx context.Context, user domain.User) error {
	return s.codec.write(ctx, ports.SlotSession, user)
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.codec.clear(ctx, ports.SlotSession)
}
