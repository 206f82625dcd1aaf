package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"spendwiser/internal/core/domain"
	"spendwiser/internal/core/ports"
	"spendwiser/pkg/apperror"

	"github.com/rs/zerolog"
)

// SessionServiceImpl implements ports.SessionDirectory over a credential
// directory holding Argon2id hashes.
type SessionServiceImpl struct {
	creds   ports.CredentialRepository
	session ports.SessionRepository
	hashSvc ports.HashService
	log     zerolog.Logger

	// mu serializes directory read-modify-write cycles.
	mu    sync.Mutex
	newID func() (string, error)
}

// NewSessionService creates a new SessionServiceImpl.
func NewSessionService(
	creds ports.CredentialRepository,
	session ports.SessionRepository,
	hashSvc ports.HashService,
	log zerolog.Logger,
) *SessionServiceImpl {
	return &SessionServiceImpl{
		creds:   creds,
		session: session,
		hashSvc: hashSvc,
		log:     log,
		newID:   newTransactionID,
	}
}

// Register adds a user and logs them in. Emails are unique ignoring case.
func (s *SessionServiceImpl) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	switch {
	case name == "":
		return nil, apperror.Validation("Name is required")
	case email == "":
		return nil, apperror.Validation("Email is required")
	case password == "":
		return nil, apperror.Validation("Password is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.creds.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range creds {
		if c.Matches(email) {
			return nil, apperror.ErrDuplicateUser()
		}
	}

	hash, err := s.hashSvc.Hash(password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	id, err := s.newID()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("user id: %w", err))
	}

	user := domain.User{ID: id, Email: email, Name: name}
	if err := s.creds.Save(ctx, append(creds, domain.Credential{User: user, PasswordHash: hash})); err != nil {
		return nil, err
	}
	if err := s.session.Set(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return &user, nil
}

// Login authenticates and establishes the session. Unknown email and wrong
// password produce the same error.
func (s *SessionServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, error) {
	creds, err := s.creds.List(ctx)
	if err != nil {
		return nil, err
	}

	var match *domain.Credential
	for i := range creds {
		if creds[i].Matches(email) {
			match = &creds[i]
			break
		}
	}
	if match == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hashSvc.Verify(password, match.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", match.ID).Msg("stored password hash is unreadable")
		return nil, apperror.ErrInvalidCredentials()
	}
	if !ok {
		return nil, apperror.ErrInvalidCredentials()
	}

	user := match.User
	if err := s.session.Set(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &user, nil
}

// CurrentUser returns the logged-in user, or nil.
func (s *SessionServiceImpl) CurrentUser(ctx context.Context) (*domain.User, error) {
	return s.session.Current(ctx)
}

// Logout clears the session.
func (s *SessionServiceImpl) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}
