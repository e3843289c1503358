package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"bongo-server/internal/utils/idgen"
)

// Service manages account lifecycle on top of a Repository.
type Service struct {
	repo        Repository
	signupBonus int64
	log         zerolog.Logger
}

// NewService creates an account service. signupBonus is the token grant for
// first-time accounts.
func NewService(repo Repository, signupBonus int64, log zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		signupBonus: signupBonus,
		log:         log,
	}
}

// Identity carries the verified claims of a session token.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// EnsureAccount returns the account for an identity, creating it with the
// signup bonus on first sight. Creation races resolve by re-reading.
func (s *Service) EnsureAccount(ctx context.Context, id Identity) (*Account, error) {
	if id.Subject == "" {
		return nil, fmt.Errorf("identity subject must not be empty")
	}

	acc, err := s.repo.FindBySubject(ctx, id.Subject)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find account: %w", err)
	}

	publicID, err := idgen.GenerateSecureID("acct", 16)
	if err != nil {
		return nil, fmt.Errorf("generate account id: %w", err)
	}

	acc = &Account{
		PublicID:           publicID,
		Subject:            id.Subject,
		Email:              id.Email,
		Name:               id.Name,
		Tokens:             s.signupBonus,
		SignupBonusGranted: s.signupBonus > 0,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		// Another request may have created the account concurrently.
		if existing, findErr := s.repo.FindBySubject(ctx, id.Subject); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info().
		Str("public_id", acc.PublicID).
		Int64("signup_bonus", s.signupBonus).
		Msg("[AccountService] Created account with signup bonus")

	return acc, nil
}

// Get returns the account for a subject.
func (s *Service) Get(ctx context.Context, subject string) (*Account, error) {
	return s.repo.FindBySubject(ctx, subject)
}
