package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/cyberfit/membership-service/internal/auth"
	"github.com/cyberfit/membership-service/internal/config"
	"github.com/cyberfit/membership-service/internal/domain"
	"github.com/cyberfit/membership-service/internal/events"
	"github.com/cyberfit/membership-service/internal/repository"
	apperrors "github.com/cyberfit/membership-service/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// AuthService coordinates registration, login and password reset flows.
type AuthService struct {
	accounts    repository.AccountRepository
	sessions    auth.SessionStore
	signer      *auth.TokenSigner
	dispatcher  events.Dispatcher
	bcryptCost  int
	resetMaxAge time.Duration
	sessionTTL  time.Duration
	publicURL   string
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	Accounts   repository.AccountRepository
	Sessions   auth.SessionStore
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts:    deps.Accounts,
		sessions:    deps.Sessions,
		signer:      auth.NewTokenSigner(cfg.Auth.SigningSecret),
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.Auth.BcryptCost,
		resetMaxAge: cfg.Auth.ResetTokenMaxAge(),
		sessionTTL:  cfg.Auth.SessionTTL(),
		publicURL:   cfg.App.PublicURL,
	}
}

// SessionTTL exposes the configured session lifetime for cookie expiry.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Register creates a new account with the entitlement flag off.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Account, error) {
	if !emailPattern.MatchString(email) {
		return nil, apperrors.NewValidationError("e-mail inválido", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Entitled:     false,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewValidationError("este e-mail já está cadastrado", nil)
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:  events.EventAccountRegistered,
		Email: account.Email,
		Payload: events.AccountRegisteredPayload{
			AccountID: account.ID,
			Name:      account.Name,
		},
	})
	return account, nil
}

// Login verifies credentials and starts a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperrors.NewUnauthorized("login inválido")
		}
		return nil, "", err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewUnauthorized("login inválido")
	}

	sessionID, err := s.sessions.Start(ctx, account.ID)
	if err != nil {
		return nil, "", err
	}
	return account, sessionID, nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.End(ctx, sessionID)
}

// RequestPasswordReset issues a signed reset token for a known email and
// hands the link to the notification pipeline.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.accounts.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewValidationError("e-mail não encontrado", nil)
		}
		return err
	}

	token, err := s.signer.Issue(email, auth.PurposePasswordReset)
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:  events.EventPasswordResetRequested,
		Email: email,
		Payload: events.PasswordResetRequestedPayload{
			ResetLink: s.publicURL + "/redefinir-senha/" + token,
		},
	})
	return nil
}

// VerifyResetToken checks a reset token and returns the embedded email.
// Expired and invalid tokens map to distinct user-facing errors.
func (s *AuthService) VerifyResetToken(_ context.Context, token string) (string, error) {
	email, err := s.signer.Verify(token, auth.PurposePasswordReset, s.resetMaxAge)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return "", apperrors.NewTokenExpired()
		}
		return "", apperrors.NewTokenInvalid()
	}
	return email, nil
}

// ConfirmPasswordReset consumes a reset token and replaces the credential
// hash. The token stays valid for the rest of its window; there is no
// revocation list.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	email, err := s.VerifyResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePasswordHash(ctx, email, hash)
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
