package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicflow/clinic-api/internal/email"
	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/internal/repository"
	"github.com/clinicflow/clinic-api/pkg/auth"
	"github.com/clinicflow/clinic-api/pkg/security"
)

const resetTokenTTL = time.Hour

type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	tokens    *auth.TokenService
	mailer    email.Sender
}

func NewService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	tokens *auth.TokenService,
	mailer email.Sender,
) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		mailer:    mailer,
	}
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password collapse into the same error so the endpoint does not leak
// which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if user.Status != model.UserStatusActive {
		return nil, model.ErrInvalidCredentials
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &model.TokenResponse{AccessToken: token, Role: user.Role}, nil
}

// RequestPasswordReset issues a one-shot reset token and mails it. It reports
// success even for unknown addresses; the caller cannot probe for accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		log.Debug().Str("email", emailAddr).Msg("password reset requested for unknown email")
		return nil
	}

	token, err := newResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.tokenRepo.StoreResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(user.Email, user.Name, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ConfirmPasswordReset consumes the token and replaces the password. The
// token is single use; a second confirm with the same token fails.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	userID, err := s.tokenRepo.ConsumeResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid or expired reset token: %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	log.Info().Str("user_id", userID.String()).Msg("password reset completed")
	return nil
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
