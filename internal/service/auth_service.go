package service

import (
	"context"
	"fmt"

	"cardapio/internal/auth"
	"cardapio/internal/model"
	"cardapio/internal/repository"

	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	settingsRepo repository.SettingsRepository
	checker      *auth.Checker
	logger       zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(settingsRepo repository.SettingsRepository, checker *auth.Checker, logger zerolog.Logger) AuthService {
	return &authService{
		settingsRepo: settingsRepo,
		checker:      checker,
		logger:       logger.With().Str("service", "auth").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, password string) error {
	ok, err := s.VerifyPassword(ctx, password)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn().Msg("admin login failed")
		return model.ErrInvalidPassword
	}
	return nil
}

// VerifyPassword checks password against the stored hash, or the default
// password while no hash is stored.
func (s *authService) VerifyPassword(ctx context.Context, password string) (bool, error) {
	hash, err := s.passwordHash(ctx)
	if err != nil {
		return false, err
	}
	return s.checker.Verify(hash, password), nil
}

func (s *authService) UsingDefaultPassword(ctx context.Context) bool {
	hash, err := s.passwordHash(ctx)
	if err != nil {
		return true
	}
	return hash == ""
}

func (s *authService) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return model.NewValidationError("currentPassword and newPassword are required")
	}

	if err := s.Login(ctx, current); err != nil {
		return err
	}

	hash, err := s.checker.Hash(next)
	if err != nil {
		return model.NewDomainError(model.ErrCodeInvalidField, err.Error())
	}

	if err := s.settingsRepo.SetPasswordHash(ctx, hash); err != nil {
		s.logger.Error().Err(err).Msg("failed to store admin password")
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.logger.Info().Msg("admin password changed")
	return nil
}

func (s *authService) passwordHash(ctx context.Context) (string, error) {
	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load store settings")
		return "", fmt.Errorf("failed to load store settings: %w", err)
	}
	if settings == nil {
		return "", nil
	}
	return settings.Store.AdminPasswordHash, nil
}
