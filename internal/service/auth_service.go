// Package service provides business logic implementation for the application.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/config"
	"github.com/oneline-dev/waybridge/internal/domain"
	"github.com/oneline-dev/waybridge/internal/ghl"
	"github.com/oneline-dev/waybridge/internal/models"
	"github.com/oneline-dev/waybridge/internal/repository"
)

type authService struct {
	cfg    *config.Config
	repo   repository.Repository
	crm    ghl.Client
	logger *zap.Logger
}

func NewAuthService(
	cfg *config.Config,
	repo repository.Repository,
	crm ghl.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		crm:    crm,
		logger: logger,
	}
}

// EnsureFreshToken loads the tenant and refreshes its access token when it
// expires inside the configured window. Refresh failures propagate as
// Unauthorized so callers prompt re-authorization instead of silently
// retrying.
func (s *authService) EnsureFreshToken(ctx context.Context, locationID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("tenant %s is not installed: %w", locationID, domain.ErrUnauthorized)
	}

	window := time.Duration(s.cfg.GHL.TokenRefreshWindow) * time.Second
	if !user.TokenExpiresWithin(window) {
		return user, nil
	}

	token, err := s.crm.RefreshToken(ctx, user.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh for %s failed: %v: %w", locationID, err, domain.ErrUnauthorized)
	}

	expiresAt := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	if err := s.repo.User().UpdateTokens(ctx, user.ID, token.AccessToken, token.RefreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}

	s.logger.Info("Refreshed tenant access token",
		zap.String("locationID", locationID),
		zap.Time("expiresAt", expiresAt))

	user.AccessToken = token.AccessToken
	user.RefreshToken = token.RefreshToken
	user.ExpiresAt = expiresAt
	return user, nil
}

// CompleteInstall exchanges an authorization code and persists the tenant.
func (s *authService) CompleteInstall(ctx context.Context, code string) (*models.User, error) {
	token, err := s.crm.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %v: %w", err, domain.ErrUnauthorized)
	}
	if token.LocationID == "" {
		return nil, fmt.Errorf("code exchange returned no location id: %w", domain.ErrUnauthorized)
	}

	user := &models.User{
		ID:           token.LocationID,
		CompanyID:    token.CompanyID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}
	if err := s.repo.User().Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist tenant: %w", err)
	}

	s.logger.Info("Completed OAuth install", zap.String("locationID", user.ID))
	return user, nil
}
