// Package service contains the business logic sitting between the HTTP
// handlers and the store.
package service

import (
	"context"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/quota"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// IdentityPayload is what the external identity provider supplies on a
// successful sign-in.
type IdentityPayload struct {
	UID         string `json:"uid" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url"`
}

// SignInResult is the outcome of a sign-in: the merged account and a
// fresh access token.
type SignInResult struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// AuthService turns identity-provider payloads into accounts and
// session tokens.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenService
	quota  quota.Guard
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store *store.Store, tokens *auth.TokenService, guard quota.Guard, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		quota:  guard,
		logger: logger,
	}
}

// SignIn upserts the account for an identity payload and issues an
// access token. Fields the provider didn't send are preserved on the
// stored account.
func (s *AuthService) SignIn(ctx context.Context, payload IdentityPayload) (*SignInResult, error) {
	if payload.UID == "" {
		return nil, apperrors.Validation("uid is required")
	}

	if err := s.quota.CheckAndConsume(quota.OpWrite, 1); err != nil {
		return nil, err
	}

	user, err := s.store.UpsertUser(ctx, &domain.User{
		Timestamps:  domain.Timestamps{ID: payload.UID},
		Email:       payload.Email,
		DisplayName: payload.DisplayName,
		PhotoURL:    payload.PhotoURL,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to issue token")
	}

	s.logger.Info("user signed in", "user_id", user.ID)

	return &SignInResult{User: user, AccessToken: token}, nil
}

// VerifyToken resolves an access token to its claims.
func (s *AuthService) VerifyToken(token string) (*auth.AccessClaims, error) {
	return s.tokens.VerifyAccessToken(token)
}
