package store

import (
	"context"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/normalize"
)

// normalizeDisplayName folds a display name for the case-insensitive
// uniqueness index.
func normalizeDisplayName(name string) string {
	return normalize.Name(name)
}

// UpsertUser creates or merges a user record from an identity-provider
// payload. Fields the provider didn't supply are preserved, so a
// sign-in never blanks out privacy, notification, or onboarding state.
// A provider display name that collides with another account is
// dropped rather than failing the sign-in; the user picks a different
// name later.
func (s *Store) UpsertUser(ctx context.Context, incoming *domain.User) (*domain.User, error) {
	now := time.Now()

	existing, err := s.Users.Get(ctx, incoming.ID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		fresh := *incoming
		fresh.InitTimestamps()
		fresh.ID = incoming.ID
		fresh.Privacy = domain.PrivacyPublic
		fresh.NotificationsEnabled = true
		fresh.LastLoginAt = now

		err = s.Users.Create(ctx, fresh.ID, &fresh)
		if apperrors.Is(err, apperrors.ErrAlreadyExists) && fresh.DisplayName != "" {
			fresh.DisplayName = ""
			err = s.Users.Create(ctx, fresh.ID, &fresh)
		}
		if err != nil {
			return nil, err
		}
		return &fresh, nil
	}
	if err != nil {
		return nil, err
	}

	if incoming.Email != "" {
		existing.Email = incoming.Email
	}
	if incoming.PhotoURL != "" {
		existing.PhotoURL = incoming.PhotoURL
	}
	if incoming.DisplayName != "" && existing.DisplayName == "" {
		existing.DisplayName = incoming.DisplayName
	}
	existing.LastLoginAt = now
	existing.Touch()

	err = s.Users.Update(ctx, existing.ID, existing)
	if apperrors.Is(err, apperrors.ErrAlreadyExists) {
		// Provider name collided with another account, keep the old one.
		existing.DisplayName = ""
		err = s.Users.Update(ctx, existing.ID, existing)
	}
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.Users.Get(ctx, id)
}

// UpdateUser persists changes to an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()
	return s.Users.Update(ctx, user.ID, user)
}

// IsDisplayNameTaken reports whether a display name is already claimed
// by an account other than excludeUserID. The comparison is
// case-insensitive. Check-then-write on top of this is not atomic; the
// index conflict check in Update is the backstop.
func (s *Store) IsDisplayNameTaken(ctx context.Context, name, excludeUserID string) (bool, error) {
	user, err := s.Users.GetByIndex(ctx, "display_name", name)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.ID != excludeUserID, nil
}
