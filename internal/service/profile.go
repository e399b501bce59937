package service

import (
	"context"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/media/avatars"
	"github.com/shelfmark/shelfmark-server/internal/quota"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// ProfileUpdate carries the fields a user may change on their own
// account. Nil pointers mean "leave as is".
type ProfileUpdate struct {
	DisplayName          *string `json:"display_name" validate:"omitempty,min=2,max=32"`
	Privacy              *string `json:"privacy" validate:"omitempty,oneof=public friends private"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	HasSeenOnboarding    *bool   `json:"has_seen_onboarding"`
}

// ProfileService manages account settings, public profiles, and
// avatars.
type ProfileService struct {
	store   *store.Store
	avatars *avatars.Storage
	quota   quota.Guard
	logger  *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, avatarStorage *avatars.Storage, guard quota.Guard, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:   store,
		avatars: avatarStorage,
		quota:   guard,
		logger:  logger,
	}
}

// GetMe returns the caller's full account record.
func (s *ProfileService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}

// GetProfile returns the public view of any account, with follower
// counts filled in.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := user.PublicProfile()

	followers, err := s.store.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.store.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Followers = len(followers)
	profile.Following = len(following)

	return profile, nil
}

// UpdateProfile applies the supplied account changes. Display names
// are checked for uniqueness first; the check-then-write is not
// atomic, the store's index conflict detection backstops the race.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.DisplayName != nil && *update.DisplayName != user.DisplayName {
		taken, err := s.store.IsDisplayNameTaken(ctx, *update.DisplayName, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict("that name is already taken")
		}
		user.DisplayName = *update.DisplayName
	}

	if update.Privacy != nil {
		privacy := domain.Privacy(*update.Privacy)
		if !privacy.Valid() {
			return nil, apperrors.Validationf("unknown privacy setting %q", *update.Privacy)
		}
		user.Privacy = privacy
	}
	if update.NotificationsEnabled != nil {
		user.NotificationsEnabled = *update.NotificationsEnabled
	}
	if update.HasSeenOnboarding != nil {
		user.HasSeenOnboarding = *update.HasSeenOnboarding
	}

	if err := s.quota.CheckAndConsume(quota.OpWrite, 1); err != nil {
		return nil, err
	}

	err = s.store.UpdateUser(ctx, user)
	if apperrors.Is(err, apperrors.ErrAlreadyExists) {
		// Lost the uniqueness race after the pre-check passed.
		return nil, apperrors.Conflict("that name is already taken")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// IsDisplayNameTaken checks name availability, excluding the caller's
// own current name.
func (s *ProfileService) IsDisplayNameTaken(ctx context.Context, name, userID string) (bool, error) {
	if name == "" {
		return false, apperrors.Validation("name is required")
	}
	return s.store.IsDisplayNameTaken(ctx, name, userID)
}

// SetAvatar stores the uploaded image and points the account's photo
// URL at it.
func (s *ProfileService) SetAvatar(ctx context.Context, userID string, imgData []byte) (*domain.User, error) {
	if err := s.quota.CheckAndConsume(quota.OpStorage, int64(len(imgData))); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.avatars.Save(userID, imgData)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	user.PhotoURL = url
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("avatar updated", "user_id", userID)
	return user, nil
}

// GetAvatar returns the stored avatar bytes and a content hash for
// caching.
func (s *ProfileService) GetAvatar(_ context.Context, userID string) ([]byte, string, error) {
	if !s.avatars.Exists(userID) {
		return nil, "", apperrors.NotFound("no avatar set")
	}

	data, err := s.avatars.Get(userID)
	if err != nil {
		return nil, "", err
	}
	hash, err := s.avatars.Hash(userID)
	if err != nil {
		return nil, "", err
	}
	return data, hash, nil
}
