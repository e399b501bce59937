package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/media/avatars"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

func setupProfileService(t *testing.T) (*ProfileService, *store.Store, func()) {
	t.Helper()
	testStore, cleanup := setupTestStore(t)

	tmpDir, err := os.MkdirTemp("", "avatars-test-*")
	require.NoError(t, err)
	avatarStorage, err := avatars.NewStorage(tmpDir)
	require.NoError(t, err)

	svc := NewProfileService(testStore, avatarStorage, noQuota(), testLogger())
	return svc, testStore, func() {
		cleanup()
		os.RemoveAll(tmpDir)
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestUpdateProfile(t *testing.T) {
	svc, testStore, cleanup := setupProfileService(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, testStore, "u1", "alice")
	createTestUser(t, testStore, "u2", "bob")

	t.Run("changes supplied fields only", func(t *testing.T) {
		user, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{
			Privacy:           strPtr("friends"),
			HasSeenOnboarding: boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.PrivacyFriends, user.Privacy)
		assert.True(t, user.HasSeenOnboarding)
		assert.Equal(t, "alice", user.DisplayName)
		assert.True(t, user.NotificationsEnabled)
	})

	t.Run("rename to a free name", func(t *testing.T) {
		user, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{
			DisplayName: strPtr("alice2"),
		})
		require.NoError(t, err)
		assert.Equal(t, "alice2", user.DisplayName)
	})

	t.Run("rename to a taken name conflicts", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{
			DisplayName: strPtr("bob"),
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})

	t.Run("case-insensitive conflict", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{
			DisplayName: strPtr("BOB"),
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})

	t.Run("keeping your own name is fine", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, "u2", ProfileUpdate{
			DisplayName: strPtr("bob"),
		})
		assert.NoError(t, err)
	})

	t.Run("bad privacy value", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, "u1", ProfileUpdate{
			Privacy: strPtr("invisible"),
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, "ghost", ProfileUpdate{})
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestIsDisplayNameTaken(t *testing.T) {
	svc, testStore, cleanup := setupProfileService(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, testStore, "u1", "alice")

	taken, err := svc.IsDisplayNameTaken(ctx, "Alice", "u2")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = svc.IsDisplayNameTaken(ctx, "carol", "u2")
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = svc.IsDisplayNameTaken(ctx, "", "u2")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestGetProfile(t *testing.T) {
	svc, testStore, cleanup := setupProfileService(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, testStore, "u1", "alice")
	createTestUser(t, testStore, "u2", "bob")

	require.NoError(t, testStore.CreateFollow(ctx, &domain.Follow{
		Timestamps: domain.Timestamps{ID: domain.FollowID("u2", "u1")},
		FollowerID: "u2",
		FollowedID: "u1",
	}))

	profile, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.DisplayName)
	assert.Equal(t, 1, profile.Followers)
	assert.Equal(t, 0, profile.Following)
}

func TestAvatarRoundTrip(t *testing.T) {
	svc, testStore, cleanup := setupProfileService(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, testStore, "u1", "alice")

	t.Run("no avatar yet", func(t *testing.T) {
		_, _, err := svc.GetAvatar(ctx, "u1")
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("upload and fetch", func(t *testing.T) {
		img := []byte("fake-jpeg-bytes")
		user, err := svc.SetAvatar(ctx, "u1", img)
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/users/u1/avatar", user.PhotoURL)

		data, hash, err := svc.GetAvatar(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, img, data)
		assert.NotEmpty(t, hash)
	})

	t.Run("empty upload rejected", func(t *testing.T) {
		_, err := svc.SetAvatar(ctx, "u1", nil)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	})
}
