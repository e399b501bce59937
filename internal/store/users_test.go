package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

func TestUpsertUser_CreatesWithDefaults(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	user, err := s.UpsertUser(ctx, &domain.User{
		Timestamps:  domain.Timestamps{ID: "u1"},
		Email:       "alice@example.com",
		DisplayName: "alice",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PrivacyPublic, user.Privacy)
	assert.True(t, user.NotificationsEnabled)
	assert.False(t, user.HasSeenOnboarding)
	assert.False(t, user.LastLoginAt.IsZero())
}

func TestUpsertUser_PreservesSettingsOnRepeatSignIn(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, &domain.User{
		Timestamps:  domain.Timestamps{ID: "u1"},
		Email:       "alice@example.com",
		DisplayName: "alice",
	})
	require.NoError(t, err)

	// User changes settings between sign-ins.
	stored, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	stored.Privacy = domain.PrivacyPrivate
	stored.NotificationsEnabled = false
	stored.HasSeenOnboarding = true
	require.NoError(t, s.UpdateUser(ctx, stored))

	// The identity payload carries none of those fields.
	merged, err := s.UpsertUser(ctx, &domain.User{
		Timestamps: domain.Timestamps{ID: "u1"},
		Email:      "alice@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PrivacyPrivate, merged.Privacy)
	assert.False(t, merged.NotificationsEnabled)
	assert.True(t, merged.HasSeenOnboarding)
	assert.Equal(t, "alice", merged.DisplayName)
}

func TestUpsertUser_DoesNotOverwriteChosenName(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, &domain.User{
		Timestamps:  domain.Timestamps{ID: "u1"},
		DisplayName: "alice",
	})
	require.NoError(t, err)

	// Provider sends a different name on the next sign-in.
	merged, err := s.UpsertUser(ctx, &domain.User{
		Timestamps:  domain.Timestamps{ID: "u1"},
		DisplayName: "Alice Smith",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", merged.DisplayName)
}

func TestUpsertUser_CollidingProviderNameIsDropped(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, &domain.User{
		Timestamps:  domain.Timestamps{ID: "u1"},
		DisplayName: "alice",
	})
	require.NoError(t, err)

	// A different account signs in with the same provider name.
	second, err := s.UpsertUser(ctx, &domain.User{
		Timestamps:  domain.Timestamps{ID: "u2"},
		DisplayName: "Alice", // case-insensitive collision
	})
	require.NoError(t, err)

	assert.Empty(t, second.DisplayName)
}

func TestIsDisplayNameTaken(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, &domain.User{
		Timestamps:  domain.Timestamps{ID: "u1"},
		DisplayName: "alice",
	})
	require.NoError(t, err)

	t.Run("taken by another account", func(t *testing.T) {
		taken, err := s.IsDisplayNameTaken(ctx, "alice", "u2")
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("case insensitive", func(t *testing.T) {
		taken, err := s.IsDisplayNameTaken(ctx, "ALICE", "u2")
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("own unchanged name is not taken", func(t *testing.T) {
		taken, err := s.IsDisplayNameTaken(ctx, "alice", "u1")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("unclaimed name is free", func(t *testing.T) {
		taken, err := s.IsDisplayNameTaken(ctx, "bob", "u2")
		require.NoError(t, err)
		assert.False(t, taken)
	})
}
