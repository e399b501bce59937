package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

func TestFollowEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	alice := ts.signIn(t, "uid-1", "alice")
	bob := ts.signIn(t, "uid-2", "bob")

	t.Run("follow", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/users/uid-2/follow", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data map[string]bool
		decodeData(t, rec, &data)
		assert.True(t, data["following"])
	})

	t.Run("followers listing", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/v1/users/uid-2/followers", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var profiles []domain.Profile
		decodeData(t, rec, &profiles)
		require.Len(t, profiles, 1)
		assert.Equal(t, "alice", profiles[0].DisplayName)
	})

	t.Run("following listing", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/v1/users/uid-1/following", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var profiles []domain.Profile
		decodeData(t, rec, &profiles)
		require.Len(t, profiles, 1)
		assert.Equal(t, "bob", profiles[0].DisplayName)
	})

	t.Run("unfollow on second toggle", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/users/uid-2/follow", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data map[string]bool
		decodeData(t, rec, &data)
		assert.False(t, data["following"])
	})

	t.Run("self follow rejected", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/users/uid-1/follow", alice, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown target", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/users/ghost/follow", alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNotificationEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	alice := ts.signIn(t, "uid-1", "alice")
	bob := ts.signIn(t, "uid-2", "bob")

	rec := ts.request(t, http.MethodPost, "/api/v1/users/uid-2/follow", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var notifications []domain.Notification

	t.Run("follow produced a notification", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/api/v1/notifications/", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		decodeData(t, rec, &notifications)
		require.Len(t, notifications, 1)
		assert.Equal(t, domain.NotificationNewFollower, notifications[0].Type)
		assert.False(t, notifications[0].Read)
	})

	t.Run("mark one read", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/notifications/"+notifications[0].ID+"/read", bob, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.request(t, http.MethodGet, "/api/v1/notifications/", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decodeData(t, rec, &notifications)
		assert.True(t, notifications[0].Read)
	})

	t.Run("cannot mark someone else's", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/notifications/"+notifications[0].ID+"/read", alice, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("mark all read", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/api/v1/notifications/read-all", bob, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
