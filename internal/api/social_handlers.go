package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfmark/shelfmark-server/internal/http/response"
)

// handleToggleFollow follows the target user, or unfollows if the
// caller already follows them. Returns the resulting state.
func (s *Server) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	followerID := getUserID(r.Context())
	followedID := chi.URLParam(r, "id")

	following, err := s.socialService.ToggleFollow(r.Context(), followerID, followedID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]bool{
		"following": following,
	}, s.logger)
}

// handleListFollowers returns the public profiles of a user's
// followers.
func (s *Server) handleListFollowers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	profiles, err := s.socialService.ListFollowers(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profiles, s.logger)
}

// handleListFollowing returns the public profiles a user follows.
func (s *Server) handleListFollowing(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	profiles, err := s.socialService.ListFollowing(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profiles, s.logger)
}

// handleListNotifications returns the caller's notifications, newest
// first.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	notifications, err := s.socialService.ListNotifications(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, notifications, s.logger)
}

// handleMarkNotificationRead marks one of the caller's notifications
// as read.
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	notificationID := chi.URLParam(r, "id")

	if err := s.socialService.MarkNotificationRead(r.Context(), userID, notificationID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleMarkAllNotificationsRead marks every unread notification of
// the caller as read.
func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	if err := s.socialService.MarkAllNotificationsRead(r.Context(), userID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
