package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// maxAvatarUpload caps avatar request bodies; the storage layer
// enforces its own limit as well.
const maxAvatarUpload = 2 << 20

// handleGetCurrentUser returns the caller's full account record.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	user, err := s.profileService.GetMe(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleUpdateProfile applies account setting changes for the caller.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	var update service.ProfileUpdate
	if err := s.decodeJSON(r, &update); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.profileService.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleSetAvatar stores the uploaded image as the caller's avatar.
// The body is the raw image bytes.
func (s *Server) handleSetAvatar(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	data, err := io.ReadAll(io.LimitReader(r.Body, maxAvatarUpload+1))
	if err != nil {
		response.BadRequest(w, "Failed to read request body", s.logger)
		return
	}

	user, err := s.profileService.SetAvatar(r.Context(), userID, data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleGetAvatar serves a user's avatar image. Public so profile
// pictures render without a token.
func (s *Server) handleGetAvatar(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	data, hash, err := s.profileService.GetAvatar(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	etag := `"` + hash + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write avatar response", "error", err)
	}
}

// handleCheckName reports whether a display name is available to the
// caller.
func (s *Server) handleCheckName(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	name := r.URL.Query().Get("name")

	taken, err := s.profileService.IsDisplayNameTaken(r.Context(), name, userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]bool{
		"available": !taken,
	}, s.logger)
}

// handleGetProfile returns the public profile of any account.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	profile, err := s.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleGetOwnStats returns reading statistics for the caller's own
// library.
func (s *Server) handleGetOwnStats(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	stats, err := s.statsService.GetStats(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}

// handleGetStats returns reading statistics for another user's
// library, subject to their privacy setting.
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	viewerID := getUserID(r.Context())
	ownerID := chi.URLParam(r, "id")

	stats, err := s.statsService.GetStatsFor(r.Context(), viewerID, ownerID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}
