package api

import (
	"net/http"

	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// handleSignIn exchanges an identity-provider payload for a Shelfmark
// account and access token.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var payload service.IdentityPayload
	if err := s.decodeJSON(r, &payload); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result, err := s.authService.SignIn(r.Context(), payload)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
