package api

import (
	"net/http"

	"github.com/shelfmark/shelfmark-server/internal/http/response"
)

// handleSearch proxies a catalog search for the authenticated user.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	query := r.URL.Query().Get("q")
	// "field" is the original client's parameter name; "scope" is
	// accepted as an alias.
	scope := r.URL.Query().Get("field")
	if scope == "" {
		scope = r.URL.Query().Get("scope")
	}

	results, err := s.searchService.Search(r.Context(), userID, query, scope)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, results, s.logger)
}
