package api

import (
	"encoding/json/v2"
	"net/http"

	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
)

// decodeJSON unmarshals a request body into dst and runs struct
// validation on it.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return s.validator.Validate(dst)
}
