package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/http/response"
)

// AddBookRequest is the payload for adding a catalog book to the
// caller's library. The catalog fields are sent by the client because
// the server keeps no copy of search results.
type AddBookRequest struct {
	ID            string   `json:"id" validate:"required"`
	Title         string   `json:"title" validate:"required"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	CoverImageURL string   `json:"cover_image_url" validate:"omitempty,url"`
	TotalPages    int      `json:"total_pages" validate:"omitempty,min=0"`
	Status        string   `json:"status"`
}

// UpdateBookRequest carries the per-book fields a PATCH may change.
// Nil pointers mean "leave as is".
type UpdateBookRequest struct {
	Status      *string `json:"status"`
	CurrentPage *int    `json:"current_page" validate:"omitempty,min=0"`
	TotalPages  *int    `json:"total_pages" validate:"omitempty,min=1"`
	Rating      *int    `json:"rating" validate:"omitempty,min=0,max=5"`
}

// handleListLibrary returns the caller's full library, newest activity
// first.
func (s *Server) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	records, err := s.libraryService.ListLibrary(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, records, s.logger)
}

// handleAddToLibrary adds a catalog book to the caller's library.
func (s *Server) handleAddToLibrary(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	var req AddBookRequest
	if err := s.decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book := &domain.Book{
		Timestamps:    domain.Timestamps{ID: req.ID},
		Title:         req.Title,
		Authors:       req.Authors,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		TotalPages:    req.TotalPages,
	}

	record, err := s.libraryService.AddToLibrary(r.Context(), userID, book, domain.BookStatus(req.Status))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, record, s.logger)
}

// handleGetLibraryBook returns one library record with its catalog
// details.
func (s *Server) handleGetLibraryBook(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	bookID := chi.URLParam(r, "bookID")

	record, err := s.libraryService.GetLibraryBook(r.Context(), userID, bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, record, s.logger)
}

// handleUpdateLibraryBook applies status, progress, and rating changes
// to one library record in a single request.
func (s *Server) handleUpdateLibraryBook(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	bookID := chi.URLParam(r, "bookID")

	var req UpdateBookRequest
	if err := s.decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var record *domain.UserBook
	var err error

	if req.Status != nil {
		record, err = s.libraryService.UpdateStatus(r.Context(), userID, bookID, domain.BookStatus(*req.Status))
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
	}

	if req.CurrentPage != nil {
		override := 0
		if req.TotalPages != nil {
			override = *req.TotalPages
		}
		record, err = s.libraryService.UpdateProgress(r.Context(), userID, bookID, *req.CurrentPage, override)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
	}

	if req.Rating != nil {
		record, err = s.libraryService.UpdateRating(r.Context(), userID, bookID, *req.Rating)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
	}

	if record == nil {
		// Nothing to change; return the current record.
		combined, err := s.libraryService.GetLibraryBook(r.Context(), userID, bookID)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
		record = combined.UserBook
	}

	response.Success(w, record, s.logger)
}

// handleGetMembership reports whether a catalog book is in the
// caller's library.
func (s *Server) handleGetMembership(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	bookID := chi.URLParam(r, "bookID")

	inLibrary, err := s.libraryService.IsInLibrary(r.Context(), userID, bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]bool{
		"in_library": inLibrary,
	}, s.logger)
}

// UpdateProgressRequest is the body for the progress endpoint. The
// total is only needed when the catalog doesn't know the book's
// length.
type UpdateProgressRequest struct {
	CurrentPage int `json:"current_page" validate:"min=0"`
	TotalPages  int `json:"total_pages" validate:"omitempty,min=1"`
}

// handleUpdateProgress records the caller's current page in a book.
func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	bookID := chi.URLParam(r, "bookID")

	var req UpdateProgressRequest
	if err := s.decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	record, err := s.libraryService.UpdateProgress(r.Context(), userID, bookID, req.CurrentPage, req.TotalPages)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, record, s.logger)
}

// handleRemoveFromLibrary removes a book from the caller's library.
// The catalog entry stays for other readers.
func (s *Server) handleRemoveFromLibrary(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	bookID := chi.URLParam(r, "bookID")

	if err := s.libraryService.RemoveFromLibrary(r.Context(), userID, bookID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// UpdateStatusRequest is the body for the status shortcut endpoint.
// UserID is accepted for compatibility with older clients; it must
// match the caller when present.
type UpdateStatusRequest struct {
	UserID string `json:"user_id"`
	BookID string `json:"book_id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// handleUpdateStatus moves a library book to a new reading status.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	var req UpdateStatusRequest
	if err := s.decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if req.UserID != "" && req.UserID != userID {
		response.Forbidden(w, "Cannot modify another user's library", s.logger)
		return
	}

	record, err := s.libraryService.UpdateStatus(r.Context(), userID, req.BookID, domain.BookStatus(req.Status))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, record, s.logger)
}

// UpdateRatingRequest is the body for the rating shortcut endpoint.
// Rating 0 clears any existing rating.
type UpdateRatingRequest struct {
	UserID string `json:"user_id"`
	BookID string `json:"book_id" validate:"required"`
	Rating int    `json:"rating" validate:"min=0,max=5"`
}

// handleUpdateRating sets or clears a library book's rating.
func (s *Server) handleUpdateRating(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	var req UpdateRatingRequest
	if err := s.decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if req.UserID != "" && req.UserID != userID {
		response.Forbidden(w, "Cannot modify another user's library", s.logger)
		return
	}

	record, err := s.libraryService.UpdateRating(r.Context(), userID, req.BookID, req.Rating)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, record, s.logger)
}
