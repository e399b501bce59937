package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/quota"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// LibraryService mediates every add/update/remove against a user's
// library so progress, current page, and status never drift apart.
type LibraryService struct {
	store  *store.Store
	quota  quota.Guard
	logger *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(store *store.Store, guard quota.Guard, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:  store,
		quota:  guard,
		logger: logger,
	}
}

// AddToLibrary upserts the shared catalog row and creates the user's
// library record with the given initial status. Fails with an
// already-exists error if the book is in the library; the shared
// catalog row is merged idempotently either way.
func (s *LibraryService) AddToLibrary(ctx context.Context, userID string, book *domain.Book, initialStatus domain.BookStatus) (*domain.CombinedBook, error) {
	if book == nil || book.ID == "" {
		return nil, apperrors.Validation("book id is required")
	}
	if initialStatus == "" {
		initialStatus = domain.StatusPlanToRead
	}
	if !initialStatus.Valid() {
		return nil, apperrors.Validationf("unknown status %q", initialStatus)
	}

	if err := s.quota.CheckAndConsume(quota.OpDocument, 1); err != nil {
		return nil, err
	}
	if err := s.quota.CheckAndConsume(quota.OpWrite, 2); err != nil {
		return nil, err
	}

	stored, err := s.store.UpsertBook(ctx, book)
	if err != nil {
		return nil, err
	}

	ub := &domain.UserBook{
		UserID: userID,
		BookID: stored.ID,
		Status: initialStatus,
	}
	ub.ID = domain.UserBookID(userID, stored.ID)
	ub.InitTimestamps()
	if initialStatus == domain.StatusCompleted {
		ub.MarkCompleted(stored, time.Now())
	}

	if err := s.store.CreateUserBook(ctx, ub); err != nil {
		return nil, err
	}

	s.logger.Info("book added to library",
		"user_id", userID,
		"book_id", stored.ID,
		"status", initialStatus,
	)

	return &domain.CombinedBook{UserBook: ub, Book: stored}, nil
}

// UpdateStatus changes a library record's status, applying the page
// side effects: entering completed freezes an unknown total at the
// current page, and leaving completed resets progress for a re-read.
func (s *LibraryService) UpdateStatus(ctx context.Context, userID, bookID string, newStatus domain.BookStatus) (*domain.UserBook, error) {
	if !newStatus.Valid() {
		return nil, apperrors.Validationf("unknown status %q", newStatus)
	}

	if err := s.quota.CheckAndConsume(quota.OpWrite, 1); err != nil {
		return nil, err
	}

	ub, err := s.store.GetUserBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	book, err := s.catalogBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	switch {
	case newStatus == ub.Status:
		// No-op beyond the timestamp refresh.
	case newStatus == domain.StatusCompleted:
		ub.MarkCompleted(book, time.Now())
	case ub.Status == domain.StatusCompleted:
		ub.LeaveCompleted(newStatus, book)
	default:
		ub.Status = newStatus
	}

	if err := s.store.UpdateUserBook(ctx, ub); err != nil {
		return nil, err
	}
	return ub, nil
}

// UpdateProgress sets the pages-read counter and recomputes the
// derived percentage. totalPagesOverride supplies a page count for
// books the catalog doesn't know; it is required when the effective
// total is otherwise unknown. Reaching 100% auto-completes the book.
func (s *LibraryService) UpdateProgress(ctx context.Context, userID, bookID string, currentPage, totalPagesOverride int) (*domain.UserBook, error) {
	if currentPage < 0 {
		return nil, apperrors.Validation("current page cannot be negative")
	}
	if totalPagesOverride < 0 {
		return nil, apperrors.Validation("total pages cannot be negative")
	}

	if err := s.quota.CheckAndConsume(quota.OpWrite, 1); err != nil {
		return nil, err
	}

	ub, err := s.store.GetUserBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	book, err := s.catalogBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if totalPagesOverride > 0 {
		ub.TotalPagesOverride = totalPagesOverride
	}
	if ub.EffectiveTotalPages(book) <= 0 {
		return nil, apperrors.Validation("total page count is unknown, supply total_pages")
	}

	ub.CurrentPage = currentPage
	ub.RecomputeProgress(book)

	if ub.Progress >= 100 && ub.Status != domain.StatusCompleted {
		ub.MarkCompleted(book, time.Now())
	}

	if err := s.store.UpdateUserBook(ctx, ub); err != nil {
		return nil, err
	}
	return ub, nil
}

// UpdateRating merges the rating field only; status and progress are
// untouched. Rating is 1-5, 0 clears it.
func (s *LibraryService) UpdateRating(ctx context.Context, userID, bookID string, rating int) (*domain.UserBook, error) {
	if rating < 0 || rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	if err := s.quota.CheckAndConsume(quota.OpWrite, 1); err != nil {
		return nil, err
	}

	ub, err := s.store.GetUserBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	ub.Rating = rating

	if err := s.store.UpdateUserBook(ctx, ub); err != nil {
		return nil, err
	}
	return ub, nil
}

// RemoveFromLibrary deletes the user's record only; the shared catalog
// row stays for everyone else.
func (s *LibraryService) RemoveFromLibrary(ctx context.Context, userID, bookID string) error {
	if err := s.quota.CheckAndConsume(quota.OpWrite, 1); err != nil {
		return err
	}
	return s.store.DeleteUserBook(ctx, userID, bookID)
}

// ListLibrary returns the user's full library joined with catalog
// metadata, most recently touched first.
func (s *LibraryService) ListLibrary(ctx context.Context, userID string) ([]domain.CombinedBook, error) {
	if err := s.quota.CheckAndConsume(quota.OpRead, 1); err != nil {
		return nil, err
	}
	return s.store.ListUserLibrary(ctx, userID)
}

// GetLibraryBook returns one library record joined with its catalog
// book.
func (s *LibraryService) GetLibraryBook(ctx context.Context, userID, bookID string) (*domain.CombinedBook, error) {
	if err := s.quota.CheckAndConsume(quota.OpRead, 1); err != nil {
		return nil, err
	}

	ub, err := s.store.GetUserBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	book, err := s.catalogBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &domain.CombinedBook{UserBook: ub, Book: book}, nil
}

// IsInLibrary is the membership check backing "add" affordances.
func (s *LibraryService) IsInLibrary(ctx context.Context, userID, bookID string) (bool, error) {
	return s.store.HasUserBook(ctx, userID, bookID)
}

// catalogBook fetches the shared catalog row, tolerating a missing one
// so orphaned records still work.
func (s *LibraryService) catalogBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}
