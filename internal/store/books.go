package store

import (
	"context"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
)

// UpsertBook inserts a catalog book if its ID is unseen, else merges
// the supplied descriptive fields into the existing row. CreatedAt is
// immutable once set. Calling twice with the same payload is a no-op
// beyond the UpdatedAt refresh, and a concurrent first-add of the same
// book is tolerated: the loser of the create race falls through to the
// merge path.
func (s *Store) UpsertBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	existing, err := s.Books.Get(ctx, book.ID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		fresh := *book
		fresh.InitTimestamps()
		fresh.ID = book.ID

		err = s.Books.Create(ctx, fresh.ID, &fresh)
		if err == nil {
			return &fresh, nil
		}
		if !apperrors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, err
		}

		// Lost the create race, merge instead.
		existing, err = s.Books.Get(ctx, book.ID)
	}
	if err != nil {
		return nil, err
	}

	mergeBookFields(existing, book)
	existing.Touch()

	if err := s.Books.Update(ctx, existing.ID, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// mergeBookFields copies supplied fields onto dst, leaving fields the
// caller didn't provide untouched.
func mergeBookFields(dst, src *domain.Book) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if len(src.Authors) > 0 {
		dst.Authors = src.Authors
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.CoverImageURL != "" {
		dst.CoverImageURL = src.CoverImageURL
	}
	if src.TotalPages > 0 {
		dst.TotalPages = src.TotalPages
	}
}

// GetBook retrieves a catalog book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.Books.Get(ctx, id)
}
