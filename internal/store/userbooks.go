package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
)

const (
	userBookPrefix       = "ub:"
	userBookByUserPrefix = "ub:idx:user:"
)

func userBookKey(userID, bookID string) []byte {
	return []byte(userBookPrefix + domain.UserBookID(userID, bookID))
}

func userBookUserIndexKey(userID, bookID string) []byte {
	return []byte(userBookByUserPrefix + userID + ":" + bookID)
}

// CreateUserBook stores a new library record and its user index
// atomically. Fails with an already-exists error if the (user, book)
// pair is present; adding the same book twice is a caller mistake the
// store still guards against.
func (s *Store) CreateUserBook(ctx context.Context, ub *domain.UserBook) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := userBookKey(ub.UserID, ub.BookID)
	data, err := json.Marshal(ub)
	if err != nil {
		return fmt.Errorf("marshal user book: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return apperrors.AlreadyExists("book is already in the library")
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check user book: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set user book: %w", err)
		}
		if err := txn.Set(userBookUserIndexKey(ub.UserID, ub.BookID), []byte(ub.ID)); err != nil {
			return fmt.Errorf("set user index: %w", err)
		}
		return nil
	})
}

// GetUserBook retrieves one library record by its (user, book) pair.
func (s *Store) GetUserBook(ctx context.Context, userID, bookID string) (*domain.UserBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ub domain.UserBook
	if err := s.get(userBookKey(userID, bookID), &ub); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, apperrors.NotFound("book is not in the library")
		}
		return nil, err
	}
	return &ub, nil
}

// UpdateUserBook persists changes to an existing library record.
func (s *Store) UpdateUserBook(ctx context.Context, ub *domain.UserBook) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := userBookKey(ub.UserID, ub.BookID)
	ub.Touch()

	data, err := json.Marshal(ub)
	if err != nil {
		return fmt.Errorf("marshal user book: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.NotFound("book is not in the library")
		}
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// DeleteUserBook removes a library record. The shared catalog book is
// untouched. Idempotent: deleting a missing record is not an error.
func (s *Store) DeleteUserBook(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(userBookKey(userID, bookID)); err != nil {
			return fmt.Errorf("delete user book: %w", err)
		}
		if err := txn.Delete(userBookUserIndexKey(userID, bookID)); err != nil {
			return fmt.Errorf("delete user index: %w", err)
		}
		return nil
	})
}

// HasUserBook is the O(1) membership check backing "already added"
// affordances in search results.
func (s *Store) HasUserBook(ctx context.Context, userID, bookID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists(userBookKey(userID, bookID))
}

// ListUserBooks retrieves every library record for a user.
func (s *Store) ListUserBooks(ctx context.Context, userID string) ([]*domain.UserBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(userBookByUserPrefix + userID + ":")
	var records []*domain.UserBook

	err := s.db.View(func(txn *badger.Txn) error {
		// First pass: collect composite IDs from the index.
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		var ids []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}

		// Second pass: batch fetch in the same transaction.
		records = make([]*domain.UserBook, 0, len(ids))
		for _, id := range ids {
			item, err := txn.Get([]byte(userBookPrefix + id))
			if err != nil {
				continue // Skip dangling index entries
			}

			var ub domain.UserBook
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &ub)
			}); err != nil {
				return err
			}
			records = append(records, &ub)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListUserLibrary returns every library record for a user joined with
// its catalog book, most recently touched first. The ordering backs
// the "recently updated" views.
func (s *Store) ListUserLibrary(ctx context.Context, userID string) ([]domain.CombinedBook, error) {
	userBooks, err := s.ListUserBooks(ctx, userID)
	if err != nil {
		return nil, err
	}

	combined := make([]domain.CombinedBook, 0, len(userBooks))
	for _, ub := range userBooks {
		book, err := s.Books.Get(ctx, ub.BookID)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			book = nil // Catalog row missing, keep the record anyway
		} else if err != nil {
			return nil, err
		}
		combined = append(combined, domain.CombinedBook{UserBook: ub, Book: book})
	}

	slices.SortFunc(combined, func(a, b domain.CombinedBook) int {
		return b.UserBook.UpdatedAt.Compare(a.UserBook.UpdatedAt)
	})

	return combined, nil
}
