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
	followPrefix           = "follow:"
	followByFollowerPrefix = "follow:idx:follower:"
	followByFollowedPrefix = "follow:idx:followed:"

	notificationPrefix       = "notif:"
	notificationByUserPrefix = "notif:idx:user:"
)

func followKey(followerID, followedID string) []byte {
	return []byte(followPrefix + domain.FollowID(followerID, followedID))
}

// CreateFollow stores a follow edge and both direction indexes
// atomically. Fails with an already-exists error if the edge is
// present.
func (s *Store) CreateFollow(ctx context.Context, f *domain.Follow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := followKey(f.FollowerID, f.FollowedID)
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal follow: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return apperrors.AlreadyExists("already following")
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check follow: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set follow: %w", err)
		}

		followerIdx := followByFollowerPrefix + f.FollowerID + ":" + f.FollowedID
		if err := txn.Set([]byte(followerIdx), []byte(f.ID)); err != nil {
			return fmt.Errorf("set follower index: %w", err)
		}

		followedIdx := followByFollowedPrefix + f.FollowedID + ":" + f.FollowerID
		if err := txn.Set([]byte(followedIdx), []byte(f.ID)); err != nil {
			return fmt.Errorf("set followed index: %w", err)
		}
		return nil
	})
}

// DeleteFollow removes a follow edge and its indexes. Idempotent.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followedID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(followKey(followerID, followedID)); err != nil {
			return fmt.Errorf("delete follow: %w", err)
		}
		if err := txn.Delete([]byte(followByFollowerPrefix + followerID + ":" + followedID)); err != nil {
			return fmt.Errorf("delete follower index: %w", err)
		}
		if err := txn.Delete([]byte(followByFollowedPrefix + followedID + ":" + followerID)); err != nil {
			return fmt.Errorf("delete followed index: %w", err)
		}
		return nil
	})
}

// FollowExists reports whether followerID currently follows followedID.
func (s *Store) FollowExists(ctx context.Context, followerID, followedID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.exists(followKey(followerID, followedID))
}

// ListFollowing returns the IDs of users that userID follows.
func (s *Store) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	return s.scanFollowIndex(ctx, followByFollowerPrefix+userID+":")
}

// ListFollowers returns the IDs of users following userID.
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	return s.scanFollowIndex(ctx, followByFollowedPrefix+userID+":")
}

// scanFollowIndex collects the trailing user ID of every index key
// under the given prefix.
func (s *Store) scanFollowIndex(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, key[len(prefix):])
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateNotification stores a notification and its recipient index
// atomically.
func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(notificationPrefix+n.ID), data); err != nil {
			return fmt.Errorf("set notification: %w", err)
		}

		userIdx := notificationByUserPrefix + n.ToUserID + ":" + n.ID
		if err := txn.Set([]byte(userIdx), []byte(n.ID)); err != nil {
			return fmt.Errorf("set user index: %w", err)
		}
		return nil
	})
}

// GetNotification retrieves a notification by ID.
func (s *Store) GetNotification(ctx context.Context, id string) (*domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var n domain.Notification
	if err := s.get([]byte(notificationPrefix+id), &n); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, apperrors.NotFound("notification not found")
		}
		return nil, err
	}
	return &n, nil
}

// UpdateNotification persists changes to an existing notification.
func (s *Store) UpdateNotification(ctx context.Context, n *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(notificationPrefix + n.ID)
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.NotFound("notification not found")
		}
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// ListNotifications returns all notifications for a user, newest
// first.
func (s *Store) ListNotifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(notificationByUserPrefix + userID + ":")
	var notifications []*domain.Notification

	err := s.db.View(func(txn *badger.Txn) error {
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

		notifications = make([]*domain.Notification, 0, len(ids))
		for _, id := range ids {
			item, err := txn.Get([]byte(notificationPrefix + id))
			if err != nil {
				continue // Skip dangling index entries
			}

			var n domain.Notification
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return err
			}
			notifications = append(notifications, &n)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	slices.SortFunc(notifications, func(a, b *domain.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return notifications, nil
}
