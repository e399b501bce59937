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

// StatsService derives reading statistics from a user's library.
// Nothing is persisted; every call recomputes from the current
// records.
type StatsService struct {
	store  *store.Store
	quota  quota.Guard
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store *store.Store, guard quota.Guard, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		quota:  guard,
		logger: logger,
	}
}

// GetStats computes statistics for the user's own library.
func (s *StatsService) GetStats(ctx context.Context, userID string) (*domain.BookStats, error) {
	if err := s.quota.CheckAndConsume(quota.OpRead, 1); err != nil {
		return nil, err
	}

	records, err := s.store.ListUserLibrary(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.ComputeStats(records, time.Now().UTC()), nil
}

// GetStatsFor computes statistics for another user's library,
// honoring their privacy setting: private libraries are visible only
// to the owner, friends-only libraries to followers.
func (s *StatsService) GetStatsFor(ctx context.Context, viewerID, ownerID string) (*domain.BookStats, error) {
	if viewerID == ownerID {
		return s.GetStats(ctx, ownerID)
	}

	owner, err := s.store.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	switch owner.Privacy {
	case domain.PrivacyPrivate:
		return nil, apperrors.Forbidden("this library is private")
	case domain.PrivacyFriends:
		follows, err := s.store.FollowExists(ctx, viewerID, ownerID)
		if err != nil {
			return nil, err
		}
		if !follows {
			return nil, apperrors.Forbidden("this library is visible to followers only")
		}
	}

	return s.GetStats(ctx, ownerID)
}
