package service

import (
	"context"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/quota"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// SocialService manages the follow graph and the notifications it
// generates.
type SocialService struct {
	store  *store.Store
	quota  quota.Guard
	logger *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(store *store.Store, guard quota.Guard, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:  store,
		quota:  guard,
		logger: logger,
	}
}

// ToggleFollow flips the follow edge from followerID to followedID and
// returns whether the follower is now following. A new follow emits
// exactly one notification to the followed user, unless they've turned
// notifications off.
func (s *SocialService) ToggleFollow(ctx context.Context, followerID, followedID string) (bool, error) {
	if followerID == followedID {
		return false, apperrors.Validation("cannot follow yourself")
	}

	followed, err := s.store.GetUser(ctx, followedID)
	if err != nil {
		return false, err
	}

	if err := s.quota.CheckAndConsume(quota.OpWrite, 1); err != nil {
		return false, err
	}

	exists, err := s.store.FollowExists(ctx, followerID, followedID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.store.DeleteFollow(ctx, followerID, followedID); err != nil {
			return false, err
		}
		return false, nil
	}

	follow := &domain.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
	}
	follow.ID = domain.FollowID(followerID, followedID)
	follow.InitTimestamps()

	err = s.store.CreateFollow(ctx, follow)
	if apperrors.Is(err, apperrors.ErrAlreadyExists) {
		// Two tabs raced the toggle; treat as already following.
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if followed.NotificationsEnabled {
		if err := s.notifyNewFollower(ctx, followerID, followedID); err != nil {
			// The follow itself succeeded; a lost notification is not
			// worth failing the request over.
			s.logger.Warn("failed to create follow notification",
				"follower_id", followerID,
				"followed_id", followedID,
				"error", err,
			)
		}
	}

	return true, nil
}

func (s *SocialService) notifyNewFollower(ctx context.Context, followerID, followedID string) error {
	notifID, err := id.Generate("notif")
	if err != nil {
		return err
	}

	n := &domain.Notification{
		Type:       domain.NotificationNewFollower,
		ToUserID:   followedID,
		FromUserID: followerID,
	}
	n.ID = notifID
	n.InitTimestamps()

	return s.store.CreateNotification(ctx, n)
}

// IsFollowing reports whether followerID follows followedID.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	return s.store.FollowExists(ctx, followerID, followedID)
}

// ListFollowers resolves the users following userID into public
// profiles.
func (s *SocialService) ListFollowers(ctx context.Context, userID string) ([]*domain.Profile, error) {
	ids, err := s.store.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveProfiles(ctx, ids)
}

// ListFollowing resolves the users userID follows into public
// profiles.
func (s *SocialService) ListFollowing(ctx context.Context, userID string) ([]*domain.Profile, error) {
	ids, err := s.store.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveProfiles(ctx, ids)
}

func (s *SocialService) resolveProfiles(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	if err := s.quota.CheckAndConsume(quota.OpRead, 1); err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0, len(ids))
	for _, uid := range ids {
		user, err := s.store.GetUser(ctx, uid)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			continue // Deleted account, skip the dangling edge
		}
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, user.PublicProfile())
	}
	return profiles, nil
}

// ListNotifications returns the user's notifications, newest first.
func (s *SocialService) ListNotifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	if err := s.quota.CheckAndConsume(quota.OpRead, 1); err != nil {
		return nil, err
	}
	return s.store.ListNotifications(ctx, userID)
}

// MarkNotificationRead marks one of the user's notifications as read.
// Only the recipient may do this.
func (s *SocialService) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.ToUserID != userID {
		return apperrors.Forbidden("not your notification")
	}
	if n.Read {
		return nil
	}

	if err := s.quota.CheckAndConsume(quota.OpWrite, 1); err != nil {
		return err
	}

	n.Read = true
	n.Touch()
	return s.store.UpdateNotification(ctx, n)
}

// MarkAllNotificationsRead marks every unread notification for the
// user as read.
func (s *SocialService) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	notifications, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return err
	}

	for _, n := range notifications {
		if n.Read {
			continue
		}
		if err := s.quota.CheckAndConsume(quota.OpWrite, 1); err != nil {
			return err
		}
		n.Read = true
		n.Touch()
		if err := s.store.UpdateNotification(ctx, n); err != nil {
			return err
		}
	}
	return nil
}
