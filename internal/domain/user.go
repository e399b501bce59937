package domain

import (
	"time"

	"github.com/shelfmark/shelfmark-server/internal/color"
	"github.com/shelfmark/shelfmark-server/internal/normalize"
)

// Privacy controls who can see a user's library and statistics.
type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyFriends Privacy = "friends"
	PrivacyPrivate Privacy = "private"
)

// Valid returns true if the privacy setting is a recognized value.
func (p Privacy) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyFriends, PrivacyPrivate:
		return true
	default:
		return false
	}
}

// User represents an account in the system. The ID is the identity
// provider's subject; accounts are created or merged on every
// successful sign-in.
type User struct {
	Timestamps
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`

	NotificationsEnabled bool    `json:"notifications_enabled"`
	Privacy              Privacy `json:"privacy"`
	HasSeenOnboarding    bool    `json:"has_seen_onboarding"`

	LastLoginAt time.Time `json:"last_login_at"`
}

// NormalizedDisplayName folds the display name for the
// case-insensitive uniqueness check.
func (u *User) NormalizedDisplayName() string {
	return normalize.Name(u.DisplayName)
}

// Name returns the best available name to display for the user.
// Prefers DisplayName, falls back to email.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Profile is the public view of a user, safe to return to other
// accounts. Email stays private.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	AvatarColor string    `json:"avatar_color"`
	Privacy     Privacy   `json:"privacy"`
	CreatedAt   time.Time `json:"created_at"`

	Followers int `json:"followers"`
	Following int `json:"following"`
}

// PublicProfile builds the shareable view of the user.
func (u *User) PublicProfile() *Profile {
	return &Profile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		AvatarColor: color.ForUser(u.ID),
		Privacy:     u.Privacy,
		CreatedAt:   u.CreatedAt,
	}
}
