package domain

// Follow is a directed edge in the social graph: FollowerID follows
// FollowedID. Its identity is the pair, same composite-key scheme as
// UserBook.
type Follow struct {
	Timestamps
	FollowerID string `json:"follower_id"`
	FollowedID string `json:"followed_id"`
}

// FollowID builds the composite key for a follow edge.
func FollowID(followerID, followedID string) string {
	return followerID + "_" + followedID
}

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	// NotificationNewFollower is emitted when someone follows a user.
	NotificationNewFollower NotificationType = "new_follower"
)

// Valid returns true if the type is a recognized value.
func (t NotificationType) Valid() bool {
	return t == NotificationNewFollower
}

// Notification is a message delivered to one user, created by social
// actions. Read state is per notification, toggled by the recipient.
type Notification struct {
	Timestamps
	Type       NotificationType `json:"type"`
	ToUserID   string           `json:"to_user_id"`
	FromUserID string           `json:"from_user_id"`
	Read       bool             `json:"read"`
}
