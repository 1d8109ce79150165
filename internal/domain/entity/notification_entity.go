package entity

import "time"

// NotificationTypeFollow marks notifications created by a successful follow.
const NotificationTypeFollow = "follow"

// Notification records that ActorID did something that concerns
// RecipientID. Created as a side effect of relationship operations and
// read-only afterwards.
type Notification struct {
	ID          string
	ActorID     string
	RecipientID string
	Message     string
	Type        string
	CreatedAt   time.Time
	IsRead      bool

	// Actor display fields joined in by the user-data query.
	ActorUsername   string
	ActorProfilePic string
}
