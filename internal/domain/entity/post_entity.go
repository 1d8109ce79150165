package entity

import "time"

// PostStatus is the moderation state of a post.
// pending is the only non-terminal state: pending -> accepted | rejected.
type PostStatus string

const (
	StatusPending  PostStatus = "pending"
	StatusAccepted PostStatus = "accepted"
	StatusRejected PostStatus = "rejected"
)

// Post is a dish shared by a user. DishImage is an opaque reference to an
// already-resized image (or empty). DatePosted and PostOwner are set at
// creation and never change; status is mutated only by the moderation
// pipeline and hearts only by the engagement manager.
type Post struct {
	ID          string
	DishName    string
	Ingredients string
	DishImage   string
	Status      PostStatus
	DatePosted  time.Time
	PostOwner   string
	HeartCount  int
	Comments    []Comment

	// Owner display fields joined in by feed queries.
	OwnerUsername   string
	OwnerProfilePic string
}

// Comment is an entry in a post's comment thread, oldest first.
type Comment struct {
	ID         string
	Content    string
	Author     string
	AuthorName string
	DatePosted time.Time
}
