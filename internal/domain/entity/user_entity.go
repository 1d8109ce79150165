package entity

import (
	"time"
)

// Role controls access to the moderation endpoints.
type Role string

const (
	RoleUser      Role = "User"
	RoleModerator Role = "Moderator"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password. VerificationCode is
// nil once the email has been verified. ProfilePic is an opaque reference
// produced by the image collaborator; the core never inspects it.
// ResetToken and ResetTokenExpires are set by a forgot-password request
// and cleared when the password is reset.
type User struct {
	ID                string
	Username          string
	Email             string
	Password          string
	VerificationCode  *string
	Verified          bool
	ProfilePic        string
	Role              Role
	JoinedDate        time.Time
	ResetToken        *string
	ResetTokenExpires *time.Time
}

// IsModerator reports whether the user may drive the moderation pipeline.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
