package repository

import (
	"context"
	"time"

	"github.com/platebook/platebook/internal/domain/entity"
)

// UserRepository defines user persistence. Lookups return (nil, nil) when
// the user does not exist; errors are reserved for store failures.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateUsername(ctx context.Context, id, username string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfilePic(ctx context.Context, id, profilePic string) error
	SetVerified(ctx context.Context, id string) error

	// Password reset. SetResetToken stores a single-use token with its
	// expiry; GetByResetToken looks a user up by it; ResetPassword swaps
	// the hash and clears the token in one write.
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	GetByResetToken(ctx context.Context, token string) (*entity.User, error)
	ResetPassword(ctx context.Context, id, passwordHash string) error

	// Follow-edge operations. The edge (follower, followee) existing is
	// equivalent to followee being in follower's following set and
	// follower being in followee's followers set.
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	AddFollow(ctx context.Context, followerID, followeeID string) error
	RemoveFollow(ctx context.Context, followerID, followeeID string) error
	ListFollowers(ctx context.Context, userID string) ([]entity.User, error)
	ListFollowing(ctx context.Context, userID string) ([]entity.User, error)
}
