package repository

import (
	"context"
	"time"

	"github.com/platebook/platebook/internal/domain/entity"
)

// PostRepository defines post persistence, including the like edges that
// back user.likes and post.hearts, and the feed queries. GetByID returns
// (nil, nil) for a missing post.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)

	// Like-edge operations. HeartCount is derived from the edges so a
	// caller can render without a second read after Like/Unlike.
	HasLike(ctx context.Context, userID, postID string) (bool, error)
	AddLike(ctx context.Context, userID, postID string) error
	RemoveLike(ctx context.Context, userID, postID string) error
	HeartCount(ctx context.Context, postID string) (int, error)
	Hearts(ctx context.Context, postID string) ([]string, error)

	// SetStatusFromPending applies a moderation transition and reports
	// whether a pending row was actually moved.
	SetStatusFromPending(ctx context.Context, postID string, to entity.PostStatus) (bool, error)

	// Paginated reads. Each returns the page plus the total matching count.
	ListPending(ctx context.Context, limit, offset int) ([]entity.Post, int, error)
	GlobalFeed(ctx context.Context, since time.Time, limit, offset int) ([]entity.Post, int, error)
	FollowingFeed(ctx context.Context, userID string, limit, offset int) ([]entity.Post, int, error)

	// Community sampling: candidate IDs for the window, then a join-and-
	// project fetch of the sampled subset.
	AcceptedIDsSince(ctx context.Context, since time.Time) ([]string, error)
	GetManyWithOwner(ctx context.Context, ids []string) ([]entity.Post, error)

	// Profile reads.
	ListAcceptedByOwner(ctx context.Context, ownerID string) ([]entity.Post, error)
	ListLikedBy(ctx context.Context, userID string) ([]entity.Post, error)
}
