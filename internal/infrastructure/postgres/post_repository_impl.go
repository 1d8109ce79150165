package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/platebook/platebook/internal/domain/apperr"
	"github.com/platebook/platebook/internal/domain/entity"
	"github.com/platebook/platebook/internal/domain/repository"
)

type PostRepository struct {
	db querier
}

func NewPostRepository(db querier) *PostRepository {
	return &PostRepository{db: db}
}

// postWithOwner selects a post joined with its owner's display fields and
// the derived heart count.
const postWithOwner = `
	SELECT p.id, p.dish_name, p.ingredients, p.dish_image, p.status, p.date_posted,
	       p.post_owner, u.username, u.profile_pic,
	       (SELECT count(*) FROM likes l WHERE l.post_id = p.id) AS heart_count
	FROM posts p
	JOIN users u ON u.id = p.post_owner
`

func scanPosts(rows pgx.Rows) ([]entity.Post, error) {
	defer rows.Close()
	var out []entity.Post
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.DishName, &p.Ingredients, &p.DishImage, &p.Status,
			&p.DatePosted, &p.PostOwner, &p.OwnerUsername, &p.OwnerProfilePic, &p.HeartCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	if p.Status == "" {
		p.Status = entity.StatusPending
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO posts (dish_name, ingredients, dish_image, status, post_owner)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date_posted
	`, p.DishName, p.Ingredients, p.DishImage, p.Status, p.PostOwner)
	if err := row.Scan(&p.ID, &p.DatePosted); err != nil {
		return mapError(err, "create post")
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	p := &entity.Post{}
	err := r.db.QueryRow(ctx, postWithOwner+` WHERE p.id = $1`, id).Scan(
		&p.ID, &p.DishName, &p.Ingredients, &p.DishImage, &p.Status,
		&p.DatePosted, &p.PostOwner, &p.OwnerUsername, &p.OwnerProfilePic, &p.HeartCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, "get post")
	}
	return p, nil
}

func (r *PostRepository) HasLike(ctx context.Context, userID, postID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)
	`, userID, postID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "check like")
	}
	return exists, nil
}

func (r *PostRepository) AddLike(ctx context.Context, userID, postID string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO likes (user_id, post_id) VALUES ($1, $2)`, userID, postID)
	return mapError(err, "add like")
}

func (r *PostRepository) RemoveLike(ctx context.Context, userID, postID string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return mapError(err, "remove like")
	}
	// The caller checked the edge exists in this same tx, so zero rows
	// means a concurrent unlike won the race.
	if res.RowsAffected() == 0 {
		return apperr.New(apperr.KindConflict, "you have not liked this post")
	}
	return nil
}

func (r *PostRepository) HeartCount(ctx context.Context, postID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM likes WHERE post_id = $1`, postID).Scan(&n); err != nil {
		return 0, mapError(err, "heart count")
	}
	return n, nil
}

func (r *PostRepository) Hearts(ctx context.Context, postID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id FROM likes WHERE post_id = $1 ORDER BY created_at
	`, postID)
	if err != nil {
		return nil, mapError(err, "list hearts")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err, "list hearts")
		}
		out = append(out, id)
	}
	return out, mapError(rows.Err(), "list hearts")
}

func (r *PostRepository) SetStatusFromPending(ctx context.Context, postID string, to entity.PostStatus) (bool, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE posts SET status = $1 WHERE id = $2 AND status = 'pending'
	`, to, postID)
	if err != nil {
		return false, mapError(err, "set post status")
	}
	return res.RowsAffected() > 0, nil
}

func (r *PostRepository) ListPending(ctx context.Context, limit, offset int) ([]entity.Post, int, error) {
	rows, err := r.db.Query(ctx, postWithOwner+`
		WHERE p.status = 'pending'
		ORDER BY p.date_posted DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, mapError(err, "list pending posts")
	}
	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, mapError(err, "list pending posts")
	}

	var total int
	err = r.db.QueryRow(ctx, `SELECT count(*) FROM posts WHERE status = 'pending'`).Scan(&total)
	if err != nil {
		return nil, 0, mapError(err, "count pending posts")
	}
	return posts, total, nil
}

func (r *PostRepository) GlobalFeed(ctx context.Context, since time.Time, limit, offset int) ([]entity.Post, int, error) {
	rows, err := r.db.Query(ctx, postWithOwner+`
		WHERE p.status = 'accepted' AND p.date_posted >= $1
		ORDER BY heart_count DESC, p.date_posted DESC
		LIMIT $2 OFFSET $3
	`, since, limit, offset)
	if err != nil {
		return nil, 0, mapError(err, "global feed")
	}
	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, mapError(err, "global feed")
	}

	var total int
	err = r.db.QueryRow(ctx, `
		SELECT count(*) FROM posts WHERE status = 'accepted' AND date_posted >= $1
	`, since).Scan(&total)
	if err != nil {
		return nil, 0, mapError(err, "count global feed")
	}
	return posts, total, nil
}

func (r *PostRepository) FollowingFeed(ctx context.Context, userID string, limit, offset int) ([]entity.Post, int, error) {
	rows, err := r.db.Query(ctx, postWithOwner+`
		WHERE p.status = 'accepted'
		  AND p.post_owner IN (SELECT followee_id FROM follows WHERE follower_id = $1)
		ORDER BY p.date_posted DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, mapError(err, "following feed")
	}
	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, mapError(err, "following feed")
	}

	var total int
	err = r.db.QueryRow(ctx, `
		SELECT count(*) FROM posts
		WHERE status = 'accepted'
		  AND post_owner IN (SELECT followee_id FROM follows WHERE follower_id = $1)
	`, userID).Scan(&total)
	if err != nil {
		return nil, 0, mapError(err, "count following feed")
	}
	return posts, total, nil
}

func (r *PostRepository) AcceptedIDsSince(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM posts WHERE status = 'accepted' AND date_posted >= $1
	`, since)
	if err != nil {
		return nil, mapError(err, "accepted post ids")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err, "accepted post ids")
		}
		out = append(out, id)
	}
	return out, mapError(rows.Err(), "accepted post ids")
}

func (r *PostRepository) GetManyWithOwner(ctx context.Context, ids []string) ([]entity.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, postWithOwner+` WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return nil, mapError(err, "get posts")
	}
	posts, err := scanPosts(rows)
	if err != nil {
		return nil, mapError(err, "get posts")
	}
	return posts, nil
}

func (r *PostRepository) ListAcceptedByOwner(ctx context.Context, ownerID string) ([]entity.Post, error) {
	rows, err := r.db.Query(ctx, postWithOwner+`
		WHERE p.status = 'accepted' AND p.post_owner = $1
		ORDER BY p.date_posted DESC
	`, ownerID)
	if err != nil {
		return nil, mapError(err, "list posts by owner")
	}
	posts, err := scanPosts(rows)
	if err != nil {
		return nil, mapError(err, "list posts by owner")
	}
	return posts, nil
}

func (r *PostRepository) ListLikedBy(ctx context.Context, userID string) ([]entity.Post, error) {
	rows, err := r.db.Query(ctx, postWithOwner+`
		JOIN likes l ON l.post_id = p.id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC
	`, userID)
	if err != nil {
		return nil, mapError(err, "list liked posts")
	}
	posts, err := scanPosts(rows)
	if err != nil {
		return nil, mapError(err, "list liked posts")
	}
	return posts, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
