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

type UserRepository struct {
	db querier
}

func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, verification_code, verified, profile_pic, role, joined_date, reset_token, reset_token_expires`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.VerificationCode,
		&u.Verified, &u.ProfilePic, &u.Role, &u.JoinedDate, &u.ResetToken, &u.ResetTokenExpires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, verification_code, profile_pic, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, joined_date
	`, u.Username, u.Email, u.Password, u.VerificationCode, u.ProfilePic, u.Role)
	if err := row.Scan(&u.ID, &u.JoinedDate); err != nil {
		return mapError(err, "create user")
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get user by id")
	}
	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapError(err, "get user by username")
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, mapError(err, "get user by email")
	}
	return u, nil
}

func (r *UserRepository) UpdateUsername(ctx context.Context, id, username string) error {
	res, err := r.db.Exec(ctx, `UPDATE users SET username = $1 WHERE id = $2`, username, id)
	if err != nil {
		return mapError(err, "update username")
	}
	if res.RowsAffected() == 0 {
		return errNoRowsUpdated("user", id)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return mapError(err, "update password")
	}
	if res.RowsAffected() == 0 {
		return errNoRowsUpdated("user", id)
	}
	return nil
}

func (r *UserRepository) UpdateProfilePic(ctx context.Context, id, profilePic string) error {
	res, err := r.db.Exec(ctx, `UPDATE users SET profile_pic = $1 WHERE id = $2`, profilePic, id)
	if err != nil {
		return mapError(err, "update profile pic")
	}
	if res.RowsAffected() == 0 {
		return errNoRowsUpdated("user", id)
	}
	return nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET verified = true, verification_code = NULL WHERE id = $1
	`, id)
	if err != nil {
		return mapError(err, "set verified")
	}
	if res.RowsAffected() == 0 {
		return errNoRowsUpdated("user", id)
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET reset_token = $1, reset_token_expires = $2 WHERE id = $3
	`, token, expires, id)
	if err != nil {
		return mapError(err, "set reset token")
	}
	if res.RowsAffected() == 0 {
		return errNoRowsUpdated("user", id)
	}
	return nil
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token))
	if err != nil {
		return nil, mapError(err, "get user by reset token")
	}
	return u, nil
}

func (r *UserRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $1, reset_token = NULL, reset_token_expires = NULL WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return mapError(err, "reset password")
	}
	if res.RowsAffected() == 0 {
		return errNoRowsUpdated("user", id)
	}
	return nil
}

func (r *UserRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)
	`, followerID, followeeID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "check following")
	}
	return exists, nil
}

func (r *UserRepository) AddFollow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)
	`, followerID, followeeID)
	return mapError(err, "add follow")
}

func (r *UserRepository) RemoveFollow(ctx context.Context, followerID, followeeID string) error {
	res, err := r.db.Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	if err != nil {
		return mapError(err, "remove follow")
	}
	// The caller checked the edge exists in this same tx, so zero rows
	// means a concurrent unfollow won the race.
	if res.RowsAffected() == 0 {
		return apperr.New(apperr.KindConflict, "you are not following this user")
	}
	return nil
}

func (r *UserRepository) ListFollowers(ctx context.Context, userID string) ([]entity.User, error) {
	return r.listEdgeUsers(ctx, `
		SELECT u.id, u.username, u.profile_pic
		FROM follows f JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY u.username
	`, userID, "list followers")
}

func (r *UserRepository) ListFollowing(ctx context.Context, userID string) ([]entity.User, error) {
	return r.listEdgeUsers(ctx, `
		SELECT u.id, u.username, u.profile_pic
		FROM follows f JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY u.username
	`, userID, "list following")
}

func (r *UserRepository) listEdgeUsers(ctx context.Context, sql, userID, op string) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, mapError(err, op)
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.ProfilePic); err != nil {
			return nil, mapError(err, op)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, op)
	}
	return out, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
