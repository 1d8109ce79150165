package postgres

import (
	"context"

	"github.com/platebook/platebook/internal/domain/entity"
	"github.com/platebook/platebook/internal/domain/repository"
)

type NotificationRepository struct {
	db querier
}

func NewNotificationRepository(db querier) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO notifications (actor_id, recipient_id, message, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, n.ActorID, n.RecipientID, n.Message, n.Type)
	if err := row.Scan(&n.ID, &n.CreatedAt); err != nil {
		return mapError(err, "create notification")
	}
	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT n.id, n.actor_id, n.recipient_id, n.message, n.type, n.created_at, n.is_read,
		       u.username, u.profile_pic
		FROM notifications n
		JOIN users u ON u.id = n.actor_id
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC
	`, userID)
	if err != nil {
		return nil, mapError(err, "list notifications")
	}
	defer rows.Close()

	var out []entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.ActorID, &n.RecipientID, &n.Message, &n.Type,
			&n.CreatedAt, &n.IsRead, &n.ActorUsername, &n.ActorProfilePic); err != nil {
			return nil, mapError(err, "list notifications")
		}
		out = append(out, n)
	}
	return out, mapError(rows.Err(), "list notifications")
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
