package repository

import (
	"context"

	"github.com/platebook/platebook/internal/domain/entity"
)

// NotificationRepository persists follow notifications. ListForUser returns
// the recipient's notifications newest-first with actor display fields.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListForUser(ctx context.Context, userID string) ([]entity.Notification, error)
}
