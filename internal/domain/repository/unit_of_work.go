package repository

import "context"

// UnitOfWork starts atomic write units. Every relationship and engagement
// operation touches multiple rows (two users plus a notification, or a
// user-post pair) and must commit all of them or none.
type UnitOfWork interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic unit. The repositories it exposes operate inside the
// transaction; nothing is visible to other readers until Commit. Rollback
// after Commit is a no-op, so `defer tx.Rollback(ctx)` is safe on every
// path.
type Tx interface {
	Users() UserRepository
	Posts() PostRepository
	Notifications() NotificationRepository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
