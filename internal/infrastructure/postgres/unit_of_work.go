package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/platebook/platebook/internal/domain/repository"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so the
// same repository code serves both pool-scoped reads and transactional
// writes.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UnitOfWork starts pgx transactions that satisfy repository.Tx.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func (u *UnitOfWork) Begin(ctx context.Context) (repository.Tx, error) {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return nil, mapError(err, "begin transaction")
	}
	return &pgTx{tx: tx}, nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) Users() repository.UserRepository { return NewUserRepository(t.tx) }

func (t *pgTx) Posts() repository.PostRepository { return NewPostRepository(t.tx) }

func (t *pgTx) Notifications() repository.NotificationRepository {
	return NewNotificationRepository(t.tx)
}

func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}

// Rollback releases the transaction. Calling it after a successful Commit
// is expected (the services defer it) and reports no error.
func (t *pgTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err == nil || errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return mapError(err, "rollback transaction")
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)
var _ repository.Tx = (*pgTx)(nil)
