package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/platebook/platebook/internal/domain/apperr"
)

// SQLSTATE codes the store surfaces as taxonomy kinds instead of raw
// driver errors.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// mapError translates driver failures into the shared taxonomy. Unique
// violations become Conflict (the losing writer of a like/follow race);
// serialization failures and deadlocks become Transient so the caller can
// retry the whole operation.
func mapError(err error, message string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperr.Wrap(apperr.KindConflict, err, message)
		case codeSerializationFailure, codeDeadlockDetected:
			return apperr.Wrap(apperr.KindTransient, err, "transaction aborted")
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindTransient, err, "transaction aborted")
	}
	return apperr.Wrap(apperr.KindInternal, err, message)
}

// errNoRowsUpdated is returned when a targeted write matched no row.
func errNoRowsUpdated(kind, id string) error {
	return apperr.New(apperr.KindNotFound, "%s %s not found", kind, id)
}
