package database

import (
	"context"
	"database/sql"
	stderrors "errors"

	"hangout-api/core/errors"
	"hangout-api/core/logger"

	"github.com/lib/pq"
)

// pq error class 40001: serialization_failure.
const pqSerializationFailure = "40001"

// TxRunner runs a function inside a database transaction. Services depend on
// this interface so tests can substitute a fake runner.
type TxRunner interface {
	// InTx opens a serializable transaction, runs fn, and commits on nil
	// return. Any error rolls back fully; no write is left half-applied.
	InTx(ctx context.Context, fn func(q Queryer) error) error
	// InReadTx opens a read-only transaction at the default isolation level
	// for consistent multi-read views.
	InReadTx(ctx context.Context, fn func(q Queryer) error) error
}

func (d *Database) InTx(ctx context.Context, fn func(q Queryer) error) error {
	return d.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (d *Database) InReadTx(ctx context.Context, fn func(q Queryer) error) error {
	return d.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (d *Database) run(ctx context.Context, opts *sql.TxOptions, fn func(q Queryer) error) error {
	tx, err := d.sqlx.BeginTxx(ctx, opts)
	if err != nil {
		logger.Error("Database:InTx:Begin", err)
		return Translate(err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !stderrors.Is(rbErr, sql.ErrTxDone) {
			logger.Error("Database:InTx:Rollback", rbErr)
		}
		return Translate(err)
	}

	if err := tx.Commit(); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate maps storage-layer failures onto the engine's error taxonomy.
// AppErrors pass through untouched; serialization conflicts become the
// retryable class; affected-row mismatches and everything else become a
// generic internal error, logged for investigation.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && string(pqErr.Code) == pqSerializationFailure {
		logger.Warn("Database:Translate:SerializationConflict", "error", err)
		return errors.NewAppError(errors.ErrSerializationConflict, "transaction conflict, retry the request", err)
	}

	if stderrors.Is(err, ErrUnexpectedRowCount) {
		logger.Error("Database:Translate:RowCountMismatch", err)
		return errors.NewAppError(errors.ErrStateConflict, "internal server error", err)
	}

	logger.Error("Database:Translate:Internal", err)
	return errors.NewAppError(errors.ErrInternalServer, "internal server error", err)
}
