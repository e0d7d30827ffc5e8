package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hangout-api/core/config"
	"hangout-api/core/constants"
	"hangout-api/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Queryer is the query surface shared by the pool and an open transaction.
// Repository methods take a Queryer so the same code runs inside and outside
// a transaction.
type Queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type Database struct {
	sqlx *sqlx.DB
}

var instance *Database

func GetDB() *Database {
	return instance
}

func InitDB(cfg config.DBConfig) (*Database, error) {
	logger.Info("Initializing database...")

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	sqlxDB, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB := sqlxDB.DB
	sqlDB.SetMaxOpenConns(constants.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(constants.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(constants.DatabaseConnMaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	instance = &Database{sqlx: sqlxDB}

	logger.Info("Database initialized successfully",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Name,
		"maxOpenConns", constants.DatabaseMaxOpenConns,
		"maxIdleConns", constants.DatabaseMaxIdleConns,
	)

	return instance, nil
}

// Queryer returns the pool as a Queryer for read-only paths that do not need
// transaction isolation.
func (d *Database) Queryer() Queryer {
	return d.sqlx
}

func (d *Database) SQLx() *sqlx.DB {
	return d.sqlx
}

func (d *Database) Close() error {
	return d.sqlx.Close()
}

// Now returns the database-side clock. Stage arithmetic always uses this so
// elapsed-time comparisons stay consistent with database-written timestamps.
func Now(ctx context.Context, q Queryer) (time.Time, error) {
	var now time.Time
	if err := q.GetContext(ctx, &now, `SELECT now()`); err != nil {
		return time.Time{}, err
	}
	return now, nil
}

// ExecAffecting runs an exec that must touch exactly want rows. A mismatch
// after a validated precondition is an internal-consistency failure for the
// caller to surface.
func ExecAffecting(ctx context.Context, q Queryer, want int64, query string, args ...any) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != want {
		return fmt.Errorf("%w: affected %d rows, want %d", ErrUnexpectedRowCount, n, want)
	}
	return nil
}

// ErrUnexpectedRowCount signals a write that touched the wrong number of rows.
// tx.go translates it to a generic internal error.
var ErrUnexpectedRowCount = errors.New("unexpected affected row count")
