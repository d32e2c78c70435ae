package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperr "contractpay/internal/errors"
	"contractpay/internal/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repos is the set of repositories bound to one unit of work.
type Repos struct {
	Profiles  ProfileRepository
	Jobs      JobRepository
	Contracts ContractRepository
	Transfers TransferRepository
}

// NewRepos binds every repository to db, which may be a transaction.
func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Profiles:  NewProfileRepository(db),
		Jobs:      NewJobRepository(db),
		Contracts: NewContractRepository(db),
		Transfers: NewTransferRepository(db),
	}
}

// UnitOfWork runs fn inside one database transaction. Everything fn does
// through r commits together when fn returns nil and is rolled back
// otherwise, including when ctx is cancelled before commit.
//
// Isolation is read committed by default. Correctness of the payment and
// deposit engines relies on the row locks they take (SELECT ... FOR UPDATE on
// the job and profile rows) plus conditional updates, not on the isolation
// level alone.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}

// TxOptions configures a UnitOfWork.
type TxOptions struct {
	Isolation sql.IsolationLevel
	// MaxRetries is how many times a unit is re-run after postgres aborts it
	// with a serialization failure or deadlock.
	MaxRetries int
}

type unitOfWork struct {
	db   *gorm.DB
	opts TxOptions
	log  *logger.Logger
}

// NewUnitOfWork creates a gorm-backed UnitOfWork.
func NewUnitOfWork(db *gorm.DB, opts TxOptions, log *logger.Logger) UnitOfWork {
	if db == nil {
		panic("db is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &unitOfWork{db: db, opts: opts, log: log}
}

func (u *unitOfWork) WithinTx(ctx context.Context, fn func(r Repos) error) error {
	var err error
	for attempt := 0; attempt <= u.opts.MaxRetries; attempt++ {
		err = u.run(ctx, fn)
		if !shouldRetry(ctx, err) {
			return err
		}
		u.log.Warn("retrying unit of work", "attempt", attempt+1, "error", err)
	}
	return err
}

func (u *unitOfWork) run(ctx context.Context, fn func(r Repos) error) (err error) {
	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: u.opts.Isolation})
	if tx.Error != nil {
		return apperr.Internal(fmt.Errorf("failed to begin transaction: %w", tx.Error))
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := rollback(tx); rbErr != nil {
				u.log.Error("rollback after panic failed", "error", rbErr, "fatal", true)
			}
			panic(p)
		}
	}()

	if err = fn(NewRepos(tx)); err != nil {
		if rbErr := rollback(tx); rbErr != nil {
			u.log.Error("rollback failed", "cause", err, "error", rbErr, "fatal", true)
			return apperr.RollbackFailed(err, rbErr)
		}
		return err
	}

	// database/sql finalizes the transaction on Commit whether or not it
	// succeeds, so a failed commit has nothing left to roll back.
	if err = tx.Commit().Error; err != nil {
		return apperr.Internal(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// rollback aborts tx. A transaction already finalized by a cancelled context
// counts as rolled back.
func rollback(tx *gorm.DB) error {
	err := tx.Rollback().Error
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// shouldRetry reports whether a failed unit may be re-run. A unit whose
// rollback failed is never re-run, even when its cause was a serialization
// failure.
func shouldRetry(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil || apperr.IsFatal(err) {
		return false
	}
	return isRetryable(err)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
