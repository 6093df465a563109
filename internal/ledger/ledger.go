package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/jmoiron/sqlx"
)

var ErrNestedTx = errors.New("ledger: transaction already in progress")

// Repository is the order ledger. The same value works on a pool or inside a transaction.
type Repository struct {
	db     *sqlx.DB // nil when bound to a transaction
	ext    sqlx.ExtContext
	logger logger.Logger
}

func NewRepository(db *sqlx.DB, logger logger.Logger) *Repository {
	return &Repository{
		db:     db,
		ext:    db,
		logger: logger,
	}
}

// InTx runs fn against a repository bound to one serializable transaction. The transaction is
// committed when fn returns nil and rolled back otherwise. Serialization failures from postgres
// (SQLSTATE 40001) are returned as is; callers decide whether to retry.
func (r *Repository) InTx(ctx context.Context, fn func(tx *Repository) error) (err error) {
	if r.db == nil {
		return ErrNestedTx
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: can't begin ledger transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Repository{ext: tx, logger: r.logger}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.logger.Errorf("%s: can't rollback ledger transaction", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: can't commit ledger transaction", err)
	}

	return nil
}
