package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Transactor runs a unit of work inside one database transaction.
type Transactor struct {
	db TxBeginner
}

func NewTransactor(db TxBeginner) *Transactor {
	return &Transactor{db: db}
}

// TxRepositories are repositories bound to a single transaction.
type TxRepositories struct {
	*SubmissionRepository
	*ResourceRepository
	*CategoryRepository
	*TagRepository
}

func newTxRepositories(tx pgx.Tx) *TxRepositories {
	return &TxRepositories{
		SubmissionRepository: NewSubmissionRepository(tx),
		ResourceRepository:   NewResourceRepository(tx),
		CategoryRepository:   NewCategoryRepository(tx),
		TagRepository:        NewTagRepository(tx),
	}
}

// WithinTx commits when fn returns nil and rolls back on any error, so a
// partially applied unit of work is never visible.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *TxRepositories) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, newTxRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
