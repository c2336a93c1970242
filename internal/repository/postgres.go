package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// NewStore binds all repositories to db.
func NewStore(db sqlx.ExtContext) *Store {
	return &Store{
		Loans:          NewLoanRepository(db),
		Installments:   NewInstallmentRepository(db),
		Payments:       NewPaymentRepository(db),
		LateFeeHistory: NewLateFeeHistoryRepository(db),
	}
}

type txRunner struct {
	db *sqlx.DB
}

// NewTxRunner returns a TxRunner backed by db.
func NewTxRunner(db *sqlx.DB) TxRunner {
	return &txRunner{db: db}
}

func (r *txRunner) WithTx(ctx context.Context, fn func(store *Store) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(NewStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
