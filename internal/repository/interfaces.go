package repository

import (
	"context"

	"github.com/segyhp/lending-engine/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByLoanID retrieves a loan by its loan ID
	GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error)

	// GetForUpdate retrieves a loan and locks its row until the surrounding
	// transaction ends
	GetForUpdate(ctx context.Context, loanID string) (*domain.Loan, error)

	// Update updates a loan
	Update(ctx context.Context, loan *domain.Loan) error

	// ListActive retrieves every loan with status active
	ListActive(ctx context.Context) ([]*domain.Loan, error)
}

// InstallmentRepository defines the interface for installment data operations
type InstallmentRepository interface {
	// CreateBatch creates the installments of a new loan
	CreateBatch(ctx context.Context, installments []*domain.Installment) error

	// GetByLoanID retrieves a loan's installments ordered by number
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error)

	// UpdateProgress stores is_paid, paid_date and late_fee_paid
	UpdateProgress(ctx context.Context, installment *domain.Installment) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByLoanID retrieves all payments for a loan
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error)
}

// LateFeeHistoryRepository stores append-only late-fee snapshots
type LateFeeHistoryRepository interface {
	// Append inserts a snapshot
	Append(ctx context.Context, record *domain.LateFeeHistoryRecord) error

	// Latest retrieves the newest snapshot of a loan, or nil if there is none
	Latest(ctx context.Context, loanID string) (*domain.LateFeeHistoryRecord, error)

	// ListByLoanID retrieves all snapshots of a loan, oldest first
	ListByLoanID(ctx context.Context, loanID string) ([]*domain.LateFeeHistoryRecord, error)
}

// Store groups the repositories bound to one connection or transaction.
type Store struct {
	Loans          LoanRepository
	Installments   InstallmentRepository
	Payments       PaymentRepository
	LateFeeHistory LateFeeHistoryRepository
}

// TxRunner runs fn with a Store whose repositories share one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(store *Store) error) error
}
