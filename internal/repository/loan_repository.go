package repository

import (
	"context"
	"time"

	"github.com/segyhp/lending-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

const loanColumns = `id, loan_id, tenant_id, amount, interest_rate_per_period, term_in_periods, payment_frequency,
	periodic_payment, remaining_balance, next_payment_date, fee_policy, status, created_at, updated_at`

type loanRepository struct {
	db sqlx.ExtContext
}

func NewLoanRepository(db sqlx.ExtContext) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.LoanID,
		loan.TenantID,
		loan.Amount,
		loan.InterestRatePerPeriod,
		loan.TermInPeriods,
		loan.PaymentFrequency,
		loan.PeriodicPayment,
		loan.RemainingBalance,
		loan.NextPaymentDate,
		loan.FeePolicy,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, loanID); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1 FOR UPDATE`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, loanID); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET remaining_balance = $2, next_payment_date = $3, fee_policy = $4, status = $5, updated_at = $6
		WHERE loan_id = $1
	`

	loan.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		loan.LoanID,
		loan.RemainingBalance,
		loan.NextPaymentDate,
		loan.FeePolicy,
		loan.Status,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE status = $1 ORDER BY created_at`

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, r.db, &loans, query, domain.LoanStatusActive); err != nil {
		return nil, err
	}

	return loans, nil
}
