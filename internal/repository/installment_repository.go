package repository

import (
	"context"

	"github.com/segyhp/lending-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type installmentRepository struct {
	db sqlx.ExtContext
}

func NewInstallmentRepository(db sqlx.ExtContext) InstallmentRepository {
	return &installmentRepository{db: db}
}

// CreateBatch should run inside WithTx so a failed insert leaves no partial
// schedule behind.
func (r *installmentRepository) CreateBatch(ctx context.Context, installments []*domain.Installment) error {
	query := `
		INSERT INTO installments (id, loan_id, installment_number, due_date, principal_amount, is_paid, paid_date, late_fee_paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, inst := range installments {
		_, err := r.db.ExecContext(ctx, query,
			inst.ID,
			inst.LoanID,
			inst.InstallmentNumber,
			inst.DueDate,
			inst.PrincipalAmount,
			inst.IsPaid,
			inst.PaidDate,
			inst.LateFeePaid,
			inst.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *installmentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, installment_number, due_date, principal_amount, is_paid, paid_date, late_fee_paid, created_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY installment_number
	`

	var installments []*domain.Installment
	if err := sqlx.SelectContext(ctx, r.db, &installments, query, loanID); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) UpdateProgress(ctx context.Context, inst *domain.Installment) error {
	query := `
		UPDATE installments
		SET is_paid = $3, paid_date = $4, late_fee_paid = $5
		WHERE loan_id = $1 AND installment_number = $2
	`

	_, err := r.db.ExecContext(ctx, query, inst.LoanID, inst.InstallmentNumber, inst.IsPaid, inst.PaidDate, inst.LateFeePaid)
	return err
}
