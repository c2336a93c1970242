package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/segyhp/lending-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type lateFeeHistoryRepository struct {
	db sqlx.ExtContext
}

func NewLateFeeHistoryRepository(db sqlx.ExtContext) LateFeeHistoryRepository {
	return &lateFeeHistoryRepository{db: db}
}

func (r *lateFeeHistoryRepository) Append(ctx context.Context, record *domain.LateFeeHistoryRecord) error {
	query := `
		INSERT INTO late_fee_history (id, loan_id, calculation_date, days_overdue, rate_applied, fee_for_period, total_accrued_fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.LoanID,
		record.CalculationDate,
		record.DaysOverdue,
		record.RateApplied,
		record.FeeForPeriod,
		record.TotalAccruedFee,
	)

	return err
}

func (r *lateFeeHistoryRepository) Latest(ctx context.Context, loanID string) (*domain.LateFeeHistoryRecord, error) {
	query := `
		SELECT id, loan_id, calculation_date, days_overdue, rate_applied, fee_for_period, total_accrued_fee
		FROM late_fee_history
		WHERE loan_id = $1
		ORDER BY calculation_date DESC
		LIMIT 1
	`

	var record domain.LateFeeHistoryRecord
	err := sqlx.GetContext(ctx, r.db, &record, query, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *lateFeeHistoryRepository) ListByLoanID(ctx context.Context, loanID string) ([]*domain.LateFeeHistoryRecord, error) {
	query := `
		SELECT id, loan_id, calculation_date, days_overdue, rate_applied, fee_for_period, total_accrued_fee
		FROM late_fee_history
		WHERE loan_id = $1
		ORDER BY calculation_date
	`

	var records []*domain.LateFeeHistoryRecord
	if err := sqlx.SelectContext(ctx, r.db, &records, query, loanID); err != nil {
		return nil, err
	}

	return records, nil
}
