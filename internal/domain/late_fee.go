package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LateFeeHistoryRecord is an append-only snapshot of one late-fee calculation.
type LateFeeHistoryRecord struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	LoanID          string          `json:"loan_id" db:"loan_id"`
	CalculationDate time.Time       `json:"calculation_date" db:"calculation_date"`
	DaysOverdue     int             `json:"days_overdue" db:"days_overdue"`
	RateApplied     decimal.Decimal `json:"rate_applied" db:"rate_applied"`
	FeeForPeriod    decimal.Decimal `json:"fee_for_period" db:"fee_for_period"`
	TotalAccruedFee decimal.Decimal `json:"total_accrued_fee" db:"total_accrued_fee"`
}

type LateFeeHistoryResponse struct {
	LoanID  string                  `json:"loan_id"`
	Records []*LateFeeHistoryRecord `json:"records"`
}
