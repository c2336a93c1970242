package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is one scheduled due period of a loan. Due dates are fixed at
// origination; IsPaid, PaidDate and LateFeePaid change as payments land.
type Installment struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	LoanID            string          `json:"loan_id" db:"loan_id"`
	InstallmentNumber int             `json:"installment_number" db:"installment_number"`
	DueDate           time.Time       `json:"due_date" db:"due_date"`
	PrincipalAmount   decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	IsPaid            bool            `json:"is_paid" db:"is_paid"`
	PaidDate          *time.Time      `json:"paid_date,omitempty" db:"paid_date"`
	LateFeePaid       decimal.Decimal `json:"late_fee_paid" db:"late_fee_paid"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

type ScheduleResponse struct {
	LoanID       string         `json:"loan_id"`
	Installments []*Installment `json:"installments"`
}
