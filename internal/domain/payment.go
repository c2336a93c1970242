package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// ComponentTolerance is the largest difference allowed between a payment's
// amount and the sum of its components.
var ComponentTolerance = decimal.RequireFromString("0.01")

// Payment is immutable once created.
type Payment struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	LoanID          string          `json:"loan_id" db:"loan_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount" db:"interest_amount"`
	LateFee         decimal.Decimal `json:"late_fee" db:"late_fee"`
	PaymentDate     time.Time       `json:"payment_date" db:"payment_date"`
	PaymentMethod   string          `json:"payment_method" db:"payment_method"`
	Status          PaymentStatus   `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// IsCompleted reports whether the payment counts toward the loan history.
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

// Validate checks that principal, interest and late fee add up to Amount.
func (p *Payment) Validate() error {
	sum := p.PrincipalAmount.Add(p.InterestAmount).Add(p.LateFee)
	if sum.Sub(p.Amount).Abs().GreaterThan(ComponentTolerance) {
		return fmt.Errorf("payment components %s do not add up to amount %s", sum, p.Amount)
	}
	return nil
}

type MakePaymentRequest struct {
	LoanID        string          `json:"-"`
	Amount        decimal.Decimal `json:"amount" validate:"decimal_gte=0"`
	LateFeeAmount decimal.Decimal `json:"late_fee_amount" validate:"decimal_gte=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,max=32"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
}

type MakePaymentResponse struct {
	Payment          *Payment        `json:"payment"`
	InstallmentNo    int             `json:"installment_number"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	LateFeeRedirect  decimal.Decimal `json:"late_fee_redirected_to_principal"`
	NextPaymentDate  *time.Time      `json:"next_payment_date,omitempty"`
}

type PreviewAllocationRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
}
