package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive  = "active"
	LoanStatusPaid    = "paid"
	LoanStatusDeleted = "deleted"
)

// PaymentFrequency is the spacing between two installment due dates.
type PaymentFrequency string

const (
	FrequencyDaily    PaymentFrequency = "daily"
	FrequencyWeekly   PaymentFrequency = "weekly"
	FrequencyBiweekly PaymentFrequency = "biweekly"
	FrequencyMonthly  PaymentFrequency = "monthly"
)

// IsValid reports whether f is one of the supported frequencies.
func (f PaymentFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// Loan represents a loan entity
type Loan struct {
	ID                    uuid.UUID        `json:"id" db:"id"`
	LoanID                string           `json:"loan_id" db:"loan_id"`
	TenantID              string           `json:"tenant_id" db:"tenant_id"`
	Amount                decimal.Decimal  `json:"amount" db:"amount"`
	InterestRatePerPeriod decimal.Decimal  `json:"interest_rate_per_period" db:"interest_rate_per_period"`
	TermInPeriods         int              `json:"term_in_periods" db:"term_in_periods"`
	PaymentFrequency      PaymentFrequency `json:"payment_frequency" db:"payment_frequency"`
	PeriodicPayment       decimal.Decimal  `json:"periodic_payment" db:"periodic_payment"`
	RemainingBalance      decimal.Decimal  `json:"remaining_balance" db:"remaining_balance"`
	NextPaymentDate       *time.Time       `json:"next_payment_date,omitempty" db:"next_payment_date"`
	FeePolicy             FeePolicy        `json:"fee_policy" db:"fee_policy"`
	Status                string           `json:"status" db:"status"`
	CreatedAt             time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the loan still accepts payments.
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	LoanID                string           `json:"loan_id" validate:"required"`
	TenantID              string           `json:"tenant_id" validate:"required"`
	Amount                decimal.Decimal  `json:"amount" validate:"decimal_gt=0"`
	InterestRatePerPeriod decimal.Decimal  `json:"interest_rate_per_period" validate:"decimal_gte=0"`
	TermInPeriods         int              `json:"term_in_periods" validate:"required,gt=0"`
	PaymentFrequency      PaymentFrequency `json:"payment_frequency" validate:"required,oneof=daily weekly biweekly monthly"`
	StartDate             *time.Time       `json:"start_date,omitempty"`
	FeePolicy             *FeePolicy       `json:"fee_policy,omitempty"`
	FeePolicyPreset       string           `json:"fee_policy_preset,omitempty"`
}

type CreateLoanResponse struct {
	Loan         *Loan          `json:"loan"`
	Installments []*Installment `json:"installments"`
}

type OutstandingResponse struct {
	LoanID             string          `json:"loan_id"`
	RemainingBalance   decimal.Decimal `json:"remaining_balance"`
	OutstandingLateFee decimal.Decimal `json:"outstanding_late_fee"`
	NextPaymentDate    *time.Time      `json:"next_payment_date,omitempty"`
}
