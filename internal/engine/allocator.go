package engine

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/segyhp/lending-engine/internal/domain"
	customError "github.com/segyhp/lending-engine/pkg/errors"
	"github.com/segyhp/lending-engine/pkg/utils"

	"github.com/shopspring/decimal"
)

// InstallmentSnapshot records what was paid toward one installment at the
// moment the replay closed it.
type InstallmentSnapshot struct {
	InstallmentNumber int             `json:"installment_number"`
	InterestPaid      decimal.Decimal `json:"interest_paid"`
	PrincipalPaid     decimal.Decimal `json:"principal_paid"`
	CompletedAt       time.Time       `json:"completed_at"`
}

// ReplayState is the result of folding a loan's completed payments.
// Completed holds one snapshot per closed installment; InterestPaid and
// PrincipalPaid are the accumulators of the installment still open.
type ReplayState struct {
	FixedInterest      decimal.Decimal       `json:"fixed_interest"`
	FixedPrincipal     decimal.Decimal       `json:"fixed_principal"`
	Completed          []InstallmentSnapshot `json:"completed"`
	CurrentInstallment int                   `json:"current_installment"`
	InterestPaid       decimal.Decimal       `json:"interest_paid"`
	PrincipalPaid      decimal.Decimal       `json:"principal_paid"`
	TotalInterestPaid  decimal.Decimal       `json:"total_interest_paid"`
	TotalPrincipalPaid decimal.Decimal       `json:"total_principal_paid"`
}

// RemainingInterestDue is the interest still owed on the open installment.
func (s ReplayState) RemainingInterestDue() decimal.Decimal {
	due := s.FixedInterest.Sub(s.InterestPaid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// apply folds one payment into s and returns the new state. s is not modified.
func (s ReplayState) apply(p *domain.Payment) ReplayState {
	next := s
	next.InterestPaid = s.InterestPaid.Add(p.InterestAmount)
	next.PrincipalPaid = s.PrincipalPaid.Add(p.PrincipalAmount)
	next.TotalInterestPaid = s.TotalInterestPaid.Add(p.InterestAmount)
	next.TotalPrincipalPaid = s.TotalPrincipalPaid.Add(p.PrincipalAmount)

	if next.InterestPaid.GreaterThanOrEqual(s.FixedInterest) && next.PrincipalPaid.GreaterThanOrEqual(s.FixedPrincipal) {
		snap := InstallmentSnapshot{
			InstallmentNumber: s.CurrentInstallment,
			InterestPaid:      next.InterestPaid,
			PrincipalPaid:     next.PrincipalPaid,
			CompletedAt:       p.PaymentDate,
		}
		// full slice expression so the append never writes into s.Completed
		next.Completed = append(s.Completed[:len(s.Completed):len(s.Completed)], snap)
		next.CurrentInstallment = s.CurrentInstallment + 1
		next.InterestPaid = decimal.Zero
		next.PrincipalPaid = decimal.Zero
	}
	return next
}

// FixedTerms returns the flat interest and principal charged per installment.
// Interest is computed once from the original principal, never from the
// remaining balance.
func FixedTerms(loan *domain.Loan) (interest, principal decimal.Decimal, err error) {
	if !loan.Amount.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: amount must be positive", customError.ErrInvalidLoanTerms)
	}
	if loan.InterestRatePerPeriod.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: interest rate must not be negative", customError.ErrInvalidLoanTerms)
	}

	interest = utils.RoundMoney(utils.FixedInterestPerPeriod(loan.Amount, loan.InterestRatePerPeriod))
	principal = loan.PeriodicPayment.Sub(interest)
	if !principal.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: periodic payment %s does not cover interest %s",
			customError.ErrInvalidLoanTerms, loan.PeriodicPayment, interest)
	}
	return interest, principal, nil
}

// Replay folds the loan's completed payments in chronological order. The
// result decides which installment the next payment lands on, regardless of
// the installment rows' IsPaid flags.
func Replay(loan *domain.Loan, payments []*domain.Payment) (ReplayState, error) {
	interest, principal, err := FixedTerms(loan)
	if err != nil {
		return ReplayState{}, err
	}

	state := ReplayState{
		FixedInterest:      interest,
		FixedPrincipal:     principal,
		CurrentInstallment: 1,
		InterestPaid:       decimal.Zero,
		PrincipalPaid:      decimal.Zero,
		TotalInterestPaid:  decimal.Zero,
		TotalPrincipalPaid: decimal.Zero,
	}
	for _, p := range chronological(payments) {
		state = state.apply(p)
	}
	return state, nil
}

// Allocation is the interest/principal split of a proposed payment.
type Allocation struct {
	InstallmentNumber    int             `json:"installment_number"`
	InterestPayment      decimal.Decimal `json:"interest_payment"`
	PrincipalPayment     decimal.Decimal `json:"principal_payment"`
	RemainingInterestDue decimal.Decimal `json:"remaining_interest_due"`
	FixedInterest        decimal.Decimal `json:"fixed_interest"`
	FixedPrincipal       decimal.Decimal `json:"fixed_principal"`
}

// Total is the amount allocated.
func (a Allocation) Total() decimal.Decimal {
	return a.InterestPayment.Add(a.PrincipalPayment)
}

// Allocate splits proposedAmount into interest and principal. Interest still
// due on the open installment is always satisfied first; anything beyond it
// is principal, even when it exceeds the installment's own principal.
func Allocate(loan *domain.Loan, installments []*domain.Installment, payments []*domain.Payment, proposedAmount decimal.Decimal) (Allocation, error) {
	if !proposedAmount.IsPositive() {
		return Allocation{}, fmt.Errorf("%w: %s", customError.ErrInvalidPaymentAmount, proposedAmount)
	}
	if proposedAmount.GreaterThan(loan.RemainingBalance) {
		return Allocation{}, fmt.Errorf("%w: %s > %s", customError.ErrAllocationOverflow, proposedAmount, loan.RemainingBalance)
	}

	state, err := Replay(loan, payments)
	if err != nil {
		return Allocation{}, err
	}

	result := Allocation{
		InstallmentNumber:    state.CurrentInstallment,
		RemainingInterestDue: state.RemainingInterestDue(),
		FixedInterest:        state.FixedInterest,
		FixedPrincipal:       state.FixedPrincipal,
	}
	if n := len(installments); n > 0 && result.InstallmentNumber > n {
		result.InstallmentNumber = n
	}

	if proposedAmount.LessThanOrEqual(result.RemainingInterestDue) {
		result.InterestPayment = proposedAmount
		result.PrincipalPayment = decimal.Zero
		return result, nil
	}

	result.InterestPayment = result.RemainingInterestDue
	result.PrincipalPayment = proposedAmount.Sub(result.RemainingInterestDue)
	return result, nil
}

// ContractTotal is everything the borrower owes over the life of the loan,
// excluding late fees.
func ContractTotal(loan *domain.Loan, fixedInterest decimal.Decimal) decimal.Decimal {
	return loan.Amount.Add(fixedInterest.Mul(decimal.NewFromInt(int64(loan.TermInPeriods))))
}

// ExpectedRemainingBalance derives the remaining balance from the replay
// instead of the loan's stored aggregate.
func ExpectedRemainingBalance(loan *domain.Loan, state ReplayState) decimal.Decimal {
	remaining := ContractTotal(loan, state.FixedInterest).
		Sub(state.TotalInterestPaid).
		Sub(state.TotalPrincipalPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// chronological returns the completed payments sorted by payment date.
func chronological(payments []*domain.Payment) []*domain.Payment {
	completed := make([]*domain.Payment, 0, len(payments))
	for _, p := range payments {
		if p.IsCompleted() {
			completed = append(completed, p)
		}
	}
	slices.SortStableFunc(completed, func(a, b *domain.Payment) int {
		return cmp.Compare(a.PaymentDate.UnixNano(), b.PaymentDate.UnixNano())
	})
	return completed
}
