package engine

import (
	"cmp"
	"slices"
	"time"

	"github.com/segyhp/lending-engine/internal/domain"

	"github.com/shopspring/decimal"
)

// InstallmentFee is the late-fee position of one unpaid installment.
type InstallmentFee struct {
	InstallmentNumber int             `json:"installment_number"`
	DueDate           time.Time       `json:"due_date"`
	DaysOverdue       int             `json:"days_overdue"`
	AccruedFee        decimal.Decimal `json:"accrued_fee"`
	PaidFee           decimal.Decimal `json:"paid_fee"`
	OutstandingFee    decimal.Decimal `json:"outstanding_fee"`
}

// LedgerBreakdown is the late-fee position of a loan at AsOf.
type LedgerBreakdown struct {
	LoanID              string           `json:"loan_id"`
	AsOf                time.Time        `json:"as_of"`
	PerInstallment      []InstallmentFee `json:"per_installment"`
	TotalAccruedFee     decimal.Decimal  `json:"total_accrued_fee"`
	TotalOutstandingFee decimal.Decimal  `json:"total_outstanding_fee"`
	MaxDaysOverdue      int              `json:"max_days_overdue"`
}

// Breakdown walks the unpaid installments of loan in installment order and
// reports accrued, paid and outstanding late fee for each.
//
// The paid part comes from each installment's persisted LateFeePaid counter
// rather than from payment rows, so several partial late-fee payments against
// one installment are never counted twice. A disabled policy yields an
// all-zero breakdown without touching any dates.
func Breakdown(loan *domain.Loan, installments []*domain.Installment, asOf time.Time) (LedgerBreakdown, error) {
	result := LedgerBreakdown{
		LoanID:              loan.LoanID,
		AsOf:                asOf,
		PerInstallment:      make([]InstallmentFee, 0, len(installments)),
		TotalAccruedFee:     decimal.Zero,
		TotalOutstandingFee: decimal.Zero,
	}

	for _, inst := range sortedInstallments(installments) {
		if inst.IsPaid {
			continue
		}
		if !loan.FeePolicy.Enabled {
			result.PerInstallment = append(result.PerInstallment, InstallmentFee{
				InstallmentNumber: inst.InstallmentNumber,
				DueDate:           inst.DueDate,
				AccruedFee:        decimal.Zero,
				PaidFee:           decimal.Zero,
				OutstandingFee:    decimal.Zero,
			})
			continue
		}

		fee, err := installmentFee(loan.FeePolicy, inst, asOf)
		if err != nil {
			return LedgerBreakdown{}, err
		}
		result.PerInstallment = append(result.PerInstallment, fee)
		result.TotalAccruedFee = result.TotalAccruedFee.Add(fee.AccruedFee)
		result.TotalOutstandingFee = result.TotalOutstandingFee.Add(fee.OutstandingFee)
		if fee.DaysOverdue > result.MaxDaysOverdue {
			result.MaxDaysOverdue = fee.DaysOverdue
		}
	}

	return result, nil
}

// installmentFee prices a single installment against its own due date and
// principal.
func installmentFee(policy domain.FeePolicy, inst *domain.Installment, asOf time.Time) (InstallmentFee, error) {
	accrual, err := Accrue(policy, inst.PrincipalAmount, inst.DueDate, asOf)
	if err != nil {
		return InstallmentFee{}, err
	}

	outstanding := accrual.FeeAmount.Sub(inst.LateFeePaid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	return InstallmentFee{
		InstallmentNumber: inst.InstallmentNumber,
		DueDate:           inst.DueDate,
		DaysOverdue:       accrual.DaysOverdue,
		AccruedFee:        accrual.FeeAmount,
		PaidFee:           inst.LateFeePaid,
		OutstandingFee:    outstanding,
	}, nil
}

// sortedInstallments returns a copy of installments ordered by number.
func sortedInstallments(installments []*domain.Installment) []*domain.Installment {
	sorted := slices.Clone(installments)
	slices.SortStableFunc(sorted, func(a, b *domain.Installment) int {
		return cmp.Compare(a.InstallmentNumber, b.InstallmentNumber)
	})
	return sorted
}
