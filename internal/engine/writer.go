package engine

import (
	"fmt"
	"time"

	"github.com/segyhp/lending-engine/internal/domain"
	customError "github.com/segyhp/lending-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

// LateFeeCredit is the part of a late-fee payment applied to one installment.
type LateFeeCredit struct {
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
}

// LateFeeApplication is the outcome of distributing a late-fee payment.
// Installments are updated copies of the input, in installment order.
type LateFeeApplication struct {
	Installments []*domain.Installment `json:"installments"`
	Credits      []LateFeeCredit       `json:"credits"`
	Consumed     decimal.Decimal       `json:"consumed"`
	Leftover     decimal.Decimal       `json:"leftover"`
}

// HasLeftover reports whether part of the payment found no outstanding fee.
func (a LateFeeApplication) HasLeftover() bool {
	return a.Leftover.IsPositive()
}

// ApplyLateFeePayment spreads lateFeeAmount over the unpaid installments,
// oldest first, up to each one's outstanding fee at asOf. The input
// installments are left untouched. Whatever cannot be applied is returned in
// Leftover for the caller to redirect or reject.
func ApplyLateFeePayment(loan *domain.Loan, installments []*domain.Installment, lateFeeAmount decimal.Decimal, asOf time.Time) (LateFeeApplication, error) {
	if lateFeeAmount.IsNegative() {
		return LateFeeApplication{}, fmt.Errorf("%w: late fee %s", customError.ErrInvalidPaymentAmount, lateFeeAmount)
	}

	result := LateFeeApplication{
		Installments: make([]*domain.Installment, 0, len(installments)),
		Consumed:     decimal.Zero,
		Leftover:     lateFeeAmount,
	}

	for _, original := range sortedInstallments(installments) {
		inst := *original
		result.Installments = append(result.Installments, &inst)

		if inst.IsPaid || !result.Leftover.IsPositive() || !loan.FeePolicy.Enabled {
			continue
		}

		fee, err := installmentFee(loan.FeePolicy, &inst, asOf)
		if err != nil {
			return LateFeeApplication{}, err
		}
		if !fee.OutstandingFee.IsPositive() {
			continue
		}

		applied := decimal.Min(result.Leftover, fee.OutstandingFee)
		inst.LateFeePaid = inst.LateFeePaid.Add(applied)
		result.Leftover = result.Leftover.Sub(applied)
		result.Consumed = result.Consumed.Add(applied)
		result.Credits = append(result.Credits, LateFeeCredit{
			InstallmentNumber: inst.InstallmentNumber,
			Amount:            applied,
		})
	}

	return result, nil
}
