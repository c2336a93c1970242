// Package engine holds the pure late-fee accrual and payment-allocation logic.
// Nothing here performs I/O or locking; callers load the records, call in,
// and persist what comes back.
package engine

import (
	"fmt"
	"time"

	"github.com/segyhp/lending-engine/internal/domain"
	customError "github.com/segyhp/lending-engine/pkg/errors"
	"github.com/segyhp/lending-engine/pkg/utils"

	"github.com/shopspring/decimal"
)

const daysPerFeeMonth = 30

var one = decimal.NewFromInt(1)

// Accrual is the late fee owed on one principal base at one moment.
type Accrual struct {
	DaysOverdue int             `json:"days_overdue"`
	FeeAmount   decimal.Decimal `json:"fee_amount"`
}

// DaysOverdue returns whole days past dueDate at asOf, less the grace period,
// never below zero.
func DaysOverdue(dueDate, asOf time.Time, gracePeriodDays int) int {
	days := utils.DaysBetween(dueDate, asOf) - gracePeriodDays
	if days < 0 {
		return 0
	}
	return days
}

// Accrue computes the late fee accrued on principalBase for an installment due
// at dueDate, evaluated at asOf. principalBase is the principal of the
// installment being evaluated, not the loan's remaining balance.
func Accrue(policy domain.FeePolicy, principalBase decimal.Decimal, dueDate, asOf time.Time) (Accrual, error) {
	if !policy.Enabled {
		return Accrual{FeeAmount: decimal.Zero}, nil
	}
	if err := policy.Validate(); err != nil {
		return Accrual{}, fmt.Errorf("%w: %v", customError.ErrInvalidFeePolicy, err)
	}

	result := Accrual{
		DaysOverdue: DaysOverdue(dueDate, asOf, policy.GracePeriodDays),
		FeeAmount:   decimal.Zero,
	}
	if result.DaysOverdue <= 0 || !principalBase.IsPositive() {
		return result, nil
	}

	rate := utils.Percent(policy.RatePerPeriod)
	days := decimal.NewFromInt(int64(result.DaysOverdue))

	var fee decimal.Decimal
	switch policy.CalculationMode {
	case domain.ModeDaily:
		fee = principalBase.Mul(rate).Mul(days)
	case domain.ModeMonthly:
		months := (result.DaysOverdue + daysPerFeeMonth - 1) / daysPerFeeMonth
		fee = principalBase.Mul(rate).Mul(decimal.NewFromInt(int64(months)))
	case domain.ModeCompound:
		fee = principalBase.Mul(one.Add(rate).Pow(days).Sub(one))
	default:
		// Validate already rejected anything else.
		return Accrual{}, fmt.Errorf("%w: calculation mode %q", customError.ErrInvalidFeePolicy, policy.CalculationMode)
	}

	if policy.IsCapped() && fee.GreaterThan(policy.MaxLateFee) {
		fee = policy.MaxLateFee
	}
	result.FeeAmount = utils.RoundMoney(fee)
	return result, nil
}
