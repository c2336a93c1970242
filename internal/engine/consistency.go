package engine

import (
	"github.com/segyhp/lending-engine/internal/domain"

	"github.com/shopspring/decimal"
)

// ConsistencyReport compares late fee recorded on installments with late fee
// recorded on payments. The two must match exactly: every late-fee component
// of a completed payment was distributed to installments by
// ApplyLateFeePayment.
type ConsistencyReport struct {
	InstallmentLateFeePaid decimal.Decimal `json:"installment_late_fee_paid"`
	PaymentLateFee         decimal.Decimal `json:"payment_late_fee"`
	Drift                  decimal.Decimal `json:"drift"`
}

// Consistent reports whether there is no drift.
func (r ConsistencyReport) Consistent() bool {
	return r.Drift.IsZero()
}

// CheckConsistency sums the late fee on both sides of the ledger.
func CheckConsistency(installments []*domain.Installment, payments []*domain.Payment) ConsistencyReport {
	report := ConsistencyReport{
		InstallmentLateFeePaid: decimal.Zero,
		PaymentLateFee:         decimal.Zero,
	}
	for _, inst := range installments {
		report.InstallmentLateFeePaid = report.InstallmentLateFeePaid.Add(inst.LateFeePaid)
	}
	for _, p := range payments {
		if p.IsCompleted() {
			report.PaymentLateFee = report.PaymentLateFee.Add(p.LateFee)
		}
	}
	report.Drift = report.InstallmentLateFeePaid.Sub(report.PaymentLateFee)
	return report
}
