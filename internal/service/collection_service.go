package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/lending-engine/internal/cache"
	"github.com/segyhp/lending-engine/internal/config"
	"github.com/segyhp/lending-engine/internal/domain"
	"github.com/segyhp/lending-engine/internal/engine"
	"github.com/segyhp/lending-engine/internal/repository"
	customError "github.com/segyhp/lending-engine/pkg/errors"
	"github.com/segyhp/lending-engine/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CollectionService persists what the engine computes. Every write to a loan
// runs under the loan's lock and inside one database transaction.
type CollectionService struct {
	store      *repository.Store
	txRunner   repository.TxRunner
	locker     cache.LoanLocker
	breakdowns cache.BreakdownCache
	presets    config.FeePresets
	config     *config.Config
	log        *logrus.Logger
	now        func() time.Time
}

func NewCollectionService(
	store *repository.Store,
	txRunner repository.TxRunner,
	locker cache.LoanLocker,
	breakdowns cache.BreakdownCache,
	presets config.FeePresets,
	config *config.Config,
	log *logrus.Logger,
) *CollectionService {
	return &CollectionService{
		store:      store,
		txRunner:   txRunner,
		locker:     locker,
		breakdowns: breakdowns,
		presets:    presets,
		config:     config,
		log:        log,
		now:        time.Now,
	}
}

// CreateLoan originates a loan and its installment schedule.
func (s *CollectionService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.CreateLoanResponse, error) {
	if !request.PaymentFrequency.IsValid() {
		return nil, customError.WrapInvalidLoanTerms("unsupported payment frequency " + string(request.PaymentFrequency))
	}
	if request.TermInPeriods <= 0 {
		return nil, customError.WrapInvalidLoanTerms("term must be at least one period")
	}

	policy, err := s.resolveFeePolicy(request)
	if err != nil {
		return nil, err
	}

	now := s.now()
	loan := &domain.Loan{
		ID:                    uuid.New(),
		LoanID:                request.LoanID,
		TenantID:              request.TenantID,
		Amount:                request.Amount,
		InterestRatePerPeriod: request.InterestRatePerPeriod,
		TermInPeriods:         request.TermInPeriods,
		PaymentFrequency:      request.PaymentFrequency,
		PeriodicPayment:       utils.CalculatePeriodicPayment(request.Amount, request.InterestRatePerPeriod, request.TermInPeriods),
		FeePolicy:             policy,
		Status:                domain.LoanStatusActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	interest, _, err := engine.FixedTerms(loan)
	if err != nil {
		return nil, customError.WrapInvalidLoanTerms(err.Error())
	}
	loan.RemainingBalance = engine.ContractTotal(loan, interest)

	start := now
	if request.StartDate != nil {
		start = *request.StartDate
	}
	start = utils.CalendarDate(start)

	principals := utils.SplitPrincipal(request.Amount, request.TermInPeriods)
	installments := make([]*domain.Installment, 0, request.TermInPeriods)
	for n := 1; n <= request.TermInPeriods; n++ {
		installments = append(installments, &domain.Installment{
			ID:                uuid.New(),
			LoanID:            loan.LoanID,
			InstallmentNumber: n,
			DueDate:           utils.CalculateDueDate(start, string(loan.PaymentFrequency), n),
			PrincipalAmount:   principals[n-1],
			LateFeePaid:       decimal.Zero,
			CreatedAt:         now,
		})
	}
	firstDue := installments[0].DueDate
	loan.NextPaymentDate = &firstDue

	err = s.txRunner.WithTx(ctx, func(store *repository.Store) error {
		existing, err := store.Loans.GetByLoanID(ctx, loan.LoanID)
		if err == nil && existing != nil {
			return customError.WrapLoanAlreadyExists(loan.LoanID)
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return customError.WrapDatabaseError(err)
		}

		if err := store.Loans.Create(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}
		if err := store.Installments.CreateBatch(ctx, installments); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":          loan.LoanID,
		"tenant_id":        loan.TenantID,
		"amount":           loan.Amount.String(),
		"periodic_payment": loan.PeriodicPayment.String(),
		"term":             loan.TermInPeriods,
	}).Info("loan created")

	return &domain.CreateLoanResponse{Loan: loan, Installments: installments}, nil
}

// resolveFeePolicy picks the explicit policy, then the named preset, then the
// configured default preset. With none of them late fees are disabled.
func (s *CollectionService) resolveFeePolicy(request *domain.CreateLoanRequest) (domain.FeePolicy, error) {
	var policy domain.FeePolicy
	switch {
	case request.FeePolicy != nil:
		policy = *request.FeePolicy
	case request.FeePolicyPreset != "" || s.config.Business.DefaultFeePreset != "":
		name := request.FeePolicyPreset
		if name == "" {
			name = s.config.Business.DefaultFeePreset
		}
		preset, ok := s.presets.Lookup(name)
		if !ok {
			return domain.FeePolicy{}, customError.NewBusinessError(
				customError.ErrCodeInvalidFeePolicy,
				"unknown fee policy preset "+name,
				customError.ErrUnknownFeePreset,
			)
		}
		policy = preset
	default:
		return domain.FeePolicy{
			RatePerPeriod: decimal.Zero,
			MaxLateFee:    decimal.Zero,
		}, nil
	}

	if err := policy.Validate(); err != nil {
		return domain.FeePolicy{}, customError.WrapInvalidFeePolicy(err)
	}
	return policy, nil
}

// RecordPayment applies a collected payment. The late-fee part is spread over
// overdue installments first; what it cannot place is either rejected or
// added to the interest/principal part depending on configuration. Either
// part may be zero, not both.
func (s *CollectionService) RecordPayment(ctx context.Context, request *domain.MakePaymentRequest) (*domain.MakePaymentResponse, error) {
	if request.Amount.IsNegative() {
		return nil, customError.WrapInvalidPaymentAmount(request.Amount)
	}
	if request.LateFeeAmount.IsNegative() {
		return nil, customError.WrapInvalidPaymentAmount(request.LateFeeAmount)
	}
	if total := request.Amount.Add(request.LateFeeAmount); !total.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(total)
	}

	unlock, err := s.lockLoan(ctx, request.LoanID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(context.Background()); err != nil {
			s.log.WithError(err).WithField("loan_id", request.LoanID).Warn("failed to release loan lock")
		}
	}()

	paidAt := s.now()
	if request.PaymentDate != nil {
		paidAt = *request.PaymentDate
	}

	var response *domain.MakePaymentResponse
	err = s.txRunner.WithTx(ctx, func(store *repository.Store) error {
		loan, err := loadLoan(ctx, store.Loans.GetForUpdate, request.LoanID)
		if err != nil {
			return err
		}
		if err := checkPayable(loan); err != nil {
			return err
		}

		installments, err := store.Installments.GetByLoanID(ctx, loan.LoanID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		payments, err := store.Payments.GetByLoanID(ctx, loan.LoanID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		lateFee, err := engine.ApplyLateFeePayment(loan, installments, request.LateFeeAmount, paidAt)
		if err != nil {
			return mapEngineError(loan, request.LateFeeAmount, err)
		}

		redirect := decimal.Zero
		if lateFee.HasLeftover() {
			if s.config.Business.LateFeeOverpayment != config.OverpaymentPrincipal {
				return customError.WrapLateFeeOverpayment(loan.LoanID, lateFee.Leftover)
			}
			redirect = lateFee.Leftover
		}

		toAllocate := request.Amount.Add(redirect)
		allocation := engine.Allocation{InterestPayment: decimal.Zero, PrincipalPayment: decimal.Zero}
		if toAllocate.IsPositive() {
			allocation, err = engine.Allocate(loan, installments, payments, toAllocate)
			if err != nil {
				return mapEngineError(loan, toAllocate, err)
			}
		} else if len(lateFee.Credits) > 0 {
			allocation.InstallmentNumber = lateFee.Credits[0].InstallmentNumber
		}

		payment := &domain.Payment{
			ID:              uuid.New(),
			LoanID:          loan.LoanID,
			Amount:          request.Amount.Add(request.LateFeeAmount),
			PrincipalAmount: allocation.PrincipalPayment,
			InterestAmount:  allocation.InterestPayment,
			LateFee:         lateFee.Consumed,
			PaymentDate:     paidAt,
			PaymentMethod:   request.PaymentMethod,
			Status:          domain.PaymentStatusCompleted,
			CreatedAt:       s.now(),
		}
		if err := payment.Validate(); err != nil {
			return customError.NewBusinessError(customError.ErrCodeInvalidPaymentAmount, err.Error(), customError.ErrInvalidPaymentAmount)
		}
		if err := store.Payments.Create(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		state, err := engine.Replay(loan, append(payments[:len(payments):len(payments)], payment))
		if err != nil {
			return customError.WrapInvalidLoanTerms(err.Error())
		}

		loan.RemainingBalance = loan.RemainingBalance.Sub(allocation.Total())
		if loan.RemainingBalance.IsNegative() {
			loan.RemainingBalance = decimal.Zero
		}
		closeAll := loan.RemainingBalance.IsZero()

		if err := persistProgress(ctx, store, installments, lateFee.Installments, state, closeAll, paidAt); err != nil {
			return err
		}

		loan.NextPaymentDate = nextDueDate(lateFee.Installments)
		if closeAll {
			loan.Status = domain.LoanStatusPaid
			loan.NextPaymentDate = nil
		}
		if err := store.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		response = &domain.MakePaymentResponse{
			Payment:          payment,
			InstallmentNo:    allocation.InstallmentNumber,
			RemainingBalance: loan.RemainingBalance,
			LateFeeRedirect:  redirect,
			NextPaymentDate:  loan.NextPaymentDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":           request.LoanID,
		"payment_id":        response.Payment.ID.String(),
		"interest":          response.Payment.InterestAmount.String(),
		"principal":         response.Payment.PrincipalAmount.String(),
		"late_fee":          response.Payment.LateFee.String(),
		"installment":       response.InstallmentNo,
		"remaining_balance": response.RemainingBalance.String(),
	}).Info("payment recorded")

	return response, nil
}

// persistProgress writes back the installments whose late-fee counter or
// paid flag changed. An installment is paid once the replay closed it, or
// when the loan balance reached zero.
func persistProgress(
	ctx context.Context,
	store *repository.Store,
	before, after []*domain.Installment,
	state engine.ReplayState,
	closeAll bool,
	paidAt time.Time,
) error {
	previous := make(map[int]*domain.Installment, len(before))
	for _, inst := range before {
		previous[inst.InstallmentNumber] = inst
	}

	for _, inst := range after {
		if !inst.IsPaid {
			switch {
			case inst.InstallmentNumber <= len(state.Completed):
				completedAt := state.Completed[inst.InstallmentNumber-1].CompletedAt
				inst.IsPaid = true
				inst.PaidDate = &completedAt
			case closeAll:
				inst.IsPaid = true
				inst.PaidDate = &paidAt
			}
		}

		old := previous[inst.InstallmentNumber]
		if old != nil && old.IsPaid == inst.IsPaid && old.LateFeePaid.Equal(inst.LateFeePaid) {
			continue
		}
		if err := store.Installments.UpdateProgress(ctx, inst); err != nil {
			return customError.WrapDatabaseError(err)
		}
	}
	return nil
}

func nextDueDate(installments []*domain.Installment) *time.Time {
	for _, inst := range installments {
		if !inst.IsPaid {
			due := inst.DueDate
			return &due
		}
	}
	return nil
}

// GetLateFeeBreakdown returns the late-fee position of a loan at asOf.
// Results are memoized; a cache failure only costs a recomputation.
func (s *CollectionService) GetLateFeeBreakdown(ctx context.Context, loanID string, asOf time.Time) (*engine.LedgerBreakdown, error) {
	loan, err := loadLoan(ctx, s.store.Loans.GetByLoanID, loanID)
	if err != nil {
		return nil, err
	}
	installments, err := s.store.Installments.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return s.breakdown(ctx, loan, installments, asOf)
}

func (s *CollectionService) breakdown(ctx context.Context, loan *domain.Loan, installments []*domain.Installment, asOf time.Time) (*engine.LedgerBreakdown, error) {
	key := cache.BreakdownKey(loan, installments, asOf)
	logger := s.log.WithFields(logrus.Fields{"loan_id": loan.LoanID, "cache_key": key})

	cached, err := s.breakdowns.Get(ctx, key)
	if err != nil {
		logger.WithError(err).Warn("breakdown cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	result, err := engine.Breakdown(loan, installments, asOf)
	if err != nil {
		return nil, customError.WrapInvalidFeePolicy(err)
	}

	if err := s.breakdowns.Set(ctx, key, result); err != nil {
		logger.WithError(err).Warn("breakdown cache write failed")
	}
	return &result, nil
}

// GetOutstanding reports the remaining balance and today's outstanding late fee.
func (s *CollectionService) GetOutstanding(ctx context.Context, loanID string) (*domain.OutstandingResponse, error) {
	loan, err := loadLoan(ctx, s.store.Loans.GetByLoanID, loanID)
	if err != nil {
		return nil, err
	}
	installments, err := s.store.Installments.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	breakdown, err := s.breakdown(ctx, loan, installments, utils.CalendarDate(s.now()))
	if err != nil {
		return nil, err
	}

	return &domain.OutstandingResponse{
		LoanID:             loan.LoanID,
		RemainingBalance:   loan.RemainingBalance,
		OutstandingLateFee: breakdown.TotalOutstandingFee,
		NextPaymentDate:    loan.NextPaymentDate,
	}, nil
}

// GetSchedule returns the loan's installments in order.
func (s *CollectionService) GetSchedule(ctx context.Context, loanID string) (*domain.ScheduleResponse, error) {
	if _, err := loadLoan(ctx, s.store.Loans.GetByLoanID, loanID); err != nil {
		return nil, err
	}
	installments, err := s.store.Installments.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return &domain.ScheduleResponse{LoanID: loanID, Installments: installments}, nil
}

// PreviewAllocation shows how amount would be split without recording it.
func (s *CollectionService) PreviewAllocation(ctx context.Context, loanID string, amount decimal.Decimal) (*engine.Allocation, error) {
	loan, err := loadLoan(ctx, s.store.Loans.GetByLoanID, loanID)
	if err != nil {
		return nil, err
	}
	if err := checkPayable(loan); err != nil {
		return nil, err
	}

	installments, err := s.store.Installments.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	payments, err := s.store.Payments.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	allocation, err := engine.Allocate(loan, installments, payments, amount)
	if err != nil {
		return nil, mapEngineError(loan, amount, err)
	}
	return &allocation, nil
}

// RecalculateLateFees appends a late-fee snapshot for asOf. FeeForPeriod is
// the growth since the previous snapshot. A second run for the same asOf
// returns the existing snapshot.
func (s *CollectionService) RecalculateLateFees(ctx context.Context, loanID string, asOf time.Time) (*domain.LateFeeHistoryRecord, error) {
	loan, err := loadLoan(ctx, s.store.Loans.GetByLoanID, loanID)
	if err != nil {
		return nil, err
	}
	installments, err := s.store.Installments.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	result, err := engine.Breakdown(loan, installments, asOf)
	if err != nil {
		return nil, customError.WrapInvalidFeePolicy(err)
	}

	latest, err := s.store.LateFeeHistory.Latest(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	previous := decimal.Zero
	if latest != nil {
		if latest.CalculationDate.Equal(asOf) {
			return latest, nil
		}
		previous = latest.TotalAccruedFee
	}

	record := &domain.LateFeeHistoryRecord{
		ID:              uuid.New(),
		LoanID:          loanID,
		CalculationDate: asOf,
		DaysOverdue:     result.MaxDaysOverdue,
		RateApplied:     loan.FeePolicy.RatePerPeriod,
		FeeForPeriod:    result.TotalAccruedFee.Sub(previous),
		TotalAccruedFee: result.TotalAccruedFee,
	}
	if err := s.store.LateFeeHistory.Append(ctx, record); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":        loanID,
		"as_of":          asOf.Format(time.DateOnly),
		"total_accrued":  record.TotalAccruedFee.String(),
		"fee_for_period": record.FeeForPeriod.String(),
	}).Debug("late fee snapshot appended")

	return record, nil
}

// GetLateFeeHistory returns the loan's late-fee snapshots, oldest first.
func (s *CollectionService) GetLateFeeHistory(ctx context.Context, loanID string) (*domain.LateFeeHistoryResponse, error) {
	if _, err := loadLoan(ctx, s.store.Loans.GetByLoanID, loanID); err != nil {
		return nil, err
	}
	records, err := s.store.LateFeeHistory.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return &domain.LateFeeHistoryResponse{LoanID: loanID, Records: records}, nil
}

// RecalculateAllLateFees snapshots every active loan. One failing loan does
// not stop the sweep; the number of failures is returned with the last error.
func (s *CollectionService) RecalculateAllLateFees(ctx context.Context, asOf time.Time) (processed, failed int, err error) {
	loans, err := s.store.Loans.ListActive(ctx)
	if err != nil {
		return 0, 0, customError.WrapDatabaseError(err)
	}

	var lastErr error
	for _, loan := range loans {
		if ctx.Err() != nil {
			return processed, failed, ctx.Err()
		}
		if _, err := s.RecalculateLateFees(ctx, loan.LoanID, asOf); err != nil {
			failed++
			lastErr = err
			s.log.WithError(err).WithField("loan_id", loan.LoanID).Error("late fee recalculation failed")
			continue
		}
		processed++
	}

	s.log.WithFields(logrus.Fields{
		"as_of":     asOf.Format(time.DateOnly),
		"processed": processed,
		"failed":    failed,
	}).Info("late fee sweep finished")

	return processed, failed, lastErr
}

// ReconcileLoan checks late-fee consistency and rebuilds the stored remaining
// balance from the payment replay. Drift is logged and repaired, never
// returned as an error.
func (s *CollectionService) ReconcileLoan(ctx context.Context, loanID string) (*engine.ConsistencyReport, error) {
	unlock, err := s.lockLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(context.Background()); err != nil {
			s.log.WithError(err).WithField("loan_id", loanID).Warn("failed to release loan lock")
		}
	}()

	var report engine.ConsistencyReport
	err = s.txRunner.WithTx(ctx, func(store *repository.Store) error {
		loan, err := loadLoan(ctx, store.Loans.GetForUpdate, loanID)
		if err != nil {
			return err
		}
		installments, err := store.Installments.GetByLoanID(ctx, loanID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		payments, err := store.Payments.GetByLoanID(ctx, loanID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		logger := s.log.WithField("loan_id", loanID)

		report = engine.CheckConsistency(installments, payments)
		if !report.Consistent() {
			logger.WithFields(logrus.Fields{
				"installment_late_fee_paid": report.InstallmentLateFeePaid.String(),
				"payment_late_fee":          report.PaymentLateFee.String(),
				"drift":                     report.Drift.String(),
			}).Warn("late fee ledger drift detected")
		}

		state, err := engine.Replay(loan, payments)
		if err != nil {
			return customError.WrapInvalidLoanTerms(err.Error())
		}
		expected := engine.ExpectedRemainingBalance(loan, state)
		if expected.Equal(loan.RemainingBalance) {
			return nil
		}

		logger.WithFields(logrus.Fields{
			"stored":   loan.RemainingBalance.String(),
			"replayed": expected.String(),
		}).Warn("remaining balance drift repaired")

		loan.RemainingBalance = expected
		if loan.IsActive() && expected.IsZero() {
			loan.Status = domain.LoanStatusPaid
			loan.NextPaymentDate = nil
		}
		if err := store.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// DeleteLoan marks a loan deleted. Its rows are kept for audit.
func (s *CollectionService) DeleteLoan(ctx context.Context, loanID string) error {
	unlock, err := s.lockLoan(ctx, loanID)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(context.Background()); err != nil {
			s.log.WithError(err).WithField("loan_id", loanID).Warn("failed to release loan lock")
		}
	}()

	err = s.txRunner.WithTx(ctx, func(store *repository.Store) error {
		loan, err := loadLoan(ctx, store.Loans.GetForUpdate, loanID)
		if err != nil {
			return err
		}
		if loan.Status == domain.LoanStatusDeleted {
			return nil
		}
		loan.Status = domain.LoanStatusDeleted
		loan.NextPaymentDate = nil
		if err := store.Loans.Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithField("loan_id", loanID).Info("loan deleted")
	return nil
}

// lockLoan waits at most the lock TTL for the loan's lock.
func (s *CollectionService) lockLoan(ctx context.Context, loanID string) (cache.UnlockFunc, error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.config.GetLoanLockTTL())
	defer cancel()

	unlock, err := s.locker.Lock(lockCtx, loanID)
	if errors.Is(err, cache.ErrLockNotAcquired) {
		return nil, customError.WrapLoanBusy(loanID)
	}
	if err != nil {
		return nil, customError.WrapCacheError(err)
	}
	return unlock, nil
}

// checkPayable rejects loans that cannot take another payment. A settled
// loan has nothing left to allocate to.
func checkPayable(loan *domain.Loan) error {
	if loan.Status == domain.LoanStatusPaid || (loan.IsActive() && !loan.RemainingBalance.IsPositive()) {
		return customError.WrapNoOutstandingBalance(loan.LoanID)
	}
	if !loan.IsActive() {
		return customError.WrapLoanNotActive(loan.LoanID, loan.Status)
	}
	return nil
}

func loadLoan(ctx context.Context, get func(context.Context, string) (*domain.Loan, error), loanID string) (*domain.Loan, error) {
	loan, err := get(ctx, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapLoanNotFound(loanID)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

// mapEngineError turns engine sentinels into business errors.
func mapEngineError(loan *domain.Loan, amount decimal.Decimal, err error) error {
	switch {
	case errors.Is(err, customError.ErrAllocationOverflow):
		return customError.WrapAllocationOverflow(loan.LoanID, amount, loan.RemainingBalance)
	case errors.Is(err, customError.ErrInvalidPaymentAmount):
		return customError.WrapInvalidPaymentAmount(amount)
	case errors.Is(err, customError.ErrInvalidFeePolicy):
		return customError.WrapInvalidFeePolicy(err)
	case errors.Is(err, customError.ErrInvalidLoanTerms):
		return customError.WrapInvalidLoanTerms(err.Error())
	}
	return err
}
