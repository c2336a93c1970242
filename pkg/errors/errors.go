package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanAlreadyExists    = errors.New("loan already exists")
	ErrLoanNotActive        = errors.New("loan is not active")
	ErrInvalidLoanTerms     = errors.New("invalid loan terms")
	ErrInvalidFeePolicy     = errors.New("invalid fee policy")
	ErrUnknownFeePreset     = errors.New("unknown fee policy preset")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrAllocationOverflow   = errors.New("payment exceeds remaining balance")
	ErrLateFeeOverpayment   = errors.New("late fee payment exceeds outstanding late fee")
	ErrLoanBusy             = errors.New("loan is being updated by another session")
	ErrNoOutstandingBalance = errors.New("no outstanding balance")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound         = "LOAN_NOT_FOUND"
	ErrCodeLoanAlreadyExists    = "LOAN_ALREADY_EXISTS"
	ErrCodeLoanNotActive        = "LOAN_NOT_ACTIVE"
	ErrCodeInvalidLoanTerms     = "INVALID_LOAN_TERMS"
	ErrCodeInvalidFeePolicy     = "INVALID_FEE_POLICY"
	ErrCodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	ErrCodeAllocationOverflow   = "ALLOCATION_OVERFLOW"
	ErrCodeLateFeeOverpayment   = "LATE_FEE_OVERPAYMENT"
	ErrCodeLoanBusy             = "LOAN_BUSY"
	ErrCodeNoOutstandingBalance = "NO_OUTSTANDING_BALANCE"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// Code returns the business error code carried by err, or "" if none.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Wrap common errors with business context
func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapLoanAlreadyExists(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyExists,
		fmt.Sprintf("Loan with ID %s already exists", loanID),
		ErrLoanAlreadyExists,
	)
}

func WrapLoanNotActive(loanID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotActive,
		fmt.Sprintf("Loan with ID %s is %s", loanID, status),
		ErrLoanNotActive,
	)
}

func WrapInvalidLoanTerms(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidLoanTerms,
		reason,
		ErrInvalidLoanTerms,
	)
}

func WrapInvalidFeePolicy(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidFeePolicy,
		"fee policy rejected",
		err,
	)
}

func WrapAllocationOverflow(loanID string, proposed, remaining decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeAllocationOverflow,
		fmt.Sprintf("Payment %s exceeds remaining balance %s of loan %s", proposed.StringFixed(2), remaining.StringFixed(2), loanID),
		ErrAllocationOverflow,
	)
}

func WrapLateFeeOverpayment(loanID string, leftover decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeLateFeeOverpayment,
		fmt.Sprintf("Late fee payment for loan %s leaves %s unapplied", loanID, leftover.StringFixed(2)),
		ErrLateFeeOverpayment,
	)
}

func WrapLoanBusy(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanBusy,
		fmt.Sprintf("Loan with ID %s is locked by another payment", loanID),
		ErrLoanBusy,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

func WrapNoOutstandingBalance(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNoOutstandingBalance,
		fmt.Sprintf("Loan with ID %s has no outstanding balance", loanID),
		ErrNoOutstandingBalance,
	)
}

func WrapInvalidPaymentAmount(amount decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount.StringFixed(2)),
		ErrInvalidPaymentAmount,
	)
}
