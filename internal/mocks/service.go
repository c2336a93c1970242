package mocks

import (
	"context"
	"time"

	"github.com/segyhp/lending-engine/internal/domain"
	"github.com/segyhp/lending-engine/internal/engine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.CreateLoanResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateLoanResponse), args.Error(1)
}

func (m *MockCollectionService) RecordPayment(ctx context.Context, request *domain.MakePaymentRequest) (*domain.MakePaymentResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MakePaymentResponse), args.Error(1)
}

func (m *MockCollectionService) GetLateFeeBreakdown(ctx context.Context, loanID string, asOf time.Time) (*engine.LedgerBreakdown, error) {
	args := m.Called(ctx, loanID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.LedgerBreakdown), args.Error(1)
}

func (m *MockCollectionService) GetLateFeeHistory(ctx context.Context, loanID string) (*domain.LateFeeHistoryResponse, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LateFeeHistoryResponse), args.Error(1)
}

func (m *MockCollectionService) GetOutstanding(ctx context.Context, loanID string) (*domain.OutstandingResponse, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutstandingResponse), args.Error(1)
}

func (m *MockCollectionService) GetSchedule(ctx context.Context, loanID string) (*domain.ScheduleResponse, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleResponse), args.Error(1)
}

func (m *MockCollectionService) PreviewAllocation(ctx context.Context, loanID string, amount decimal.Decimal) (*engine.Allocation, error) {
	args := m.Called(ctx, loanID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Allocation), args.Error(1)
}

func (m *MockCollectionService) ReconcileLoan(ctx context.Context, loanID string) (*engine.ConsistencyReport, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.ConsistencyReport), args.Error(1)
}

func (m *MockCollectionService) DeleteLoan(ctx context.Context, loanID string) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

// NewMockCollectionService creates a new mock collection service instance
func NewMockCollectionService() *MockCollectionService {
	return &MockCollectionService{}
}
