package mocks

import (
	"context"

	"github.com/segyhp/lending-engine/internal/domain"
	"github.com/segyhp/lending-engine/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) CreateBatch(ctx context.Context, installments []*domain.Installment) error {
	args := m.Called(ctx, installments)
	return args.Error(0)
}

func (m *MockInstallmentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) UpdateProgress(ctx context.Context, installment *domain.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

type MockLateFeeHistoryRepository struct {
	mock.Mock
}

func (m *MockLateFeeHistoryRepository) Append(ctx context.Context, record *domain.LateFeeHistoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLateFeeHistoryRepository) Latest(ctx context.Context, loanID string) (*domain.LateFeeHistoryRecord, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LateFeeHistoryRecord), args.Error(1)
}

func (m *MockLateFeeHistoryRepository) ListByLoanID(ctx context.Context, loanID string) ([]*domain.LateFeeHistoryRecord, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LateFeeHistoryRecord), args.Error(1)
}

// Store bundles one mock per repository.
type Store struct {
	Loans          *MockLoanRepository
	Installments   *MockInstallmentRepository
	Payments       *MockPaymentRepository
	LateFeeHistory *MockLateFeeHistoryRepository
}

func NewStore() *Store {
	return &Store{
		Loans:          &MockLoanRepository{},
		Installments:   &MockInstallmentRepository{},
		Payments:       &MockPaymentRepository{},
		LateFeeHistory: &MockLateFeeHistoryRepository{},
	}
}

// Repositories returns the mocks as a repository.Store.
func (s *Store) Repositories() *repository.Store {
	return &repository.Store{
		Loans:          s.Loans,
		Installments:   s.Installments,
		Payments:       s.Payments,
		LateFeeHistory: s.LateFeeHistory,
	}
}

// AssertExpectations checks every mock in the bundle.
func (s *Store) AssertExpectations(t mock.TestingT) {
	s.Loans.AssertExpectations(t)
	s.Installments.AssertExpectations(t)
	s.Payments.AssertExpectations(t)
	s.LateFeeHistory.AssertExpectations(t)
}

// TxRunner runs fn directly against Store without a real transaction.
// Commits counts calls whose fn returned nil.
type TxRunner struct {
	Store   *repository.Store
	Calls   int
	Commits int
}

func (r *TxRunner) WithTx(_ context.Context, fn func(store *repository.Store) error) error {
	r.Calls++
	if err := fn(r.Store); err != nil {
		return err
	}
	r.Commits++
	return nil
}
