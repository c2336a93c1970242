package mocks

import (
	"context"

	"github.com/segyhp/lending-engine/internal/engine"

	"github.com/stretchr/testify/mock"
)

type MockBreakdownCache struct {
	mock.Mock
}

func (m *MockBreakdownCache) Get(ctx context.Context, key string) (*engine.LedgerBreakdown, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.LedgerBreakdown), args.Error(1)
}

func (m *MockBreakdownCache) Set(ctx context.Context, key string, breakdown engine.LedgerBreakdown) error {
	args := m.Called(ctx, key, breakdown)
	return args.Error(0)
}
