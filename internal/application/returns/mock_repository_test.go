package returns

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/returnhub/backend/internal/domain/returns"
	"github.com/returnhub/backend/internal/domain/shared"
)

// MockUnitRepository is a mock implementation of returns.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ReturnUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.ReturnUnit), args.Error(1)
}

func (m *MockUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.ReturnUnit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.ReturnUnit), args.Error(1)
}

func (m *MockUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) FindByGroupKey(ctx context.Context, key string) ([]returns.ReturnUnit, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.ReturnUnit), args.Error(1)
}

func (m *MockUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]returns.ReturnUnit, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.ReturnUnit), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *returns.ReturnUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) SaveWithLock(ctx context.Context, unit *returns.ReturnUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUnitRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) CountByStatus(ctx context.Context) (map[returns.Status]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[returns.Status]int64), args.Error(1)
}

func (m *MockUnitRepository) NextNCRNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

// stubGate accepts fixed credentials, mirroring the configured bcrypt gate
type stubGate struct {
	reversal    string
	destructive string
}

func (g stubGate) VerifyReversal(credential string) error {
	if credential != g.reversal {
		return shared.ErrForbidden
	}
	return nil
}

func (g stubGate) VerifyDestructive(credential string) error {
	if credential != g.destructive {
		return shared.ErrForbidden
	}
	return nil
}
