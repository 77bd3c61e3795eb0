package orders

import (
	"context"
	"time"

	"github.com/orderdesk/backend/internal/domain/orders"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) OrderRows(ctx context.Context) ([]orders.OrderRow, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]orders.OrderRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) DispatchRows(ctx context.Context) ([]orders.DispatchRow, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]orders.DispatchRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Lists(ctx context.Context) (orders.ReferenceLists, error) {
	args := m.Called(ctx)
	return args.Get(0).(orders.ReferenceLists), args.Error(1)
}

func (m *mockRepository) AppendOrder(ctx context.Context, order orders.NewOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockRepository) UpdateOrder(ctx context.Context, row int, item orders.LineItem) error {
	args := m.Called(ctx, row, item)
	return args.Error(0)
}

func (m *mockRepository) SoftDeleteOrder(ctx context.Context, row int) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *mockRepository) RestoreOrder(ctx context.Context, row int, snap orders.Snapshot) error {
	args := m.Called(ctx, row, snap)
	return args.Error(0)
}

func (m *mockRepository) AppendDispatch(ctx context.Context, d orders.NewDispatch) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

type stubDedup struct {
	fresh bool
	err   error
}

func (s *stubDedup) MarkSeen(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	return s.fresh, s.err
}

func (s *stubDedup) Close() error { return nil }
