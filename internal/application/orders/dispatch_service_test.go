package orders

import (
	"context"
	"testing"

	"github.com/orderdesk/backend/internal/domain/orders"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaveBatchSkipsInvalidEntries(t *testing.T) {
	repo := new(mockRepository)
	repo.On("AppendDispatch", mock.Anything, orders.NewDispatch{
		Company: "Acme", Product: "Widget", Quantity: 5, Serial: "12",
	}).Return(nil)

	svc := NewDispatchService(repo, zap.NewNop())
	result, err := svc.SaveBatch(context.Background(), []DispatchInput{
		{Serial: " 12 ", Company: "Acme", Product: " Widget ", Quantity: 5},
		{Serial: "", Company: "Acme", Product: "Widget", Quantity: 5},
		{Serial: "13", Company: "Acme", Product: "", Quantity: 5},
		{Serial: "14", Company: "Acme", Product: "Widget", Quantity: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Written)
	assert.Len(t, result.Errors, 3)
	repo.AssertExpectations(t)
}

func TestSaveBatchReportsWriteFailures(t *testing.T) {
	repo := new(mockRepository)
	repo.On("AppendDispatch", mock.Anything, mock.Anything).Return(shared.ErrBackendUnavailable)

	svc := NewDispatchService(repo, zap.NewNop())
	result, err := svc.SaveBatch(context.Background(), []DispatchInput{
		{Serial: "12", Product: "Widget", Quantity: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Written)
	assert.Len(t, result.Errors, 1)
}

func TestSaveBatchEmptyInput(t *testing.T) {
	svc := NewDispatchService(new(mockRepository), zap.NewNop())
	_, err := svc.SaveBatch(context.Background(), nil)
	assert.Error(t, err)
}

func TestSaveBatchWithoutBackend(t *testing.T) {
	svc := NewDispatchService(nil, zap.NewNop())
	_, err := svc.SaveBatch(context.Background(), []DispatchInput{{Serial: "1", Product: "W", Quantity: 1}})
	assert.ErrorIs(t, err, shared.ErrBackendUnavailable)
}
