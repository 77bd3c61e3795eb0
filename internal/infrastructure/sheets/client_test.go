package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/orderdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

func TestFirstFreeRow(t *testing.T) {
	tests := []struct {
		name string
		grid [][]string
		want int
	}{
		{
			name: "empty sheet appends after header",
			grid: [][]string{{"Sr", "Date"}},
			want: 2,
		},
		{
			name: "no gaps appends at end",
			grid: [][]string{
				{"Sr", "Date"},
				{"1", "2026-08-01", "Acme"},
				{"2", "2026-08-02", "Acme"},
			},
			want: 4,
		},
		{
			name: "soft-deleted slot is reused",
			grid: [][]string{
				{"Sr", "Date"},
				{"1", "2026-08-01", "Acme"},
				{"2", "", ""},
				{"3", "2026-08-02", "Acme"},
			},
			want: 3,
		},
		{
			name: "whitespace date counts as free",
			grid: [][]string{
				{"Sr", "Date"},
				{"1", "  "},
			},
			want: 2,
		},
		{
			name: "short row counts as free",
			grid: [][]string{
				{"Sr", "Date"},
				{"1"},
			},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstFreeRow(tt.grid))
		})
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(&googleapi.Error{Code: 429}))
	assert.True(t, isTransient(&googleapi.Error{Code: 500}))
	assert.True(t, isTransient(&googleapi.Error{Code: 503}))
	assert.True(t, isTransient(errors.New("connection reset")))
	assert.False(t, isTransient(&googleapi.Error{Code: 400}))
	assert.False(t, isTransient(&googleapi.Error{Code: 404}))
}

func TestIsMissingRange(t *testing.T) {
	assert.True(t, isMissingRange(&googleapi.Error{Code: 400}))
	assert.True(t, isMissingRange(&googleapi.Error{Code: 404}))
	assert.False(t, isMissingRange(&googleapi.Error{Code: 500}))
	assert.False(t, isMissingRange(errors.New("boom")))
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	c := &Client{
		cfg: config.SheetsConfig{RetryAttempts: 3},
		log: zap.NewNop(),
	}

	calls := 0
	err := c.withRetry(context.Background(), func() error {
		calls++
		return &googleapi.Error{Code: 400}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRetriesTransientErrors(t *testing.T) {
	c := &Client{
		cfg: config.SheetsConfig{RetryAttempts: 3},
		log: zap.NewNop(),
	}

	calls := 0
	err := c.withRetry(context.Background(), func() error {
		calls++
		if calls < 2 {
			return &googleapi.Error{Code: 503}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetryHonorsContextCancel(t *testing.T) {
	c := &Client{
		cfg: config.SheetsConfig{RetryAttempts: 3},
		log: zap.NewNop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.withRetry(ctx, func() error {
		return &googleapi.Error{Code: 503}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCellPadsShortRows(t *testing.T) {
	row := []string{"a", "b"}
	assert.Equal(t, "a", cell(row, 0))
	assert.Equal(t, "", cell(row, 5))
}

func TestRanges(t *testing.T) {
	c := &Client{cfg: config.SheetsConfig{}}
	assert.Equal(t, "'orders'!A:G", c.gridRange("orders", "A:G"))
	assert.Equal(t, "'orders'!B7:G7", c.rowRange("orders", "B", "G", 7))
}
