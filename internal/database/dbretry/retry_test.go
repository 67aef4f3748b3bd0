package dbretry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ourlog/ourlog/internal/database/dbretry"
	"github.com/ourlog/ourlog/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context deadline", err: context.DeadlineExceeded, want: true},
		{name: "context canceled", err: context.Canceled, want: true},
		{name: "connection reset", err: errors.New("read tcp: connection reset by peer"), want: true},
		{name: "broken pipe", err: errors.New("write tcp: broken pipe"), want: true},
		{name: "io timeout", err: errors.New("dial tcp: i/o timeout"), want: true},
		{name: "domain sentinel", err: types.ErrBanAlreadyExists, want: false},
		{name: "plain error", err: errors.New("syntax error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dbretry.IsRetryableError(tt.err))
		})
	}
}

func TestOperationReturnsResult(t *testing.T) {
	t.Parallel()

	result, err := dbretry.Operation(t.Context(), func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestOperationDoesNotRetryDomainErrors(t *testing.T) {
	t.Parallel()

	calls := 0

	_, err := dbretry.Operation(t.Context(), func(context.Context) (int, error) {
		calls++
		return 0, types.ErrReportAlreadyExists
	})

	// The sentinel survives unwrapped so callers can match on it
	assert.ErrorIs(t, err, types.ErrReportAlreadyExists)
	assert.Equal(t, 1, calls)
}

func TestOperationRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	calls := 0

	result, err := dbretry.Operation(t.Context(), func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("read tcp: connection reset by peer")
		}

		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, calls)
}

func TestNoResult(t *testing.T) {
	t.Parallel()

	err := dbretry.NoResult(t.Context(), func(context.Context) error {
		return types.ErrUserNotFound
	})
	assert.ErrorIs(t, err, types.ErrUserNotFound)
}
