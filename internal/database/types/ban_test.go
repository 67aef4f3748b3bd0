package types_test

import (
	"testing"
	"time"

	"github.com/ourlog/ourlog/internal/database/types"
	"github.com/stretchr/testify/assert"
)

func TestBanRecordIsActive(t *testing.T) {
	t.Parallel()

	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{name: "no expiry", expiresAt: nil, want: true},
		{name: "future expiry", expiresAt: &future, want: true},
		{name: "past expiry", expiresAt: &past, want: false},
		{name: "expiry exactly now", expiresAt: &now, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			record := &types.BanRecord{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, record.IsActive(now))
		})
	}
}

func TestBanRecordIsPermanent(t *testing.T) {
	t.Parallel()

	expiresAt := time.Now()

	assert.True(t, (&types.BanRecord{}).IsPermanent())
	assert.False(t, (&types.BanRecord{ExpiresAt: &expiresAt}).IsPermanent())
}

func TestBanStatusStillBanned(t *testing.T) {
	t.Parallel()

	now := time.Now()
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{name: "absent expiry never lapses", expiresAt: nil, want: true},
		{name: "future expiry", expiresAt: &future, want: true},
		{name: "past expiry", expiresAt: &past, want: false},
		{name: "expiry exactly now", expiresAt: &now, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status := &types.BanStatus{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, status.StillBanned(now))
		})
	}
}
