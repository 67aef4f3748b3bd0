package service_test

import (
	"testing"
	"time"

	"github.com/ourlog/ourlog/internal/database/service"
	"github.com/ourlog/ourlog/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanStatusCodecRoundTrip(t *testing.T) {
	t.Parallel()

	var codec service.BanStatusCodec

	expiresAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	status := &types.BanStatus{
		BannedAt:  time.Date(2026, 5, 25, 12, 0, 0, 0, time.UTC),
		ExpiresAt: &expiresAt,
		Reason:    "report accumulation (5)",
	}

	data, err := codec.Encode(status)
	require.NoError(t, err)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	assert.True(t, status.BannedAt.Equal(decoded.BannedAt))
	require.NotNil(t, decoded.ExpiresAt)
	assert.True(t, expiresAt.Equal(*decoded.ExpiresAt))
	assert.Equal(t, status.Reason, decoded.Reason)
}

func TestBanStatusCodecPermanentOmitsExpiry(t *testing.T) {
	t.Parallel()

	var codec service.BanStatusCodec

	data, err := codec.Encode(&types.BanStatus{
		BannedAt: time.Now(),
		Reason:   "repeat offender",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "expiresAt")

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Nil(t, decoded.ExpiresAt)
	assert.True(t, decoded.StillBanned(time.Now().Add(100*365*24*time.Hour)))
}

func TestBanStatusCodecGarbage(t *testing.T) {
	t.Parallel()

	var codec service.BanStatusCodec

	_, err := codec.Decode([]byte("{not json"))
	assert.ErrorIs(t, err, service.ErrBanStatusCodec)
}
