package service

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/ourlog/ourlog/internal/database/types"
)

// ErrBanStatusCodec marks a failure to (de)serialize a ban status
// snapshot. Readers treat it as a cache miss; writers treat it as a
// warning since the ban record is already durable.
var ErrBanStatusCodec = errors.New("ban status codec failure")

// BanStatusCodec serializes ban status snapshots to and from the compact
// JSON payload stored in the status cache.
type BanStatusCodec struct{}

// Encode serializes a snapshot for the cache.
func (BanStatusCodec) Encode(status *types.BanStatus) ([]byte, error) {
	data, err := sonic.Marshal(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBanStatusCodec, err)
	}

	return data, nil
}

// Decode deserializes a cache payload back into a snapshot.
func (BanStatusCodec) Decode(data []byte) (*types.BanStatus, error) {
	var status types.BanStatus
	if err := sonic.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBanStatusCodec, err)
	}

	return &status, nil
}
