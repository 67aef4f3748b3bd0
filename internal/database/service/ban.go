package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ourlog/ourlog/internal/database/types"
	"github.com/ourlog/ourlog/internal/database/types/enum"
	"github.com/redis/rueidis"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// banKeyPrefix namespaces ban status snapshots in the cache.
const banKeyPrefix = "ban:user:"

// warmConcurrency bounds parallel snapshot writes during a cache warm.
const warmConcurrency = 8

// UserStore resolves user identities for validation.
type UserStore interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// BanStore is the authoritative persistence for ban records.
type BanStore interface {
	Create(ctx context.Context, record *types.BanRecord) error
	GetActive(ctx context.Context, userID int64, now time.Time) (*types.BanRecord, error)
	ExpireActive(ctx context.Context, userID int64, now time.Time) (bool, error)
	ListActive(ctx context.Context, now time.Time) ([]*types.BanRecord, error)
}

// BanService is the authority on ban state. Writes go to the store
// first, then the status cache is refreshed best-effort; reads are
// cache-aside with the store as fallback, so the two can never diverge
// for longer than one cache miss.
type BanService struct {
	bans   BanStore
	users  UserStore
	cache  rueidis.Client
	codec  BanStatusCodec
	logger *zap.Logger
}

// NewBan creates a new ban service.
func NewBan(bans BanStore, users UserStore, cache rueidis.Client, logger *zap.Logger) *BanService {
	return &BanService{
		bans:   bans,
		users:  users,
		cache:  cache,
		logger: logger.Named("ban_service"),
	}
}

// BanUser suspends a user. A zero duration issues a permanent ban, any
// other duration a temporary one expiring after it elapses. Returns
// types.ErrBanAlreadyExists if the user already has an active ban.
func (s *BanService) BanUser(
	ctx context.Context, userID int64, reason string, duration time.Duration,
) error {
	kind := enum.BanKindTemporary
	if duration == 0 {
		kind = enum.BanKindPermanent
	}

	return s.BanUserWithKind(ctx, userID, kind, reason, duration)
}

// BanUserWithKind suspends a user with an explicit ban kind, letting
// administrative tooling stamp records as ADMIN_DECISION. The expiry
// still follows the duration: zero means no natural expiry.
func (s *BanService) BanUserWithKind(
	ctx context.Context, userID int64, kind enum.BanKind, reason string, duration time.Duration,
) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve user %d: %w", userID, err)
	}

	if !exists {
		return types.ErrUserNotFound
	}

	now := time.Now()

	// Fast-path rejection; the store's exclusion constraint is the real
	// guarantee when two ban attempts race.
	if _, err := s.bans.GetActive(ctx, userID, now); err == nil {
		return types.ErrBanAlreadyExists
	} else if !errors.Is(err, types.ErrBanNotFound) {
		return fmt.Errorf("failed to check active ban for user %d: %w", userID, err)
	}

	var expiresAt *time.Time

	if duration > 0 {
		t := now.Add(duration)
		expiresAt = &t
	}

	record := &types.BanRecord{
		UserID:    userID,
		Kind:      kind,
		Reason:    reason,
		BannedAt:  now,
		ExpiresAt: expiresAt,
	}

	if err := s.bans.Create(ctx, record); err != nil {
		return err
	}

	// The record is durable at this point; the snapshot write is
	// best-effort and the read path falls back to the store anyway.
	s.writeSnapshot(ctx, record, now)

	s.logger.Info("Banned user",
		zap.Int64("userID", userID),
		zap.String("kind", string(kind)),
		zap.Duration("duration", duration))

	return nil
}

// IsUserBanned checks whether a user is currently suspended. The status
// cache is consulted first; on a miss the store answers and the cache is
// refilled with the remaining ban time. A never-banned user always
// reaches the store - there is no negative caching.
func (s *BanService) IsUserBanned(ctx context.Context, userID int64) (bool, error) {
	key := banKey(userID)

	data, err := s.cache.Do(ctx, s.cache.B().Get().Key(key).Build()).AsBytes()
	switch {
	case err == nil:
		status, decodeErr := s.codec.Decode(data)
		if decodeErr == nil {
			return status.StillBanned(time.Now()), nil
		}

		// Undecodable entries count as a miss and fall through to the store
		s.logger.Warn("Dropping undecodable ban status entry",
			zap.Int64("userID", userID),
			zap.Error(decodeErr))
	case !rueidis.IsRedisNil(err):
		// Cache trouble must not block the check; the store still answers
		s.logger.Warn("Ban status cache read failed",
			zap.Int64("userID", userID),
			zap.Error(err))
	}

	now := time.Now()

	record, err := s.bans.GetActive(ctx, userID, now)
	if err != nil {
		if errors.Is(err, types.ErrBanNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("failed to look up active ban for user %d: %w", userID, err)
	}

	s.writeSnapshot(ctx, record, now)

	return true, nil
}

// UnbanUser lifts a user's suspension: the authoritative record is
// closed first, then the cache entry is invalidated. Unbanning a user
// with no active ban still clears any stale cache entry.
func (s *BanService) UnbanUser(ctx context.Context, userID int64) error {
	now := time.Now()

	closed, err := s.bans.ExpireActive(ctx, userID, now)
	if err != nil {
		return fmt.Errorf("failed to close active ban for user %d: %w", userID, err)
	}

	if !closed {
		s.logger.Debug("No active ban to close", zap.Int64("userID", userID))
	}

	err = s.cache.Do(ctx, s.cache.B().Del().Key(banKey(userID)).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to invalidate ban status for user %d: %w", userID, err)
	}

	s.logger.Info("Unbanned user",
		zap.Int64("userID", userID),
		zap.Bool("recordClosed", closed))

	return nil
}

// WarmCache refills the status cache from every active ban record. Used
// after a cache flush or failover to shrink the window where checks fall
// through to the store.
func (s *BanService) WarmCache(ctx context.Context) (int, error) {
	now := time.Now()

	records, err := s.bans.ListActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list active bans: %w", err)
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(warmConcurrency)
	for _, record := range records {
		p.Go(func(ctx context.Context) error {
			s.writeSnapshot(ctx, record, now)
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return 0, err
	}

	s.logger.Info("Warmed ban status cache", zap.Int("count", len(records)))

	return len(records), nil
}

// writeSnapshot projects a ban record into the status cache. Failures
// are logged, never returned: the record in the store stays
// authoritative and the read path can always fall back to it.
func (s *BanService) writeSnapshot(ctx context.Context, record *types.BanRecord, now time.Time) {
	status := &types.BanStatus{
		BannedAt:  record.BannedAt,
		ExpiresAt: record.ExpiresAt,
		Reason:    record.Reason,
	}

	payload, err := s.codec.Encode(status)
	if err != nil {
		s.logger.Warn("Failed to encode ban status snapshot",
			zap.Int64("userID", record.UserID),
			zap.Error(err))

		return
	}

	// Snapshot lifetime matches the remaining ban time; permanent bans
	// get no TTL at all.
	setCmd := s.cache.B().Set().Key(banKey(record.UserID)).Value(rueidis.BinaryString(payload))

	var cmd rueidis.Completed
	if record.ExpiresAt != nil {
		cmd = setCmd.Ex(record.ExpiresAt.Sub(now)).Build()
	} else {
		cmd = setCmd.Build()
	}

	if err := s.cache.Do(ctx, cmd).Error(); err != nil {
		s.logger.Warn("Failed to cache ban status",
			zap.Int64("userID", record.UserID),
			zap.Error(err))
	}
}

func banKey(userID int64) string {
	return fmt.Sprintf("%s%d", banKeyPrefix, userID)
}
