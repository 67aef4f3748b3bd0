package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ourlog/ourlog/internal/database/dbretry"
	"github.com/ourlog/ourlog/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// BanModel handles database operations for ban records.
type BanModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewBan creates a new BanModel instance.
func NewBan(db *bun.DB, logger *zap.Logger) *BanModel {
	return &BanModel{
		db:     db,
		logger: logger.Named("db_ban"),
	}
}

// Create persists a ban record. The exclusion constraint on
// (user_id, banned period) keeps at most one ban active per user, so a
// concurrent double-ban surfaces as types.ErrBanAlreadyExists.
func (m *BanModel) Create(ctx context.Context, record *types.BanRecord) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(record).
			Exec(ctx)

		return err
	})
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation, pgExclusionViolation:
			return types.ErrBanAlreadyExists
		case pgForeignKeyViolation:
			return types.ErrUserNotFound
		}

		return fmt.Errorf("failed to create ban record: %w", err)
	}

	m.logger.Debug("Created ban record",
		zap.Int64("userID", record.UserID),
		zap.String("kind", string(record.Kind)))

	return nil
}

// GetActive retrieves the ban in force for a user at the given instant.
// Returns types.ErrBanNotFound when the user has no active ban.
func (m *BanModel) GetActive(ctx context.Context, userID int64, now time.Time) (*types.BanRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.BanRecord, error) {
		var ban types.BanRecord

		err := m.db.NewSelect().
			Model(&ban).
			Where("user_id = ?", userID).
			Where("expires_at IS NULL OR expires_at > ?", now).
			OrderExpr("banned_at DESC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrBanNotFound
			}

			return nil, fmt.Errorf("failed to get active ban: %w", err)
		}

		return &ban, nil
	})
}

// ExpireActive closes the active ban for a user by setting its expiry to
// the given instant. Returns true if a ban was closed, false if the user
// had no active ban.
func (m *BanModel) ExpireActive(ctx context.Context, userID int64, now time.Time) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewUpdate().
			Model((*types.BanRecord)(nil)).
			Set("expires_at = ?", now).
			Where("user_id = ?", userID).
			Where("expires_at IS NULL OR expires_at > ?", now).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to expire active ban: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// ListActive retrieves every ban in force at the given instant.
func (m *BanModel) ListActive(ctx context.Context, now time.Time) ([]*types.BanRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.BanRecord, error) {
		var bans []*types.BanRecord

		err := m.db.NewSelect().
			Model(&bans).
			Where("expires_at IS NULL OR expires_at > ?", now).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active bans: %w", err)
		}

		return bans, nil
	})
}
