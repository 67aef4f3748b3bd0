package models

import (
	"context"
	"fmt"

	"github.com/ourlog/ourlog/internal/database/dbretry"
	"github.com/ourlog/ourlog/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// UserModel handles database operations for user identity lookups.
type UserModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewUser creates a new UserModel instance.
func NewUser(db *bun.DB, logger *zap.Logger) *UserModel {
	return &UserModel{
		db:     db,
		logger: logger.Named("db_user"),
	}
}

// Create inserts a new user account.
func (m *UserModel) Create(ctx context.Context, user *types.User) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(user).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		return nil
	})
}

// Exists checks whether a user account exists.
func (m *UserModel) Exists(ctx context.Context, userID int64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := m.db.NewSelect().
			Model((*types.User)(nil)).
			Where("id = ?", userID).
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check if user exists: %w", err)
		}

		return exists, nil
	})
}
