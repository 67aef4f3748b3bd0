package models

import (
	"context"
	"fmt"
	"time"

	"github.com/ourlog/ourlog/internal/database/dbretry"
	"github.com/ourlog/ourlog/internal/database/types"
	"github.com/ourlog/ourlog/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReportModel handles database operations for user reports.
type ReportModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReport creates a new ReportModel instance.
func NewReport(db *bun.DB, logger *zap.Logger) *ReportModel {
	return &ReportModel{
		db:     db,
		logger: logger.Named("db_report"),
	}
}

// Create persists a report. The unique index on (reporter_id, target_id,
// reason) is the dedup guarantee; a concurrent duplicate insert surfaces
// as types.ErrReportAlreadyExists, not a raw driver error.
func (m *ReportModel) Create(ctx context.Context, report *types.Report) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(report).
			Exec(ctx)

		return err
	})
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return types.ErrReportAlreadyExists
		case pgForeignKeyViolation:
			return types.ErrUserNotFound
		}

		return fmt.Errorf("failed to create report: %w", err)
	}

	m.logger.Debug("Created report",
		zap.Int64("reporterID", report.ReporterID),
		zap.Int64("targetID", report.TargetID),
		zap.String("reason", string(report.Reason)))

	return nil
}

// Exists checks whether the reporter already reported the target for the
// given reason.
func (m *ReportModel) Exists(
	ctx context.Context, reporterID, targetID int64, reason enum.ReportReason,
) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := m.db.NewSelect().
			Model((*types.Report)(nil)).
			Where("reporter_id = ?", reporterID).
			Where("target_id = ?", targetID).
			Where("reason = ?", reason).
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check if report exists: %w", err)
		}

		return exists, nil
	})
}

// CountForTargetSince counts reports filed against a target strictly
// after the given instant. A report stamped exactly at the window start
// does not count.
func (m *ReportModel) CountForTargetSince(
	ctx context.Context, targetID int64, since time.Time,
) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().
			Model((*types.Report)(nil)).
			Where("target_id = ?", targetID).
			Where("reported_at > ?", since).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count reports for target: %w", err)
		}

		return count, nil
	})
}
