package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ourlog/ourlog/internal/database/types"
	"github.com/ourlog/ourlog/internal/database/types/enum"
	"go.uber.org/zap"
)

// ReportStore is the persistence surface the recorder needs.
type ReportStore interface {
	ReportCounter

	Exists(ctx context.Context, reporterID, targetID int64, reason enum.ReportReason) (bool, error)
	Create(ctx context.Context, report *types.Report) error
}

// Escalator re-evaluates a target after a report lands.
type Escalator interface {
	Evaluate(ctx context.Context, targetID int64) error
}

// ReportService validates and records user reports, then hands the
// target to the escalator.
type ReportService struct {
	reports   ReportStore
	users     UserStore
	escalator Escalator
	logger    *zap.Logger
}

// NewReport creates a new report service.
func NewReport(
	reports ReportStore, users UserStore, escalator Escalator, logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reports:   reports,
		users:     users,
		escalator: escalator,
		logger:    logger.Named("report_service"),
	}
}

// FileReport validates and persists a single report. At most one report
// per (reporter, target, reason) is accepted; the storage unique index
// backs the check, so a concurrent duplicate also surfaces as
// types.ErrReportAlreadyExists.
//
// Escalation runs after the report is durable. A ban-side failure other
// than "already banned" is logged and retried implicitly by the next
// qualifying report - it never unrecords a valid report.
func (s *ReportService) FileReport(
	ctx context.Context, reporterID, targetID int64, reason enum.ReportReason, description string,
) error {
	if !reason.IsValid() {
		return types.ErrInvalidReportReason
	}

	if len(description) > types.MaxDescriptionLength {
		return types.ErrDescriptionTooLong
	}

	if reporterID == targetID {
		return types.ErrSelfReportNotAllowed
	}

	for _, userID := range []int64{reporterID, targetID} {
		exists, err := s.users.Exists(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to resolve user %d: %w", userID, err)
		}

		if !exists {
			return types.ErrUserNotFound
		}
	}

	// Pre-filter; the unique index has the final say under concurrency
	exists, err := s.reports.Exists(ctx, reporterID, targetID, reason)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate report: %w", err)
	}

	if exists {
		return types.ErrReportAlreadyExists
	}

	report := &types.Report{
		ReporterID:  reporterID,
		TargetID:    targetID,
		Reason:      reason,
		Description: description,
		ReportedAt:  time.Now(),
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return err
	}

	if err := s.escalator.Evaluate(ctx, targetID); err != nil {
		s.logger.Error("Report recorded but escalation failed",
			zap.Int64("targetID", targetID),
			zap.Error(err))
	}

	return nil
}
