package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ourlog/ourlog/internal/database/types"
	"github.com/ourlog/ourlog/internal/setup/config"
	"go.uber.org/zap"
)

// Escalation defaults, used when the config leaves them unset.
const (
	defaultReportThreshold = 5
	defaultReportWindow    = 30 * 24 * time.Hour
	defaultTempBanDuration = 7 * 24 * time.Hour
)

// ReportCounter is the slice of report persistence the escalator needs.
type ReportCounter interface {
	CountForTargetSince(ctx context.Context, targetID int64, since time.Time) (int, error)
}

// BanIssuer issues bans on behalf of the escalator.
type BanIssuer interface {
	BanUser(ctx context.Context, userID int64, reason string, duration time.Duration) error
}

// EscalationService turns accumulated reports into bans: when the count
// of reports against a target within the rolling window crosses the
// threshold, a temporary ban is issued. Evaluation is idempotent - an
// already banned target is left alone.
type EscalationService struct {
	reports   ReportCounter
	enforcer  BanIssuer
	threshold int
	window    time.Duration
	banFor    time.Duration
	logger    *zap.Logger
}

// NewEscalation creates a new escalation service.
func NewEscalation(
	reports ReportCounter, enforcer BanIssuer, cfg *config.Trust, logger *zap.Logger,
) *EscalationService {
	threshold := defaultReportThreshold
	if cfg.ReportThreshold > 0 {
		threshold = cfg.ReportThreshold
	}

	window := defaultReportWindow
	if cfg.ReportWindowDays > 0 {
		window = time.Duration(cfg.ReportWindowDays) * 24 * time.Hour
	}

	banFor := defaultTempBanDuration
	if cfg.TempBanDays > 0 {
		banFor = time.Duration(cfg.TempBanDays) * 24 * time.Hour
	}

	return &EscalationService{
		reports:   reports,
		enforcer:  enforcer,
		threshold: threshold,
		window:    window,
		banFor:    banFor,
		logger:    logger.Named("escalation_service"),
	}
}

// Evaluate counts the recent reports against a target and issues a ban
// when the threshold is crossed. An already active ban is absorbed, so
// two reports crossing the threshold concurrently cannot double-ban.
func (s *EscalationService) Evaluate(ctx context.Context, targetID int64) error {
	since := time.Now().Add(-s.window)

	count, err := s.reports.CountForTargetSince(ctx, targetID, since)
	if err != nil {
		return fmt.Errorf("failed to count recent reports for target %d: %w", targetID, err)
	}

	if count < s.threshold {
		return nil
	}

	reason := fmt.Sprintf("report accumulation (%d)", count)

	err = s.enforcer.BanUser(ctx, targetID, reason, s.banFor)
	if err != nil {
		if errors.Is(err, types.ErrBanAlreadyExists) {
			s.logger.Debug("Target already banned, escalation skipped",
				zap.Int64("targetID", targetID),
				zap.Int("reportCount", count))

			return nil
		}

		return fmt.Errorf("failed to ban target %d: %w", targetID, err)
	}

	s.logger.Info("Escalated accumulated reports to ban",
		zap.Int64("targetID", targetID),
		zap.Int("reportCount", count))

	return nil
}
