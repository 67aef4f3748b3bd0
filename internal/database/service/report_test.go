package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ourlog/ourlog/internal/database/service"
	"github.com/ourlog/ourlog/internal/database/types"
	"github.com/ourlog/ourlog/internal/database/types/enum"
	"github.com/ourlog/ourlog/internal/setup/config"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReportStore keeps reports in memory and lets tests pin the count
// the escalator sees.
type fakeReportStore struct {
	mu        sync.Mutex
	reports   []*types.Report
	count     int
	lastSince time.Time
}

func (f *fakeReportStore) Create(_ context.Context, report *types.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	report.ID = int64(len(f.reports) + 1)
	f.reports = append(f.reports, report)

	return nil
}

func (f *fakeReportStore) Exists(
	_ context.Context, reporterID, targetID int64, reason enum.ReportReason,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, report := range f.reports {
		if report.ReporterID == reporterID && report.TargetID == targetID && report.Reason == reason {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeReportStore) CountForTargetSince(
	_ context.Context, _ int64, since time.Time,
) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastSince = since

	return f.count, nil
}

type reportTestEnv struct {
	svc     *service.ReportService
	reports *fakeReportStore
	bans    *fakeBanStore
	banSvc  *service.BanService
	mr      *miniredis.Miniredis
	cleanup func()
}

func setupReportTest(t *testing.T, trustCfg *config.Trust, users ...int64) *reportTestEnv {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	userStore := newFakeUserStore(users...)
	reports := &fakeReportStore{}
	bans := &fakeBanStore{}

	banSvc := service.NewBan(bans, userStore, client, logger)
	escalation := service.NewEscalation(reports, banSvc, trustCfg, logger)
	svc := service.NewReport(reports, userStore, escalation, logger)

	return &reportTestEnv{
		svc:     svc,
		reports: reports,
		bans:    bans,
		banSvc:  banSvc,
		mr:      mr,
		cleanup: func() {
			client.Close()
			mr.Close()
			logger.Sync()
		},
	}
}

func TestFileReportValidation(t *testing.T) {
	t.Parallel()

	env := setupReportTest(t, &config.Trust{}, 1, 2)
	defer env.cleanup()

	ctx := t.Context()

	tests := []struct {
		name        string
		reporterID  int64
		targetID    int64
		reason      enum.ReportReason
		description string
		wantErr     error
	}{
		{
			name:       "unknown reason",
			reporterID: 1, targetID: 2,
			reason:  enum.ReportReason("RUDE"),
			wantErr: types.ErrInvalidReportReason,
		},
		{
			name:       "description too long",
			reporterID: 1, targetID: 2,
			reason:      enum.ReportReasonSpam,
			description: strings.Repeat("a", types.MaxDescriptionLength+1),
			wantErr:     types.ErrDescriptionTooLong,
		},
		{
			name:       "self report",
			reporterID: 1, targetID: 1,
			reason:  enum.ReportReasonSpam,
			wantErr: types.ErrSelfReportNotAllowed,
		},
		{
			name:       "unknown reporter",
			reporterID: 99, targetID: 2,
			reason:  enum.ReportReasonSpam,
			wantErr: types.ErrUserNotFound,
		},
		{
			name:       "unknown target",
			reporterID: 1, targetID: 99,
			reason:  enum.ReportReasonSpam,
			wantErr: types.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.svc.FileReport(ctx, tt.reporterID, tt.targetID, tt.reason, tt.description)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, env.reports.reports)
}

func TestFileReportDuplicate(t *testing.T) {
	t.Parallel()

	env := setupReportTest(t, &config.Trust{}, 1, 2)
	defer env.cleanup()

	ctx := t.Context()

	require.NoError(t, env.svc.FileReport(ctx, 1, 2, enum.ReportReasonSpam, "spam links"))

	err := env.svc.FileReport(ctx, 1, 2, enum.ReportReasonSpam, "still spamming")
	assert.ErrorIs(t, err, types.ErrReportAlreadyExists)
	assert.Len(t, env.reports.reports, 1)

	// Same pair with a different reason is a separate report
	require.NoError(t, env.svc.FileReport(ctx, 1, 2, enum.ReportReasonHarassment, ""))
	assert.Len(t, env.reports.reports, 2)
}

func TestFileReportBelowThreshold(t *testing.T) {
	t.Parallel()

	env := setupReportTest(t, &config.Trust{}, 1, 2)
	defer env.cleanup()

	ctx := t.Context()
	env.reports.count = 4

	require.NoError(t, env.svc.FileReport(ctx, 1, 2, enum.ReportReasonSpam, ""))

	banned, err := env.banSvc.IsUserBanned(ctx, 2)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestFileReportCrossesThreshold(t *testing.T) {
	t.Parallel()

	env := setupReportTest(t, &config.Trust{}, 1, 2)
	defer env.cleanup()

	ctx := t.Context()
	env.reports.count = 5

	require.NoError(t, env.svc.FileReport(ctx, 1, 2, enum.ReportReasonSpam, ""))

	// The ban takes effect before the call returns
	banned, err := env.banSvc.IsUserBanned(ctx, 2)
	require.NoError(t, err)
	assert.True(t, banned)

	record, err := env.bans.GetActive(ctx, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, enum.BanKindTemporary, record.Kind)
	assert.Equal(t, "report accumulation (5)", record.Reason)
	require.NotNil(t, record.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), *record.ExpiresAt, time.Minute)

	// The count window reaches back 30 days
	assert.WithinDuration(t, time.Now().Add(-30*24*time.Hour), env.reports.lastSince, time.Minute)
}

func TestFileReportAgainstBannedTarget(t *testing.T) {
	t.Parallel()

	env := setupReportTest(t, &config.Trust{}, 1, 2)
	defer env.cleanup()

	ctx := t.Context()
	env.reports.count = 6

	require.NoError(t, env.banSvc.BanUser(ctx, 2, "earlier escalation", 7*24*time.Hour))

	// Escalating an already banned target is absorbed, the report stands
	require.NoError(t, env.svc.FileReport(ctx, 1, 2, enum.ReportReasonSpam, ""))
	assert.Len(t, env.reports.reports, 1)
}

func TestFileReportEscalationFailureKeepsReport(t *testing.T) {
	t.Parallel()

	env := setupReportTest(t, &config.Trust{}, 1, 2)
	defer env.cleanup()

	ctx := t.Context()
	env.reports.count = 5
	env.bans.createErr = errors.New("connection reset")

	// A broken ban write is logged, the report is not rolled back
	require.NoError(t, env.svc.FileReport(ctx, 1, 2, enum.ReportReasonSpam, ""))
	assert.Len(t, env.reports.reports, 1)
}

func TestFileReportCustomTrustConfig(t *testing.T) {
	t.Parallel()

	env := setupReportTest(t, &config.Trust{
		ReportThreshold:  2,
		ReportWindowDays: 7,
		TempBanDays:      1,
	}, 1, 2)
	defer env.cleanup()

	ctx := t.Context()
	env.reports.count = 2

	require.NoError(t, env.svc.FileReport(ctx, 1, 2, enum.ReportReasonSpam, ""))

	record, err := env.bans.GetActive(ctx, 2, time.Now())
	require.NoError(t, err)
	require.NotNil(t, record.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *record.ExpiresAt, time.Minute)
	assert.WithinDuration(t, time.Now().Add(-7*24*time.Hour), env.reports.lastSince, time.Minute)
}

func TestEvaluateBelowThresholdDoesNothing(t *testing.T) {
	t.Parallel()

	env := setupReportTest(t, &config.Trust{}, 1, 2)
	defer env.cleanup()

	ctx := t.Context()
	env.reports.count = 4

	require.NoError(t, env.svc.FileReport(ctx, 1, 2, enum.ReportReasonSpam, ""))

	_, err := env.bans.GetActive(ctx, 2, time.Now())
	assert.ErrorIs(t, err, types.ErrBanNotFound)
}
