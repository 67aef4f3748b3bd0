package types

import (
	"errors"
	"time"

	"github.com/ourlog/ourlog/internal/database/types/enum"
)

var (
	ErrSelfReportNotAllowed = errors.New("users cannot report themselves")
	ErrReportAlreadyExists  = errors.New("report already exists for this reporter, target and reason")
	ErrInvalidReportReason  = errors.New("invalid report reason")
	ErrDescriptionTooLong   = errors.New("report description too long")
)

// MaxDescriptionLength bounds the free-text description of a report,
// matching the storage column width.
const MaxDescriptionLength = 255

// Report records one user reporting another. At most one report may
// exist per (reporter, target, reason); the unique index on those
// columns is the real guarantee, application checks are a fast path.
// Reports are append-only and only ever read by the threshold count.
type Report struct {
	ID          int64             `bun:",pk,autoincrement"` // Unique numeric identifier
	ReporterID  int64             `bun:",notnull"`          // User who filed the report
	TargetID    int64             `bun:",notnull"`          // User being reported
	Reason      enum.ReportReason `bun:",notnull"`          // Why the target was reported
	Description string            `bun:",notnull"`          // Free-text context from the reporter
	ReportedAt  time.Time         `bun:",notnull"`          // Server-assigned filing time
}
