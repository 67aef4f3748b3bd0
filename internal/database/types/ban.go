package types

import (
	"errors"
	"time"

	"github.com/ourlog/ourlog/internal/database/types/enum"
)

var (
	ErrBanAlreadyExists = errors.New("user already has an active ban")
	ErrBanNotFound      = errors.New("no active ban found for user")
)

// BanRecord is the authoritative record of a user suspension.
// ExpiresAt is nil for bans with no natural expiry; expiry is evaluated
// lazily at read time, there is no sweeper job. The exclusion constraint
// on (user_id, banned period) keeps at most one ban active per user.
type BanRecord struct {
	ID        int64        `bun:",pk,autoincrement"` // Unique numeric identifier
	UserID    int64        `bun:",notnull"`          // User the ban applies to
	Kind      enum.BanKind `bun:",notnull"`          // What kind of ban was issued
	Reason    string       `bun:",nullzero"`         // Why the ban was issued
	BannedAt  time.Time    `bun:",notnull"`          // When the ban was issued
	ExpiresAt *time.Time   `bun:",nullzero"`         // When the ban expires (nil for permanent)
}

// IsActive checks if the ban is in force at the given instant.
func (b *BanRecord) IsActive(now time.Time) bool {
	return b.ExpiresAt == nil || b.ExpiresAt.After(now)
}

// IsPermanent checks if the ban has no natural expiry.
func (b *BanRecord) IsPermanent() bool {
	return b.ExpiresAt == nil
}

// BanStatus is the compact projection of a BanRecord stored in the
// status cache. It is a denormalized, possibly-stale copy valid only for
// its cache entry's TTL; the ban record stays authoritative.
type BanStatus struct {
	BannedAt  time.Time  `json:"bannedAt"`            // When the ban was issued
	ExpiresAt *time.Time `json:"expiresAt,omitempty"` // When the ban expires (absent for permanent)
	Reason    string     `json:"reason"`              // Why the ban was issued
}

// StillBanned derives the ban state at the given instant. An absent
// expiry means the ban never lapses on its own.
func (s *BanStatus) StillBanned(now time.Time) bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}
