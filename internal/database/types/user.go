package types

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// User is the minimal account projection the trust subsystem needs.
// The full profile (diaries, follows, OAuth identities) belongs to the
// application layers outside this module.
type User struct {
	ID        int64     `bun:",pk,autoincrement"` // Unique numeric identifier
	Nickname  string    `bun:",notnull"`          // Display name
	Email     string    `bun:",notnull,unique"`   // Login email
	CreatedAt time.Time `bun:",notnull"`          // When the account was created
}
