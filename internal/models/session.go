package models

import "time"

// Session is the server-side browser session. The client only ever holds a
// signed token naming the ID; all mutable state lives in this row.
//
// SecurityIndex is the pending security-question index issued at the last
// challenge render. nil means no challenge is outstanding; a login attempt
// consumes it exactly once.
type Session struct {
	ID            string `gorm:"primaryKey;size:64"` // UUID
	Username      string `gorm:"size:64;index"`
	LoggedIn      bool   `gorm:"not null"`
	SecurityIndex *int
	ExpiresAt     time.Time `gorm:"index;not null"`
	Revoked       bool      `gorm:"index;not null"`
	CreatedAt     time.Time
}
