// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"
)

// User is an entry of the external user directory.
// The ledger only reads it to resolve usernames to uids.
type User struct {
	ID        string
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a new directory User.
func NewUser(id, username, email string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
