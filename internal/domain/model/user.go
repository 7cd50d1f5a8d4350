package model

import "time"

// User represents a registered account owning habits.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
