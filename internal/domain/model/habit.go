package model

import "time"

// Habit is a named routine tracked by exactly one owner.
type Habit struct {
	ID        int64
	OwnerID   int64
	Name      string
	CreatedAt time.Time
}
