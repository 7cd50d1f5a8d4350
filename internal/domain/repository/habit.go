package repository

import (
	"context"

	"github.com/polkiloo/habittracker/internal/domain/model"
)

// HabitRepository persists habits. Every method is scoped to ownerID: a habit
// belonging to another owner behaves exactly like a missing one.
type HabitRepository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Habit, error)
	Create(ctx context.Context, ownerID int64, name string) (*model.Habit, error)
	Rename(ctx context.Context, ownerID, habitID int64, name string) (*model.Habit, error)
	Delete(ctx context.Context, ownerID, habitID int64) error
}
