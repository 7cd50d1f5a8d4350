package test

import (
	"context"

	"github.com/polkiloo/habittracker/internal/domain/model"
)

// HabitFacadeStub provides controllable behaviour for habit endpoints.
type HabitFacadeStub struct {
	HabitsFn func(context.Context, int64) ([]model.Habit, error)
	CreateFn func(context.Context, int64, string) (*model.Habit, error)
	RenameFn func(context.Context, int64, int64, string) (*model.Habit, error)
	DeleteFn func(context.Context, int64, int64) error
}

// Habits returns predefined habits for given owner.
func (s HabitFacadeStub) Habits(ctx context.Context, ownerID int64) ([]model.Habit, error) {
	if s.HabitsFn != nil {
		return s.HabitsFn(ctx, ownerID)
	}
	return []model.Habit{{ID: 1, OwnerID: ownerID, Name: "Read"}}, nil
}

// CreateHabit delegates to provided function or echoes the name back.
func (s HabitFacadeStub) CreateHabit(ctx context.Context, ownerID int64, name string) (*model.Habit, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, ownerID, name)
	}
	return &model.Habit{ID: 1, OwnerID: ownerID, Name: name}, nil
}

// RenameHabit delegates to provided function or echoes the new name back.
func (s HabitFacadeStub) RenameHabit(ctx context.Context, ownerID, habitID int64, name string) (*model.Habit, error) {
	if s.RenameFn != nil {
		return s.RenameFn(ctx, ownerID, habitID, name)
	}
	return &model.Habit{ID: habitID, OwnerID: ownerID, Name: name}, nil
}

// DeleteHabit executes configured delete handler.
func (s HabitFacadeStub) DeleteHabit(ctx context.Context, ownerID, habitID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, ownerID, habitID)
	}
	return nil
}
