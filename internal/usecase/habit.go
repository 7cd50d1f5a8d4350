package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/habittracker/internal/domain/errors"
	"github.com/polkiloo/habittracker/internal/domain/model"
	"github.com/polkiloo/habittracker/internal/domain/repository"
)

// HabitUseCase manages habits on behalf of an authenticated owner.
type HabitUseCase struct {
	habits repository.HabitRepository
}

// NewHabitUseCase constructs HabitUseCase.
func NewHabitUseCase(habits repository.HabitRepository) *HabitUseCase {
	return &HabitUseCase{habits: habits}
}

// List returns the owner's habits in creation order. Never nil.
func (u *HabitUseCase) List(ctx context.Context, ownerID int64) ([]model.Habit, error) {
	habits, err := u.habits.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if habits == nil {
		habits = []model.Habit{}
	}
	return habits, nil
}

// Create stores a new habit for the owner.
func (u *HabitUseCase) Create(ctx context.Context, ownerID int64, name string) (*model.Habit, error) {
	name, err := ValidateHabitName(name)
	if err != nil {
		return nil, err
	}
	return u.habits.Create(ctx, ownerID, name)
}

// Rename changes the name of an owned habit.
func (u *HabitUseCase) Rename(ctx context.Context, ownerID, habitID int64, name string) (*model.Habit, error) {
	if habitID <= 0 {
		return nil, domainErrors.ErrNotFound
	}
	name, err := ValidateHabitName(name)
	if err != nil {
		return nil, err
	}
	return u.habits.Rename(ctx, ownerID, habitID, name)
}

// Delete removes an owned habit.
func (u *HabitUseCase) Delete(ctx context.Context, ownerID, habitID int64) error {
	if habitID <= 0 {
		return domainErrors.ErrNotFound
	}
	return u.habits.Delete(ctx, ownerID, habitID)
}
