package handlers

import (
	"context"

	"github.com/polkiloo/habittracker/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
	ParseToken(ctx context.Context, token string) (int64, error)
}

// HabitFacade encapsulates owner scoped habit operations exposed via HTTP.
type HabitFacade interface {
	Habits(ctx context.Context, ownerID int64) ([]model.Habit, error)
	CreateHabit(ctx context.Context, ownerID int64, name string) (*model.Habit, error)
	RenameHabit(ctx context.Context, ownerID, habitID int64, name string) (*model.Habit, error)
	DeleteHabit(ctx context.Context, ownerID, habitID int64) error
}

type HealthFacade interface {
	Health(ctx context.Context) error
}

// TrackerFacade aggregates the full set of operations used across handlers.
type TrackerFacade interface {
	AuthFacade
	HabitFacade
	HealthFacade
}
