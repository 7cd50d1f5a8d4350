package app

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/habittracker/internal/domain/errors"
	"github.com/polkiloo/habittracker/internal/domain/model"
	"github.com/polkiloo/habittracker/internal/metrics"
	pkgAuth "github.com/polkiloo/habittracker/internal/pkg/auth"
	"github.com/polkiloo/habittracker/internal/usecase"
)

// HealthChecker reports whether the storage backend is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// TrackerFacade is the single entry point the HTTP layer talks to.
type TrackerFacade struct {
	auth    *usecase.AuthUseCase
	habits  *usecase.HabitUseCase
	health  HealthChecker
	metrics *metrics.Metrics
}

func NewTrackerFacade(auth *usecase.AuthUseCase, habits *usecase.HabitUseCase, health HealthChecker, m *metrics.Metrics) *TrackerFacade {
	return &TrackerFacade{auth: auth, habits: habits, health: health, metrics: m}
}

func (f *TrackerFacade) Register(ctx context.Context, username, password string) (*model.User, error) {
	usr, err := f.auth.Register(ctx, username, password)
	f.metrics.Registration(resultOf(err))
	return usr, err
}

func (f *TrackerFacade) Authenticate(ctx context.Context, username, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, username, password)
	f.metrics.Login(resultOf(err))
	return token, err
}

func (f *TrackerFacade) ParseToken(ctx context.Context, token string) (int64, error) {
	return f.auth.ParseToken(ctx, token)
}

func (f *TrackerFacade) Habits(ctx context.Context, ownerID int64) ([]model.Habit, error) {
	habits, err := f.habits.List(ctx, ownerID)
	f.metrics.HabitOperation(metrics.OpList, resultOf(err))
	return habits, err
}

func (f *TrackerFacade) CreateHabit(ctx context.Context, ownerID int64, name string) (*model.Habit, error) {
	habit, err := f.habits.Create(ctx, ownerID, name)
	f.metrics.HabitOperation(metrics.OpCreate, resultOf(err))
	return habit, err
}

func (f *TrackerFacade) RenameHabit(ctx context.Context, ownerID, habitID int64, name string) (*model.Habit, error) {
	habit, err := f.habits.Rename(ctx, ownerID, habitID, name)
	f.metrics.HabitOperation(metrics.OpRename, resultOf(err))
	return habit, err
}

func (f *TrackerFacade) DeleteHabit(ctx context.Context, ownerID, habitID int64) error {
	err := f.habits.Delete(ctx, ownerID, habitID)
	f.metrics.HabitOperation(metrics.OpDelete, resultOf(err))
	return err
}

func (f *TrackerFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return metrics.ResultConflict
	case errors.Is(err, domainErrors.ErrInvalidInput),
		errors.Is(err, domainErrors.ErrInvalidCredentials),
		errors.Is(err, domainErrors.ErrNotFound),
		errors.Is(err, pkgAuth.ErrInvalidToken):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
