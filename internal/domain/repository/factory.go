package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Habits() HabitRepository
}

// Store is a storage backend with its lifecycle.
type Store interface {
	Factory
	HealthCheck(ctx context.Context) error
	Close()
}
