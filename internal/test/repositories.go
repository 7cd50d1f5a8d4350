package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/habittracker/internal/domain/errors"
	"github.com/polkiloo/habittracker/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[username]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Username: username, PasswordHash: passwordHash}
	s.Next++
	s.Users[username] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByUsername fetches user by username or returns not found.
func (s *UserRepositoryStub) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[username]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// HabitRepositoryStub keeps habits in insertion order and enforces ownership
// the way real storage does.
type HabitRepositoryStub struct {
	mu     sync.Mutex
	Habits []model.Habit
	Next   int64
	Err    error
}

// ListByOwner returns habits of the owner.
func (s *HabitRepositoryStub) ListByOwner(ctx context.Context, ownerID int64) ([]model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Habit
	for _, h := range s.Habits {
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out, nil
}

// Create appends a habit with the next identifier.
func (s *HabitRepositoryStub) Create(ctx context.Context, ownerID int64, name string) (*model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.Next++
	habit := model.Habit{ID: s.Next, OwnerID: ownerID, Name: name}
	s.Habits = append(s.Habits, habit)
	return &habit, nil
}

// Rename updates an owned habit or returns not found.
func (s *HabitRepositoryStub) Rename(ctx context.Context, ownerID, habitID int64, name string) (*model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for i := range s.Habits {
		if s.Habits[i].ID == habitID && s.Habits[i].OwnerID == ownerID {
			s.Habits[i].Name = name
			habit := s.Habits[i]
			return &habit, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Delete removes an owned habit or returns not found.
func (s *HabitRepositoryStub) Delete(ctx context.Context, ownerID, habitID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.Habits {
		if s.Habits[i].ID == habitID && s.Habits[i].OwnerID == ownerID {
			s.Habits = append(s.Habits[:i], s.Habits[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}
