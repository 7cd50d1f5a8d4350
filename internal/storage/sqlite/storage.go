package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	domainErrors "github.com/polkiloo/habittracker/internal/domain/errors"
	"github.com/polkiloo/habittracker/internal/domain/model"
	"github.com/polkiloo/habittracker/internal/domain/repository"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// connPragmas are applied by the driver to every new connection.
const connPragmas = "_pragma=foreign_keys(1)"

// Storage is a repository facade backed by an embedded SQLite file.
type Storage struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ repository.Store = (*Storage)(nil)

type userRepository struct {
	storage *Storage
}

type habitRepository struct {
	storage *Storage
}

// Open opens (or creates) the database at path and prepares the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Storage, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}

	db, err := sql.Open("sqlite", dataSourceName(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	storage := &Storage{db: db, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("sqlite storage ready", slog.String("path", path))
	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("close sqlite", slog.String("error", err.Error()))
		}
	}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Habits() repository.HabitRepository {
	return &habitRepository{storage: s}
}

// HealthCheck verifies the database handle is usable.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username VARCHAR(80) UNIQUE NOT NULL,
            password_hash VARCHAR(255) NOT NULL,
            created_at INTEGER NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS habits (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name VARCHAR(100) NOT NULL,
            user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            created_at INTEGER NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func dataSourceName(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + connPragmas
	}
	return path + "?" + connPragmas
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?) RETURNING id`
	u := model.User{Username: username, PasswordHash: passwordHash, CreatedAt: now()}
	err := r.storage.db.QueryRowContext(ctx, query, username, passwordHash, u.CreatedAt.UnixMilli()).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`
	return r.scanOne(ctx, query, username)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE id = ?`
	return r.scanOne(ctx, query, id)
}

func (r *userRepository) scanOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var (
		u       model.User
		created int64
	)
	err := r.storage.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	return &u, nil
}

// --- HabitRepository implementation ---

func (r *habitRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Habit, error) {
	const query = `SELECT id, user_id, name, created_at FROM habits WHERE user_id = ? ORDER BY id`
	rows, err := r.storage.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Habit, 0)
	for rows.Next() {
		var (
			h       model.Habit
			created int64
		)
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &created); err != nil {
			return nil, err
		}
		h.CreatedAt = time.UnixMilli(created).UTC()
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *habitRepository) Create(ctx context.Context, ownerID int64, name string) (*model.Habit, error) {
	const query = `INSERT INTO habits (name, user_id, created_at) VALUES (?, ?, ?) RETURNING id`
	h := model.Habit{OwnerID: ownerID, Name: name, CreatedAt: now()}
	if err := r.storage.db.QueryRowContext(ctx, query, name, ownerID, h.CreatedAt.UnixMilli()).Scan(&h.ID); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *habitRepository) Rename(ctx context.Context, ownerID, habitID int64, name string) (*model.Habit, error) {
	const query = `UPDATE habits SET name = ? WHERE id = ? AND user_id = ? RETURNING id, user_id, name, created_at`
	var (
		h       model.Habit
		created int64
	)
	err := r.storage.db.QueryRowContext(ctx, query, name, habitID, ownerID).Scan(&h.ID, &h.OwnerID, &h.Name, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	h.CreatedAt = time.UnixMilli(created).UTC()
	return &h, nil
}

func (r *habitRepository) Delete(ctx context.Context, ownerID, habitID int64) error {
	const query = `DELETE FROM habits WHERE id = ? AND user_id = ?`
	res, err := r.storage.db.ExecContext(ctx, query, habitID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
