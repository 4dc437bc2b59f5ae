package store

import (
	"context"
	"fmt"

	"github.com/nguyenlanh282/poscake-skill/internal/database"
	"github.com/nguyenlanh282/poscake-skill/internal/domain"
)

// UserStore defines the interface for user persistence. Users are never
// hard-deleted; SetActive disables them instead.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// SQLUserStore implements UserStore.
type SQLUserStore struct {
	db *database.DB
}

// NewSQLUserStore creates a new SQLUserStore.
func NewSQLUserStore(db *database.DB) *SQLUserStore {
	return &SQLUserStore{db: db}
}

const userColumns = `id, email, name, password_hash, role, is_active, created_at`

// Create inserts a new active user. u.PasswordHash must already be hashed.
func (s *SQLUserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	out := *u
	out.ID = newID()
	out.IsActive = true
	out.CreatedAt = now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.Email, out.Name, out.PasswordHash, string(out.Role), out.IsActive, out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", classify(err, "User"))
	}
	return &out, nil
}

// Get retrieves a user by ID.
func (s *SQLUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.findOne(ctx, `id = ?`, id)
}

// FindByEmail retrieves a user by its unique email.
func (s *SQLUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, `email = ?`, email)
}

func (s *SQLUserStore) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	var u domain.User
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "User")
	}
	u.Role = domain.Role(role)
	return &u, nil
}

// SetActive enables or disables a user.
func (s *SQLUserStore) SetActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("update user: %w", classify(err, "User"))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
