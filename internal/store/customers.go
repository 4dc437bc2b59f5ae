package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nguyenlanh282/poscake-skill/internal/database"
	"github.com/nguyenlanh282/poscake-skill/internal/domain"
)

// CustomerStore defines the interface for customer persistence.
type CustomerStore interface {
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	AddPoints(ctx context.Context, id string, points int) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

// SQLCustomerStore implements CustomerStore.
type SQLCustomerStore struct {
	db *database.DB
}

// NewSQLCustomerStore creates a new SQLCustomerStore.
func NewSQLCustomerStore(db *database.DB) *SQLCustomerStore {
	return &SQLCustomerStore{db: db}
}

const customerColumns = `id, name, phone, email, address, points, created_at`

// Create inserts a new customer. Phone, when present, must be unique.
func (s *SQLCustomerStore) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := *c
	out.ID = newID()
	out.CreatedAt = now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (`+customerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.Name, deref(out.Phone), deref(out.Email), deref(out.Address), out.Points, out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", classify(err, "Customer"))
	}
	return &out, nil
}

// Get retrieves a customer by ID.
func (s *SQLCustomerStore) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return scanCustomer(s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
}

// FindByPhone retrieves a customer by phone number.
func (s *SQLCustomerStore) FindByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	return scanCustomer(s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = ?`, phone))
}

// AddPoints credits loyalty points. Points never decrease, so points must be
// positive.
func (s *SQLCustomerStore) AddPoints(ctx context.Context, id string, points int) (*domain.Customer, error) {
	if points <= 0 {
		return nil, &domain.ValidationError{Entity: "Customer", Field: "points", Reason: fmt.Sprintf("credit must be positive, got %d", points)}
	}
	res, err := s.db.ExecContext(ctx, `UPDATE customers SET points = points + ? WHERE id = ?`, points, id)
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", classify(err, "Customer"))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a customer. Their orders are kept with the customer
// reference cleared.
func (s *SQLCustomerStore) Delete(ctx context.Context, id string) error {
	return s.db.InTx(ctx, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE orders SET customer_id = NULL WHERE customer_id = ?`, id); err != nil {
			return fmt.Errorf("detach orders: %w", classify(err, "Order"))
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete customer: %w", classify(err, "Customer"))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func scanCustomer(row scanner) (*domain.Customer, error) {
	var c domain.Customer
	var phone, email, address sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &phone, &email, &address, &c.Points, &c.CreatedAt); err != nil {
		return nil, notFound(err, "Customer")
	}
	c.Phone = strPtr(phone)
	c.Email = strPtr(email)
	c.Address = strPtr(address)
	return &c, nil
}
