package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nguyenlanh282/poscake-skill/internal/database"
	"github.com/nguyenlanh282/poscake-skill/internal/domain"
)

// ReferenceOrder is the movement reference type written when an order
// consumes stock.
const ReferenceOrder = "ORDER"

// OrderLine is one requested line of a new order. Name and price are taken
// from the product at checkout.
type OrderLine struct {
	ProductID string
	Quantity  int
	Discount  decimal.Decimal
}

// OrderInput is what a caller supplies to create an order. Totals are
// always computed.
type OrderInput struct {
	CustomerID    *string
	Lines         []OrderLine
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	PaymentMethod *string
	Note          *string
	CreatedBy     string
}

// OrderStore defines the interface for order persistence.
type OrderStore interface {
	Create(ctx context.Context, in OrderInput) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	FindByNumber(ctx context.Context, number string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, next domain.OrderStatus, actor string) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, next domain.PaymentStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// SQLOrderStore implements OrderStore.
type SQLOrderStore struct {
	db *database.DB
}

// NewSQLOrderStore creates a new SQLOrderStore.
func NewSQLOrderStore(db *database.DB) *SQLOrderStore {
	return &SQLOrderStore{db: db}
}

const (
	orderColumns = `id, order_number, customer_id, subtotal, discount, tax, total, status,
		payment_status, payment_method, note, created_at, created_by`
	orderItemColumns = `id, order_id, product_id, name, price, quantity, discount, total`
)

// newOrderNumber returns ORD-YYYYMMDD-XXXXXXXX for the order's creation day.
func newOrderNumber(o *domain.Order) string {
	return fmt.Sprintf("ORD-%s-%s", o.CreatedAt.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

// Create records a PENDING, UNPAID order. Each line snapshots the product's
// current name and price; the creator, customer and products must exist and
// the products must be active.
func (s *SQLOrderStore) Create(ctx context.Context, in OrderInput) (*domain.Order, error) {
	if in.CreatedBy == "" {
		return nil, &domain.ValidationError{Entity: "Order", Field: "createdBy", Reason: "is required"}
	}
	o := &domain.Order{
		ID:            newID(),
		CustomerID:    in.CustomerID,
		Discount:      domain.Money(in.Discount),
		Tax:           domain.Money(in.Tax),
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentUnpaid,
		PaymentMethod: in.PaymentMethod,
		Note:          in.Note,
		CreatedAt:     now(),
		CreatedBy:     in.CreatedBy,
	}
	o.OrderNumber = newOrderNumber(o)

	err := s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := requireRef(ctx, tx, "users", in.CreatedBy, "Order", "createdBy"); err != nil {
			return err
		}
		if in.CustomerID != nil {
			if err := requireRef(ctx, tx, "customers", *in.CustomerID, "Order", "customerId"); err != nil {
				return err
			}
		}

		for _, line := range in.Lines {
			p, err := scanProduct(tx.QueryRowContext(ctx,
				`SELECT `+productColumns+` FROM products WHERE id = ?`, line.ProductID))
			if errors.Is(err, ErrNotFound) {
				return &domain.ForeignKeyViolation{
					Entity: "OrderItem",
					Field:  "productId",
					Err:    fmt.Errorf("products %q: %w", line.ProductID, ErrNotFound),
				}
			}
			if err != nil {
				return err
			}
			if !p.IsActive {
				return &domain.ValidationError{Entity: "OrderItem", Field: "productId", Reason: fmt.Sprintf("product %s is inactive", p.SKU)}
			}
			o.Items = append(o.Items, domain.OrderItem{
				ID:        newID(),
				OrderID:   o.ID,
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  line.Quantity,
				Discount:  domain.Money(line.Discount),
			})
		}
		if err := o.ComputeTotals(); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.OrderNumber, deref(o.CustomerID), money(o.Subtotal), money(o.Discount), money(o.Tax),
			money(o.Total), string(o.Status), string(o.PaymentStatus), deref(o.PaymentMethod), deref(o.Note),
			o.CreatedAt, o.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", classify(err, "Order"))
		}
		for _, it := range o.Items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (`+orderItemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				it.ID, it.OrderID, it.ProductID, it.Name, money(it.Price), it.Quantity, money(it.Discount), money(it.Total),
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", classify(err, "OrderItem"))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Get retrieves an order and its items by ID.
func (s *SQLOrderStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.load(ctx, s.db, `id = ?`, id)
}

// FindByNumber retrieves an order and its items by order number.
func (s *SQLOrderStore) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return s.load(ctx, s.db, `order_number = ?`, number)
}

func (s *SQLOrderStore) load(ctx context.Context, q database.Querier, where string, arg any) (*domain.Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where, arg))
	if err != nil {
		return nil, err
	}
	if o.Items, err = loadItems(ctx, q, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func loadItems(ctx context.Context, q database.Querier, orderID string) ([]domain.OrderItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", classify(err, "OrderItem"))
	}
	defer func() { _ = rows.Close() }()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Price,
			&it.Quantity, &it.Discount, &it.Total); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return items, nil
}

// ListByCustomer returns a customer's orders, newest first, without items.
func (s *SQLOrderStore) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = ? ORDER BY created_at DESC, id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", classify(err, "Order"))
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// UpdateStatus moves an order forward through its lifecycle. Completing an
// order writes an OUT movement per item and decrements stock in the same
// transaction; if any product lacks stock nothing changes.
func (s *SQLOrderStore) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus, actor string) (*domain.Order, error) {
	if _, err := domain.ParseOrderStatus(string(next)); err != nil {
		return nil, err
	}
	var out *domain.Order
	err := s.db.InTx(ctx, func(tx *database.Tx) error {
		o, err := s.load(ctx, tx, `id = ?`+tx.Dialect.ForUpdate(), id)
		if err != nil {
			return err
		}
		if !o.Status.CanTransition(next) {
			return &domain.ValidationError{Entity: "Order", Field: "status", Reason: fmt.Sprintf("cannot move from %s to %s", o.Status, next)}
		}

		if next == domain.OrderCompleted {
			if actor == "" {
				actor = o.CreatedBy
			}
			for _, it := range o.Items {
				ref := Reference{Type: ReferenceOrder, ID: o.OrderNumber, CreatedBy: actor}
				if _, _, err := applyMovement(ctx, tx, it.ProductID, domain.MovementOut, -it.Quantity, ref); err != nil {
					return fmt.Errorf("consume stock for %s: %w", it.Name, err)
				}
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, string(next), id); err != nil {
			return fmt.Errorf("update order: %w", classify(err, "Order"))
		}
		o.Status = next
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePaymentStatus moves an order's payment state forward.
func (s *SQLOrderStore) UpdatePaymentStatus(ctx context.Context, id string, next domain.PaymentStatus) (*domain.Order, error) {
	if _, err := domain.ParsePaymentStatus(string(next)); err != nil {
		return nil, err
	}
	var out *domain.Order
	err := s.db.InTx(ctx, func(tx *database.Tx) error {
		o, err := s.load(ctx, tx, `id = ?`+tx.Dialect.ForUpdate(), id)
		if err != nil {
			return err
		}
		if !o.PaymentStatus.CanTransition(next) {
			return &domain.ValidationError{Entity: "Order", Field: "paymentStatus", Reason: fmt.Sprintf("cannot move from %s to %s", o.PaymentStatus, next)}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE orders SET payment_status = ? WHERE id = ?`, string(next), id); err != nil {
			return fmt.Errorf("update order: %w", classify(err, "Order"))
		}
		o.PaymentStatus = next
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an order together with its items.
func (s *SQLOrderStore) Delete(ctx context.Context, id string) error {
	return s.db.InTx(ctx, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
			return fmt.Errorf("delete order items: %w", classify(err, "OrderItem"))
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete order: %w", classify(err, "Order"))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func scanOrder(row scanner) (*domain.Order, error) {
	var o domain.Order
	var customer, method, note sql.NullString
	var status, payment string
	err := row.Scan(&o.ID, &o.OrderNumber, &customer, &o.Subtotal, &o.Discount, &o.Tax, &o.Total,
		&status, &payment, &method, &note, &o.CreatedAt, &o.CreatedBy)
	if err != nil {
		return nil, notFound(err, "Order")
	}
	o.CustomerID = strPtr(customer)
	o.PaymentMethod = strPtr(method)
	o.Note = strPtr(note)
	o.Status = domain.OrderStatus(status)
	o.PaymentStatus = domain.PaymentStatus(payment)
	return &o, nil
}
