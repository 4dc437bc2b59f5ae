package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nguyenlanh282/poscake-skill/internal/database"
	"github.com/nguyenlanh282/poscake-skill/internal/domain"
)

// Reference identifies what caused a stock movement and who recorded it.
type Reference struct {
	Type      string
	ID        string
	CreatedBy string
	Note      *string
}

// Reconciliation compares an inventory's on-hand quantity with the sum of
// its movement log.
type Reconciliation struct {
	ProductID   string
	Quantity    int
	MovementSum int
}

// Balanced reports whether the log accounts for the on-hand quantity.
func (r Reconciliation) Balanced() bool {
	return r.Quantity == r.MovementSum
}

// InventoryStore defines the interface for inventory persistence. Every
// change to a stock level writes a StockMovement in the same transaction.
type InventoryStore interface {
	Create(ctx context.Context, inv *domain.Inventory, ref Reference) (*domain.Inventory, error)
	FindByProduct(ctx context.Context, productID string) (*domain.Inventory, error)
	Apply(ctx context.Context, productID string, t domain.MovementType, qty int, ref Reference) (*domain.Inventory, *domain.StockMovement, error)
	Movements(ctx context.Context, productID string) ([]*domain.StockMovement, error)
	Reconcile(ctx context.Context, productID string) (*Reconciliation, error)
	LowStock(ctx context.Context) ([]*domain.Inventory, error)
}

// SQLInventoryStore implements InventoryStore.
type SQLInventoryStore struct {
	db *database.DB
}

// NewSQLInventoryStore creates a new SQLInventoryStore.
func NewSQLInventoryStore(db *database.DB) *SQLInventoryStore {
	return &SQLInventoryStore{db: db}
}

const (
	inventoryColumns = `id, product_id, quantity, reserved_qty, low_stock_threshold, updated_at`
	movementColumns  = `id, product_id, type, quantity, reference_type, reference_id, note, created_at, created_by`
)

// Create inserts the inventory record of an existing product. Reservations
// only arise from movements, so a non-zero ReservedQty is rejected. A
// positive opening Quantity is logged as an IN movement under ref.
func (s *SQLInventoryStore) Create(ctx context.Context, inv *domain.Inventory, ref Reference) (*domain.Inventory, error) {
	if inv.ReservedQty != 0 {
		return nil, &domain.ValidationError{Entity: "Inventory", Field: "reservedQty", Reason: "must start at zero; reserve through a RESERVE movement"}
	}
	out := *inv
	out.ID = newID()
	out.UpdatedAt = now()
	if err := out.Validate(); err != nil {
		return nil, err
	}

	err := s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := requireRef(ctx, tx, "products", out.ProductID, "Inventory", "productId"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO inventories (`+inventoryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			out.ID, out.ProductID, out.Quantity, out.ReservedQty, out.LowStockThreshold, out.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert inventory: %w", classify(err, "Inventory"))
		}
		if out.Quantity > 0 {
			m := &domain.StockMovement{
				ProductID:     out.ProductID,
				Type:          domain.MovementIn,
				Quantity:      out.Quantity,
				ReferenceType: ref.Type,
				ReferenceID:   ref.ID,
				Note:          ref.Note,
				CreatedBy:     ref.CreatedBy,
			}
			if err := insertMovement(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByProduct retrieves the inventory of a product.
func (s *SQLInventoryStore) FindByProduct(ctx context.Context, productID string) (*domain.Inventory, error) {
	return scanInventory(s.db.QueryRowContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventories WHERE product_id = ?`, productID))
}

// Apply changes a product's stock by qty units of movement type t and logs
// the movement. A change that would break a quantity bound is rejected and
// nothing is written.
func (s *SQLInventoryStore) Apply(ctx context.Context, productID string, t domain.MovementType, qty int, ref Reference) (*domain.Inventory, *domain.StockMovement, error) {
	var inv *domain.Inventory
	var m *domain.StockMovement
	err := s.db.InTx(ctx, func(tx *database.Tx) error {
		var err error
		inv, m, err = applyMovement(ctx, tx, productID, t, qty, ref)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return inv, m, nil
}

func applyMovement(ctx context.Context, tx *database.Tx, productID string, t domain.MovementType, qty int, ref Reference) (*domain.Inventory, *domain.StockMovement, error) {
	cur, err := scanInventory(tx.QueryRowContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventories WHERE product_id = ?`+tx.Dialect.ForUpdate(), productID))
	if err != nil {
		return nil, nil, err
	}
	next, err := cur.Apply(t, qty)
	if err != nil {
		return nil, nil, err
	}
	next.UpdatedAt = now()

	m := &domain.StockMovement{
		ProductID:     productID,
		Type:          t,
		Quantity:      qty,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
		Note:          ref.Note,
		CreatedBy:     ref.CreatedBy,
	}
	if err := insertMovement(ctx, tx, m); err != nil {
		return nil, nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE inventories SET quantity = ?, reserved_qty = ?, updated_at = ? WHERE id = ?`,
		next.Quantity, next.ReservedQty, next.UpdatedAt, next.ID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("update inventory: %w", classify(err, "Inventory"))
	}
	return &next, m, nil
}

func insertMovement(ctx context.Context, q database.Querier, m *domain.StockMovement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.ID = newID()
	m.CreatedAt = now()
	_, err := q.ExecContext(ctx,
		`INSERT INTO stock_movements (`+movementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, string(m.Type), m.Quantity, m.ReferenceType, m.ReferenceID,
		deref(m.Note), m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", classify(err, "StockMovement"))
	}
	return nil
}

// Movements returns the movement log of a product, oldest first. The log
// outlives the product.
func (s *SQLInventoryStore) Movements(ctx context.Context, productID string) ([]*domain.StockMovement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movementColumns+` FROM stock_movements WHERE product_id = ? ORDER BY created_at, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", classify(err, "StockMovement"))
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		var typ string
		var note sql.NullString
		if err := rows.Scan(&m.ID, &m.ProductID, &typ, &m.Quantity, &m.ReferenceType, &m.ReferenceID,
			&note, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Type = domain.MovementType(typ)
		m.Note = strPtr(note)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// Reconcile sums the on-hand deltas of a product's movements and compares
// the result with its inventory quantity.
func (s *SQLInventoryStore) Reconcile(ctx context.Context, productID string) (*Reconciliation, error) {
	inv, err := s.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	movements, err := s.Movements(ctx, productID)
	if err != nil {
		return nil, err
	}
	r := &Reconciliation{ProductID: productID, Quantity: inv.Quantity}
	for _, m := range movements {
		r.MovementSum += m.OnHandDelta()
	}
	return r, nil
}

// LowStock returns inventories whose available quantity is at or below their
// threshold.
func (s *SQLInventoryStore) LowStock(ctx context.Context) ([]*domain.Inventory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventories
		 WHERE quantity - reserved_qty <= low_stock_threshold ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", classify(err, "Inventory"))
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func scanInventory(row scanner) (*domain.Inventory, error) {
	var inv domain.Inventory
	if err := row.Scan(&inv.ID, &inv.ProductID, &inv.Quantity, &inv.ReservedQty,
		&inv.LowStockThreshold, &inv.UpdatedAt); err != nil {
		return nil, notFound(err, "Inventory")
	}
	return &inv, nil
}
