package domain

import "time"

// DefaultLowStockThreshold is used when an Inventory is created without one.
const DefaultLowStockThreshold = 10

// Inventory is the stock level of exactly one Product.
type Inventory struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"productId"`
	Quantity          int       `json:"quantity"`
	ReservedQty       int       `json:"reservedQty"`
	LowStockThreshold int       `json:"lowStockThreshold"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Available is the on-hand quantity not held by reservations.
func (inv Inventory) Available() int {
	return inv.Quantity - inv.ReservedQty
}

// IsLowStock reports whether available stock is at or below the threshold.
func (inv Inventory) IsLowStock() bool {
	return inv.Available() <= inv.LowStockThreshold
}

// Validate checks the quantity bounds that must hold at all times.
func (inv Inventory) Validate() error {
	if inv.ProductID == "" {
		return invalid("Inventory", "productId", "is required")
	}
	if inv.Quantity < 0 {
		return invalid("Inventory", "quantity", "must not be negative, got %d", inv.Quantity)
	}
	if inv.ReservedQty < 0 {
		return invalid("Inventory", "reservedQty", "must not be negative, got %d", inv.ReservedQty)
	}
	if inv.ReservedQty > inv.Quantity {
		return invalid("Inventory", "reservedQty", "%d exceeds quantity %d", inv.ReservedQty, inv.Quantity)
	}
	if inv.LowStockThreshold < 0 {
		return invalid("Inventory", "lowStockThreshold", "must not be negative, got %d", inv.LowStockThreshold)
	}
	return nil
}

// Apply returns the inventory after a movement of delta units of type t.
// The receiver is not modified. A movement that would break a bound is
// rejected and nothing changes.
func (inv Inventory) Apply(t MovementType, delta int) (Inventory, error) {
	if err := checkDelta(t, delta); err != nil {
		return inv, err
	}
	next := inv
	if t.AffectsReserved() {
		next.ReservedQty += delta
	} else {
		next.Quantity += delta
	}
	if err := next.Validate(); err != nil {
		return inv, err
	}
	return next, nil
}

func checkDelta(t MovementType, delta int) error {
	if _, err := ParseMovementType(string(t)); err != nil {
		return err
	}
	switch t {
	case MovementIn, MovementReturn, MovementReserve:
		if delta <= 0 {
			return invalid("StockMovement", "quantity", "%s requires a positive quantity, got %d", t, delta)
		}
	case MovementOut, MovementRelease:
		if delta >= 0 {
			return invalid("StockMovement", "quantity", "%s requires a negative quantity, got %d", t, delta)
		}
	default:
		if delta == 0 {
			return invalid("StockMovement", "quantity", "must not be zero")
		}
	}
	return nil
}

// StockMovement is an immutable audit record of one inventory change.
// Quantity is the signed delta applied to the on-hand quantity, or to the
// reserved quantity for RESERVE and RELEASE.
type StockMovement struct {
	ID            string       `json:"id"`
	ProductID     string       `json:"productId"`
	Type          MovementType `json:"type"`
	Quantity      int          `json:"quantity"`
	ReferenceType string       `json:"referenceType"`
	ReferenceID   string       `json:"referenceId"`
	Note          *string      `json:"note,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	CreatedBy     string       `json:"createdBy"`
}

// Validate checks a movement before it is written.
func (m *StockMovement) Validate() error {
	if m.ProductID == "" {
		return invalid("StockMovement", "productId", "is required")
	}
	if m.ReferenceType == "" {
		return invalid("StockMovement", "referenceType", "is required")
	}
	if m.CreatedBy == "" {
		return invalid("StockMovement", "createdBy", "is required")
	}
	return checkDelta(m.Type, m.Quantity)
}

// OnHandDelta returns the movement's contribution to the on-hand quantity.
func (m StockMovement) OnHandDelta() int {
	if m.Type.AffectsReserved() {
		return 0
	}
	return m.Quantity
}
