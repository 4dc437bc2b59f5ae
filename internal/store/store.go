package store

import (
	"context"
	"fmt"

	"github.com/nguyenlanh282/poscake-skill/internal/database"
)

// Store holds all sub-stores used by the application.
type Store struct {
	DB         *database.DB
	Users      UserStore
	Categories CategoryStore
	Products   ProductStore
	Variants   VariantStore
	Inventory  InventoryStore
	Customers  CustomerStore
	Orders     OrderStore
}

// New creates a Store with all sub-stores initialized.
func New(db *database.DB) *Store {
	return &Store{
		DB:         db,
		Users:      NewSQLUserStore(db),
		Categories: NewSQLCategoryStore(db),
		Products:   NewSQLProductStore(db),
		Variants:   NewSQLVariantStore(db),
		Inventory:  NewSQLInventoryStore(db),
		Customers:  NewSQLCustomerStore(db),
		Orders:     NewSQLOrderStore(db),
	}
}

// Counts returns the number of rows in every entity table, keyed by entity
// name.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int, len(model.Entities))
	for _, e := range model.Entities {
		var n int
		//nolint:gosec // table names come from the schema model
		if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+e.Table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", e.Table, classify(err, e.Name))
		}
		out[e.Name] = n
	}
	return out, nil
}
