package store_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenlanh282/poscake-skill/internal/domain"
	"github.com/nguyenlanh282/poscake-skill/internal/store"
)

func TestInventoryCreateLogsOpeningStock(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@poscake.local")
	cat := createCategory(t, s, "beverages", nil)
	p := createProduct(t, s, cat.ID, "BEV-001", 35000)

	inv := stockProduct(t, s, p.ID, u.ID, 42)
	assert.Equal(t, 42, inv.Quantity)
	assert.Zero(t, inv.ReservedQty)

	movements, err := s.Inventory.Movements(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.MovementIn, movements[0].Type)
	assert.Equal(t, 42, movements[0].Quantity)
	assert.Equal(t, "TEST", movements[0].ReferenceType)
	assert.Equal(t, u.ID, movements[0].CreatedBy)

	// One inventory per product.
	_, err = s.Inventory.Create(ctx, &domain.Inventory{ProductID: p.ID, Quantity: 1},
		store.Reference{Type: "TEST", CreatedBy: u.ID})
	var uv *domain.UniqueConstraintViolation
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, "Inventory", uv.Entity)
	assert.Equal(t, "productId", uv.Field)
}

func TestInventoryUnknownProduct(t *testing.T) {
	s := setupStore(t)

	_, err := s.Inventory.Create(context.Background(), &domain.Inventory{ProductID: "missing"},
		store.Reference{Type: "TEST", CreatedBy: "x"})
	var fk *domain.ForeignKeyViolation
	require.ErrorAs(t, err, &fk)
	assert.Equal(t, "Inventory", fk.Entity)
	assert.Equal(t, "productId", fk.Field)
}

func TestInventoryCreateRejectsReservedStock(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@poscake.local")
	cat := createCategory(t, s, "beverages", nil)
	p := createProduct(t, s, cat.ID, "BEV-001", 35000)

	_, err := s.Inventory.Create(ctx, &domain.Inventory{ProductID: p.ID, Quantity: 10, ReservedQty: 3},
		store.Reference{Type: "TEST", ID: "fixture", CreatedBy: u.ID})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Inventory", ve.Entity)
	assert.Equal(t, "reservedQty", ve.Field)

	_, err = s.Inventory.FindByProduct(ctx, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	movements, err := s.Inventory.Movements(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestInventoryApply(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@poscake.local")
	cat := createCategory(t, s, "snacks", nil)
	p := createProduct(t, s, cat.ID, "SNK-002", 20000)
	stockProduct(t, s, p.ID, u.ID, 10)
	ref := store.Reference{Type: "MANUAL", ID: "count-1", CreatedBy: u.ID, Note: ptr("shelf count")}

	inv, m, err := s.Inventory.Apply(ctx, p.ID, domain.MovementReserve, 4, ref)
	require.NoError(t, err)
	assert.Equal(t, 10, inv.Quantity)
	assert.Equal(t, 4, inv.ReservedQty)
	assert.Equal(t, 6, inv.Available())
	require.NotNil(t, m.Note)
	assert.Equal(t, "shelf count", *m.Note)

	// Cannot drop on-hand below what is reserved.
	_, _, err = s.Inventory.Apply(ctx, p.ID, domain.MovementOut, -7, ref)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	// A wrong sign is rejected before anything is written.
	_, _, err = s.Inventory.Apply(ctx, p.ID, domain.MovementIn, -1, ref)
	require.ErrorAs(t, err, &ve)

	inv, _, err = s.Inventory.Apply(ctx, p.ID, domain.MovementRelease, -4, ref)
	require.NoError(t, err)
	assert.Zero(t, inv.ReservedQty)

	inv, _, err = s.Inventory.Apply(ctx, p.ID, domain.MovementOut, -7, ref)
	require.NoError(t, err)
	assert.Equal(t, 3, inv.Quantity)

	stored, err := s.Inventory.FindByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Quantity)

	movements, err := s.Inventory.Movements(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 4)

	_, _, err = s.Inventory.Apply(ctx, "missing", domain.MovementIn, 1, ref)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// Random movement sequences never leave stock out of bounds, and the log
// always reconciles with the on-hand quantity.
func TestInventoryRandomSequencesReconcile(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@poscake.local")
	cat := createCategory(t, s, "food", nil)
	p := createProduct(t, s, cat.ID, "FOOD-001", 55000)
	stockProduct(t, s, p.ID, u.ID, 20)
	ref := store.Reference{Type: "TEST", ID: "random", CreatedBy: u.ID}

	rng := rand.New(rand.NewPCG(7, 11))
	for range 300 {
		mt := domain.MovementTypes[rng.IntN(len(domain.MovementTypes))]
		qty := 1 + rng.IntN(15)
		switch mt {
		case domain.MovementOut, domain.MovementRelease:
			qty = -qty
		case domain.MovementAdjustment:
			if rng.IntN(2) == 0 {
				qty = -qty
			}
		}
		// Rejected movements are expected; only the invariants matter.
		_, _, _ = s.Inventory.Apply(ctx, p.ID, mt, qty, ref)
	}

	inv, err := s.Inventory.FindByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, inv.Quantity, 0)
	assert.GreaterOrEqual(t, inv.ReservedQty, 0)
	assert.LessOrEqual(t, inv.ReservedQty, inv.Quantity)

	r, err := s.Inventory.Reconcile(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, r.Balanced(), "quantity %d, movements %d", r.Quantity, r.MovementSum)
}

func TestInventoryLowStock(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@poscake.local")
	cat := createCategory(t, s, "desserts", nil)
	low := createProduct(t, s, cat.ID, "DES-001", 35000)
	high := createProduct(t, s, cat.ID, "DES-002", 45000)
	stockProduct(t, s, low.ID, u.ID, 10)
	stockProduct(t, s, high.ID, u.ID, 50)

	list, err := s.Inventory.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, low.ID, list[0].ProductID)
	assert.True(t, list[0].IsLowStock())
}
