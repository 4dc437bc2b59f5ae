package store_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenlanh282/poscake-skill/internal/domain"
	"github.com/nguyenlanh282/poscake-skill/internal/store"
)

type orderFixture struct {
	s        *store.Store
	user     *domain.User
	latte    *domain.Product
	brownie  *domain.Product
	customer *domain.Customer
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	s := setupStore(t)
	u := createUser(t, s, "cashier@poscake.local")
	bev := createCategory(t, s, "beverages", nil)
	des := createCategory(t, s, "desserts", nil)
	latte := createProduct(t, s, bev.ID, "BEV-003", 50000)
	brownie := createProduct(t, s, des.ID, "DES-001", 35000)
	stockProduct(t, s, latte.ID, u.ID, 20)
	stockProduct(t, s, brownie.ID, u.ID, 2)
	c, err := s.Customers.Create(context.Background(), &domain.Customer{Name: "Sample Customer", Phone: ptr("0901234567")})
	require.NoError(t, err)
	return &orderFixture{s: s, user: u, latte: latte, brownie: brownie, customer: c}
}

func TestOrderCreateComputesTotals(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o, err := f.s.Orders.Create(ctx, store.OrderInput{
		CustomerID: &f.customer.ID,
		Lines: []store.OrderLine{
			{ProductID: f.latte.ID, Quantity: 2, Discount: decimal.NewFromInt(5000)},
			{ProductID: f.brownie.ID, Quantity: 1},
		},
		Discount:      decimal.NewFromInt(10000),
		Tax:           decimal.RequireFromString("8000.50"),
		PaymentMethod: ptr("CASH"),
		CreatedBy:     f.user.ID,
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`), o.OrderNumber)
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Equal(t, domain.PaymentUnpaid, o.PaymentStatus)
	assert.Equal(t, "130000.00", o.Subtotal.StringFixed(2))
	assert.Equal(t, "128000.50", o.Total.StringFixed(2))

	got, err := f.s.Orders.FindByNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	require.NoError(t, got.CheckTotals())
	assert.True(t, got.Total.Equal(o.Total))
	require.NotNil(t, got.PaymentMethod)
	assert.Equal(t, "CASH", *got.PaymentMethod)

	byCustomer, err := f.s.Orders.ListByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, o.ID, byCustomer[0].ID)
}

func TestOrderItemsSnapshotProduct(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o, err := f.s.Orders.Create(ctx, store.OrderInput{
		Lines:     []store.OrderLine{{ProductID: f.latte.ID, Quantity: 1}},
		CreatedBy: f.user.ID,
	})
	require.NoError(t, err)

	renamed := *f.latte
	renamed.Name = "Oat Latte"
	renamed.Price = decimal.NewFromInt(60000)
	_, err = f.s.Products.Update(ctx, &renamed)
	require.NoError(t, err)

	got, err := f.s.Orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "BEV-003", got.Items[0].Name)
	assert.Equal(t, "50000.00", got.Items[0].Price.StringFixed(2))
}

func TestOrderCreateRejects(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		in     store.OrderInput
		entity string
		field  string
		fk     bool
	}{
		{
			name:   "no items",
			in:     store.OrderInput{CreatedBy: f.user.ID},
			entity: "Order", field: "items",
		},
		{
			name:   "unknown creator",
			in:     store.OrderInput{CreatedBy: "ghost", Lines: []store.OrderLine{{ProductID: f.latte.ID, Quantity: 1}}},
			entity: "Order", field: "createdBy", fk: true,
		},
		{
			name:   "unknown customer",
			in:     store.OrderInput{CreatedBy: f.user.ID, CustomerID: ptr("ghost"), Lines: []store.OrderLine{{ProductID: f.latte.ID, Quantity: 1}}},
			entity: "Order", field: "customerId", fk: true,
		},
		{
			name:   "unknown product",
			in:     store.OrderInput{CreatedBy: f.user.ID, Lines: []store.OrderLine{{ProductID: "ghost", Quantity: 1}}},
			entity: "OrderItem", field: "productId", fk: true,
		},
		{
			name:   "zero quantity",
			in:     store.OrderInput{CreatedBy: f.user.ID, Lines: []store.OrderLine{{ProductID: f.latte.ID, Quantity: 0}}},
			entity: "OrderItem", field: "quantity",
		},
		{
			name: "discount above subtotal",
			in: store.OrderInput{CreatedBy: f.user.ID, Discount: decimal.NewFromInt(60000),
				Lines: []store.OrderLine{{ProductID: f.latte.ID, Quantity: 1}}},
			entity: "Order", field: "discount",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.s.Orders.Create(ctx, tt.in)
			require.Error(t, err)
			if tt.fk {
				var fk *domain.ForeignKeyViolation
				require.ErrorAs(t, err, &fk)
				assert.Equal(t, tt.entity, fk.Entity)
				assert.Equal(t, tt.field, fk.Field)
				return
			}
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.entity, ve.Entity)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	counts, err := f.s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts["Order"])
	assert.Zero(t, counts["OrderItem"])
}

func TestOrderCompleteConsumesStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o, err := f.s.Orders.Create(ctx, store.OrderInput{
		Lines:     []store.OrderLine{{ProductID: f.latte.ID, Quantity: 3}},
		CreatedBy: f.user.ID,
	})
	require.NoError(t, err)

	_, err = f.s.Orders.UpdateStatus(ctx, o.ID, domain.OrderProcessing, f.user.ID)
	require.NoError(t, err)
	done, err := f.s.Orders.UpdateStatus(ctx, o.ID, domain.OrderCompleted, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, done.Status)

	inv, err := f.s.Inventory.FindByProduct(ctx, f.latte.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, inv.Quantity)

	movements, err := f.s.Inventory.Movements(ctx, f.latte.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	out := movements[1]
	assert.Equal(t, domain.MovementOut, out.Type)
	assert.Equal(t, -3, out.Quantity)
	assert.Equal(t, store.ReferenceOrder, out.ReferenceType)
	assert.Equal(t, o.OrderNumber, out.ReferenceID)

	r, err := f.s.Inventory.Reconcile(ctx, f.latte.ID)
	require.NoError(t, err)
	assert.True(t, r.Balanced())

	// Terminal states do not move.
	_, err = f.s.Orders.UpdateStatus(ctx, o.ID, domain.OrderCancelled, f.user.ID)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
}

func TestOrderCompleteWithoutStockChangesNothing(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o, err := f.s.Orders.Create(ctx, store.OrderInput{
		Lines: []store.OrderLine{
			{ProductID: f.latte.ID, Quantity: 1},
			{ProductID: f.brownie.ID, Quantity: 5},
		},
		CreatedBy: f.user.ID,
	})
	require.NoError(t, err)
	_, err = f.s.Orders.UpdateStatus(ctx, o.ID, domain.OrderProcessing, f.user.ID)
	require.NoError(t, err)

	_, err = f.s.Orders.UpdateStatus(ctx, o.ID, domain.OrderCompleted, f.user.ID)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Inventory", ve.Entity)

	got, err := f.s.Orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderProcessing, got.Status)

	inv, err := f.s.Inventory.FindByProduct(ctx, f.latte.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, inv.Quantity)
	movements, err := f.s.Inventory.Movements(ctx, f.latte.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestOrderStatusTransitions(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o, err := f.s.Orders.Create(ctx, store.OrderInput{
		Lines:     []store.OrderLine{{ProductID: f.latte.ID, Quantity: 1}},
		CreatedBy: f.user.ID,
	})
	require.NoError(t, err)

	_, err = f.s.Orders.UpdateStatus(ctx, o.ID, "SHIPPED", f.user.ID)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	// Completion is only reachable from PROCESSING.
	_, err = f.s.Orders.UpdateStatus(ctx, o.ID, domain.OrderCompleted, f.user.ID)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)

	_, err = f.s.Orders.UpdateStatus(ctx, o.ID, domain.OrderCancelled, f.user.ID)
	require.NoError(t, err)
	_, err = f.s.Orders.UpdateStatus(ctx, o.ID, domain.OrderPending, f.user.ID)
	require.ErrorAs(t, err, &ve)

	_, err = f.s.Orders.UpdateStatus(ctx, "missing", domain.OrderCompleted, f.user.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOrderPaymentTransitions(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o, err := f.s.Orders.Create(ctx, store.OrderInput{
		Lines:     []store.OrderLine{{ProductID: f.latte.ID, Quantity: 1}},
		CreatedBy: f.user.ID,
	})
	require.NoError(t, err)

	for _, next := range []domain.PaymentStatus{domain.PaymentPartial, domain.PaymentPaid, domain.PaymentRefunded} {
		got, err := f.s.Orders.UpdatePaymentStatus(ctx, o.ID, next)
		require.NoError(t, err, next)
		assert.Equal(t, next, got.PaymentStatus)
	}

	_, err = f.s.Orders.UpdatePaymentStatus(ctx, o.ID, domain.PaymentPaid)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "paymentStatus", ve.Field)
}

func TestOrderDeleteCascadesItems(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	o, err := f.s.Orders.Create(ctx, store.OrderInput{
		Lines:     []store.OrderLine{{ProductID: f.latte.ID, Quantity: 1}, {ProductID: f.brownie.ID, Quantity: 1}},
		CreatedBy: f.user.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.s.Orders.Delete(ctx, o.ID))
	_, err = f.s.Orders.Get(ctx, o.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	counts, err := f.s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts["OrderItem"])

	// With the order gone the product can be deleted again.
	require.NoError(t, f.s.Products.Delete(ctx, f.brownie.ID))
}

func TestOrderRejectsInactiveProduct(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	off := *f.latte
	off.IsActive = false
	_, err := f.s.Products.Update(ctx, &off)
	require.NoError(t, err)

	_, err = f.s.Orders.Create(ctx, store.OrderInput{
		Lines:     []store.OrderLine{{ProductID: f.latte.ID, Quantity: 1}},
		CreatedBy: f.user.ID,
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "productId", ve.Field)
}
