package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenlanh282/poscake-skill/internal/domain"
	"github.com/nguyenlanh282/poscake-skill/internal/store"
)

func TestProductCreateAndFind(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	cat := createCategory(t, s, "beverages", nil)

	p, err := s.Products.Create(ctx, &domain.Product{
		Name:        "Espresso",
		SKU:         "BEV-001",
		Barcode:     ptr("8930000000011"),
		Description: ptr("Single shot"),
		CategoryID:  cat.ID,
		Price:       decimal.NewFromInt(35000),
		CostPrice:   ptr(decimal.RequireFromString("12000.5")),
		Images:      []string{"espresso.jpg"},
	})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.True(t, p.CreatedAt.Equal(p.UpdatedAt))

	got, err := s.Products.FindBySKU(ctx, "BEV-001")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(35000)), got.Price.String())
	require.NotNil(t, got.CostPrice)
	assert.Equal(t, "12000.50", got.CostPrice.StringFixed(2))
	assert.Equal(t, []string{"espresso.jpg"}, got.Images)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Single shot", *got.Description)

	byBarcode, err := s.Products.FindByBarcode(ctx, "8930000000011")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byBarcode.ID)

	// Money is stored in its exact two-place form.
	var raw string
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT price FROM products WHERE id = ?`, p.ID).Scan(&raw))
	assert.Equal(t, "35000.00", raw)
}

func TestProductDefaultsEmptyImages(t *testing.T) {
	s := setupStore(t)
	cat := createCategory(t, s, "snacks", nil)
	p := createProduct(t, s, cat.ID, "SNK-001", 25000)

	got, err := s.Products.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Images)
	assert.Empty(t, got.Images)
	assert.Nil(t, got.Barcode)
	assert.Nil(t, got.CostPrice)
}

func TestProductDuplicateSKU(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	cat := createCategory(t, s, "beverages", nil)

	// Two concurrent creates of the same SKU: exactly one wins.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Products.Create(ctx, &domain.Product{
				Name: "Espresso", SKU: "BEV-001", CategoryID: cat.ID, Price: decimal.NewFromInt(35000),
			})
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		var uv *domain.UniqueConstraintViolation
		switch {
		case err == nil:
			ok++
		case assert.ErrorAs(t, err, &uv):
			assert.Equal(t, "Product", uv.Entity)
			assert.Equal(t, "sku", uv.Field)
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, dup)

	list, err := s.Products.ListByCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProductBarcodeUniqueWhenPresent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	cat := createCategory(t, s, "food", nil)

	// Any number of products may have no barcode.
	createProduct(t, s, cat.ID, "FOOD-001", 55000)
	createProduct(t, s, cat.ID, "FOOD-002", 75000)

	_, err := s.Products.Create(ctx, &domain.Product{
		Name: "Salad", SKU: "FOOD-003", Barcode: ptr("111"), CategoryID: cat.ID, Price: decimal.NewFromInt(65000),
	})
	require.NoError(t, err)
	_, err = s.Products.Create(ctx, &domain.Product{
		Name: "Soup", SKU: "FOOD-004", Barcode: ptr("111"), CategoryID: cat.ID, Price: decimal.NewFromInt(45000),
	})
	var uv *domain.UniqueConstraintViolation
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, "barcode", uv.Field)
}

func TestProductUnknownCategory(t *testing.T) {
	s := setupStore(t)

	_, err := s.Products.Create(context.Background(), &domain.Product{
		Name: "Ghost", SKU: "X-1", CategoryID: "missing", Price: decimal.NewFromInt(1),
	})
	var fk *domain.ForeignKeyViolation
	require.ErrorAs(t, err, &fk)
	assert.Equal(t, "Product", fk.Entity)
	assert.Equal(t, "categoryId", fk.Field)
}

func TestProductRejectsBadMoney(t *testing.T) {
	s := setupStore(t)
	cat := createCategory(t, s, "food", nil)

	for _, price := range []string{"-1", "100000000", "1.005"} {
		_, err := s.Products.Create(context.Background(), &domain.Product{
			Name: "Bad", SKU: "BAD-" + price, CategoryID: cat.ID, Price: decimal.RequireFromString(price),
		})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, price)
		assert.Equal(t, "price", ve.Field)
	}
}

func TestProductUpdate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	cat := createCategory(t, s, "beverages", nil)
	other := createCategory(t, s, "specials", nil)
	p := createProduct(t, s, cat.ID, "BEV-003", 50000)

	changed := *p
	changed.SKU = "IGNORED"
	changed.Price = decimal.NewFromInt(52000)
	changed.CategoryID = other.ID
	changed.IsActive = false

	got, err := s.Products.Update(ctx, &changed)
	require.NoError(t, err)
	assert.Equal(t, "BEV-003", got.SKU)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))
	assert.True(t, got.CreatedAt.Equal(p.CreatedAt))

	reloaded, err := s.Products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "52000.00", reloaded.Price.StringFixed(2))
	assert.Equal(t, other.ID, reloaded.CategoryID)
	assert.False(t, reloaded.IsActive)

	missing := *p
	missing.ID = "missing"
	_, err = s.Products.Update(ctx, &missing)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProductDeleteCascades(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@poscake.local")
	cat := createCategory(t, s, "beverages", nil)
	p := createProduct(t, s, cat.ID, "BEV-002", 45000)
	stockProduct(t, s, p.ID, u.ID, 30)

	_, err := s.Variants.Create(ctx, &domain.ProductVariant{
		ProductID: p.ID, Name: "Large", SKU: "BEV-002-L", Price: decimal.NewFromInt(55000),
		Attributes: map[string]string{"size": "L"},
	})
	require.NoError(t, err)

	require.NoError(t, s.Products.Delete(ctx, p.ID))

	_, err = s.Products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Inventory.FindByProduct(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Variants.FindBySKU(ctx, "BEV-002-L")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The movement log is history and outlives the product.
	movements, err := s.Inventory.Movements(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestProductDeleteRestrictedByOrderItems(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	u := createUser(t, s, "a@poscake.local")
	cat := createCategory(t, s, "desserts", nil)
	p := createProduct(t, s, cat.ID, "DES-001", 35000)

	_, err := s.Orders.Create(ctx, store.OrderInput{
		Lines:     []store.OrderLine{{ProductID: p.ID, Quantity: 1}},
		CreatedBy: u.ID,
	})
	require.NoError(t, err)

	err = s.Products.Delete(ctx, p.ID)
	var fk *domain.ForeignKeyViolation
	require.ErrorAs(t, err, &fk)
	assert.Equal(t, "OrderItem", fk.Entity)
	assert.Equal(t, "productId", fk.Field)

	_, err = s.Products.Get(ctx, p.ID)
	assert.NoError(t, err)
}

func TestVariants(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	cat := createCategory(t, s, "beverages", nil)
	p := createProduct(t, s, cat.ID, "BEV-003", 50000)

	for _, size := range []string{"M", "L"} {
		_, err := s.Variants.Create(ctx, &domain.ProductVariant{
			ProductID: p.ID, Name: "Latte " + size, SKU: "BEV-003-" + size,
			Price: decimal.NewFromInt(50000), Attributes: map[string]string{"size": size},
		})
		require.NoError(t, err)
	}

	list, err := s.Variants.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "BEV-003-L", list[0].SKU)
	assert.Equal(t, map[string]string{"size": "L"}, list[0].Attributes)
	assert.True(t, list[0].IsActive)

	_, err = s.Variants.Create(ctx, &domain.ProductVariant{
		ProductID: p.ID, Name: "Dup", SKU: "BEV-003-M", Price: decimal.NewFromInt(1),
	})
	var uv *domain.UniqueConstraintViolation
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, "ProductVariant", uv.Entity)
	assert.Equal(t, "sku", uv.Field)

	_, err = s.Variants.Create(ctx, &domain.ProductVariant{
		ProductID: "missing", Name: "Orphan", SKU: "X", Price: decimal.NewFromInt(1),
	})
	var fk *domain.ForeignKeyViolation
	require.ErrorAs(t, err, &fk)
	assert.Equal(t, "productId", fk.Field)
}
