package seed

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/nguyenlanh282/poscake-skill/internal/domain"
	"github.com/nguyenlanh282/poscake-skill/internal/store"
)

// ReferenceSeed is the movement reference type of opening stock.
const ReferenceSeed = "SEED"

const (
	minOpeningStock   = 20
	openingStockRange = 100
)

type productDef struct {
	name     string
	sku      string
	price    int64 // VND
	category string
}

var defaultProducts = []productDef{
	{name: "Espresso", sku: "BEV-001", price: 35000, category: "beverages"},
	{name: "Cappuccino", sku: "BEV-002", price: 45000, category: "beverages"},
	{name: "Latte", sku: "BEV-003", price: 50000, category: "beverages"},
	{name: "Americano", sku: "BEV-004", price: 40000, category: "beverages"},
	{name: "Green Tea", sku: "BEV-005", price: 35000, category: "beverages"},
	{name: "Sandwich", sku: "FOOD-001", price: 55000, category: "food"},
	{name: "Pasta", sku: "FOOD-002", price: 75000, category: "food"},
	{name: "Salad", sku: "FOOD-003", price: 65000, category: "food"},
	{name: "Chips", sku: "SNK-001", price: 25000, category: "snacks"},
	{name: "Cookie", sku: "SNK-002", price: 20000, category: "snacks"},
	{name: "Brownie", sku: "DES-001", price: 35000, category: "desserts"},
	{name: "Cheesecake", sku: "DES-002", price: 45000, category: "desserts"},
}

// Products ensures every default product exists and has an inventory record.
// New inventories open with a random quantity in [20, 119], logged as an IN
// movement by adminID. Existing products and inventories are left as they
// are. It returns the number of products processed.
func Products(ctx context.Context, s *store.Store, categoryIDs map[string]string, adminID string, rng *rand.Rand, res *Result) (int, error) {
	for _, pd := range defaultProducts {
		categoryID, ok := categoryIDs[pd.category]
		if !ok {
			return 0, fmt.Errorf("product %s: category %q was not seeded", pd.sku, pd.category)
		}

		p, err := findOrCreate(res, "Product",
			func() (*domain.Product, error) { return s.Products.FindBySKU(ctx, pd.sku) },
			func() (*domain.Product, error) {
				return s.Products.Create(ctx, &domain.Product{
					Name:       pd.name,
					SKU:        pd.sku,
					CategoryID: categoryID,
					Price:      domain.MoneyFromInt(pd.price),
					Images:     []string{},
				})
			},
		)
		if err != nil {
			return 0, fmt.Errorf("product %s: %w", pd.sku, err)
		}

		_, err = findOrCreate(res, "Inventory",
			func() (*domain.Inventory, error) { return s.Inventory.FindByProduct(ctx, p.ID) },
			func() (*domain.Inventory, error) {
				return s.Inventory.Create(ctx, &domain.Inventory{
					ProductID:         p.ID,
					Quantity:          minOpeningStock + rng.IntN(openingStockRange),
					LowStockThreshold: domain.DefaultLowStockThreshold,
				}, store.Reference{Type: ReferenceSeed, ID: pd.sku, CreatedBy: adminID})
			},
		)
		if err != nil {
			return 0, fmt.Errorf("inventory %s: %w", pd.sku, err)
		}
	}
	return len(defaultProducts), nil
}
