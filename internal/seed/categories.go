package seed

import (
	"context"
	"fmt"

	"github.com/nguyenlanh282/poscake-skill/internal/domain"
	"github.com/nguyenlanh282/poscake-skill/internal/store"
)

type categoryDef struct {
	name string
	slug string
}

var defaultCategories = []categoryDef{
	{name: "Beverages", slug: "beverages"},
	{name: "Food", slug: "food"},
	{name: "Snacks", slug: "snacks"},
	{name: "Desserts", slug: "desserts"},
}

// Categories ensures the default categories exist and returns their ids keyed
// by slug, whether found or created.
func Categories(ctx context.Context, s *store.Store, res *Result) (map[string]string, error) {
	ids := make(map[string]string, len(defaultCategories))
	for i, cd := range defaultCategories {
		c, err := findOrCreate(res, "Category",
			func() (*domain.Category, error) { return s.Categories.FindBySlug(ctx, cd.slug) },
			func() (*domain.Category, error) {
				return s.Categories.Create(ctx, &domain.Category{Name: cd.name, Slug: cd.slug, DisplayOrder: i})
			},
		)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", cd.slug, err)
		}
		ids[cd.slug] = c.ID
	}
	return ids, nil
}
