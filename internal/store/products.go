package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nguyenlanh282/poscake-skill/internal/database"
	"github.com/nguyenlanh282/poscake-skill/internal/domain"
)

// ProductStore defines the interface for product persistence. A product owns
// its variants and inventory: deleting it deletes them.
type ProductStore interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// SQLProductStore implements ProductStore.
type SQLProductStore struct {
	db *database.DB
}

// NewSQLProductStore creates a new SQLProductStore.
func NewSQLProductStore(db *database.DB) *SQLProductStore {
	return &SQLProductStore{db: db}
}

const productColumns = `id, name, sku, barcode, description, category_id, price, cost_price, images, is_active, created_at, updated_at`

// Create inserts a new active product. CategoryID must name an existing
// category.
func (s *SQLProductStore) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := *p
	out.ID = newID()
	out.IsActive = true
	out.CreatedAt = now()
	out.UpdatedAt = out.CreatedAt
	out.Price = domain.Money(out.Price)

	images, err := encodeJSON(out.Images)
	if err != nil {
		return nil, fmt.Errorf("encode images: %w", err)
	}

	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := requireRef(ctx, tx, "categories", out.CategoryID, "Product", "categoryId"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			out.ID, out.Name, out.SKU, deref(out.Barcode), deref(out.Description), out.CategoryID,
			money(out.Price), nullMoney(out.CostPrice), images, out.IsActive, out.CreatedAt, out.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert product: %w", classify(err, "Product"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get retrieves a product by ID.
func (s *SQLProductStore) Get(ctx context.Context, id string) (*domain.Product, error) {
	return scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
}

// FindBySKU retrieves a product by its unique SKU.
func (s *SQLProductStore) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku))
}

// FindByBarcode retrieves a product by its unique barcode.
func (s *SQLProductStore) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE barcode = ?`, barcode))
}

// ListByCategory returns the products of one category ordered by SKU.
func (s *SQLProductStore) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE category_id = ? ORDER BY sku`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", classify(err, "Product"))
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// Update replaces the mutable fields of an existing product and bumps
// UpdatedAt. ID, SKU and CreatedAt are kept.
func (s *SQLProductStore) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	images, err := encodeJSON(p.Images)
	if err != nil {
		return nil, fmt.Errorf("encode images: %w", err)
	}

	var out *domain.Product
	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		cur, err := scanProduct(tx.QueryRowContext(ctx,
			`SELECT `+productColumns+` FROM products WHERE id = ?`+tx.Dialect.ForUpdate(), p.ID))
		if err != nil {
			return err
		}
		if err := requireRef(ctx, tx, "categories", p.CategoryID, "Product", "categoryId"); err != nil {
			return err
		}

		next := *p
		next.SKU = cur.SKU
		next.CreatedAt = cur.CreatedAt
		next.Price = domain.Money(next.Price)
		next.UpdatedAt = now()
		if !next.UpdatedAt.After(cur.UpdatedAt) {
			next.UpdatedAt = cur.UpdatedAt.Add(time.Microsecond)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE products SET name = ?, barcode = ?, description = ?, category_id = ?, price = ?,
			 cost_price = ?, images = ?, is_active = ?, updated_at = ? WHERE id = ?`,
			next.Name, deref(next.Barcode), deref(next.Description), next.CategoryID, money(next.Price),
			nullMoney(next.CostPrice), images, next.IsActive, next.UpdatedAt, next.ID,
		)
		if err != nil {
			return fmt.Errorf("update product: %w", classify(err, "Product"))
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a product together with its variants and inventory. It
// fails with a ForeignKeyViolation while order items reference the product.
// Stock movements are kept as history.
func (s *SQLProductStore) Delete(ctx context.Context, id string) error {
	return s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := restrict(ctx, tx, "order_items", "product_id", id); err != nil {
			return err
		}
		for _, q := range []string{
			`DELETE FROM product_variants WHERE product_id = ?`,
			`DELETE FROM inventories WHERE product_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("delete product children: %w", classify(err, "Product"))
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete product: %w", classify(err, "Product"))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func scanProduct(row scanner) (*domain.Product, error) {
	var p domain.Product
	var barcode, description sql.NullString
	var cost decimal.NullDecimal
	var images string
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &barcode, &description, &p.CategoryID,
		&p.Price, &cost, &images, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "Product")
	}
	p.Barcode = strPtr(barcode)
	p.Description = strPtr(description)
	p.CostPrice = decPtr(cost)
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

// VariantStore defines the interface for product variant persistence.
type VariantStore interface {
	Create(ctx context.Context, v *domain.ProductVariant) (*domain.ProductVariant, error)
	FindBySKU(ctx context.Context, sku string) (*domain.ProductVariant, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.ProductVariant, error)
}

// SQLVariantStore implements VariantStore.
type SQLVariantStore struct {
	db *database.DB
}

// NewSQLVariantStore creates a new SQLVariantStore.
func NewSQLVariantStore(db *database.DB) *SQLVariantStore {
	return &SQLVariantStore{db: db}
}

const variantColumns = `id, product_id, name, sku, price, attributes, is_active`

// Create inserts a new active variant of an existing product.
func (s *SQLVariantStore) Create(ctx context.Context, v *domain.ProductVariant) (*domain.ProductVariant, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	out := *v
	out.ID = newID()
	out.IsActive = true
	out.Price = domain.Money(out.Price)

	attrs, err := encodeJSON(out.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}

	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := requireRef(ctx, tx, "products", out.ProductID, "ProductVariant", "productId"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_variants (`+variantColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			out.ID, out.ProductID, out.Name, out.SKU, money(out.Price), attrs, out.IsActive,
		)
		if err != nil {
			return fmt.Errorf("insert variant: %w", classify(err, "ProductVariant"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindBySKU retrieves a variant by its unique SKU.
func (s *SQLVariantStore) FindBySKU(ctx context.Context, sku string) (*domain.ProductVariant, error) {
	return scanVariant(s.db.QueryRowContext(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE sku = ?`, sku))
}

// ListByProduct returns the variants of a product ordered by SKU.
func (s *SQLVariantStore) ListByProduct(ctx context.Context, productID string) ([]*domain.ProductVariant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+variantColumns+` FROM product_variants WHERE product_id = ? ORDER BY sku`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", classify(err, "ProductVariant"))
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.ProductVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func scanVariant(row scanner) (*domain.ProductVariant, error) {
	var v domain.ProductVariant
	var attrs string
	if err := row.Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.Price, &attrs, &v.IsActive); err != nil {
		return nil, notFound(err, "ProductVariant")
	}
	if err := json.Unmarshal([]byte(attrs), &v.Attributes); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	if v.Attributes == nil {
		v.Attributes = map[string]string{}
	}
	return &v, nil
}
