package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// User is a staff or admin account. Users are soft-disabled through IsActive
// and never hard-deleted.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks the fields a caller supplies on create.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return invalid("User", "email", "%q is not an email address", u.Email)
	}
	if strings.TrimSpace(u.Name) == "" {
		return invalid("User", "name", "is required")
	}
	if u.PasswordHash == "" {
		return invalid("User", "password", "hash is required")
	}
	if u.Role == "" {
		u.Role = RoleStaff
	}
	if _, err := ParseRole(string(u.Role)); err != nil {
		return err
	}
	return nil
}

// Category is a node of the catalog taxonomy. The tree is stored as a parent
// reference only; children are derived by indexing on ParentID.
type Category struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	ParentID     *string `json:"parentId,omitempty"`
	DisplayOrder int     `json:"order"`
}

// Validate checks the fields a caller supplies on create.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("Category", "name", "is required")
	}
	if !validSlug(c.Slug) {
		return invalid("Category", "slug", "%q must be lowercase letters, digits and dashes", c.Slug)
	}
	if c.ParentID != nil && *c.ParentID == c.ID && c.ID != "" {
		return invalid("Category", "parentId", "a category cannot be its own parent")
	}
	return nil
}

func validSlug(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

// Product is a sellable item. A product owns its variants and its inventory
// record.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	SKU         string           `json:"sku"`
	Barcode     *string          `json:"barcode,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  string           `json:"categoryId"`
	Price       decimal.Decimal  `json:"price"`
	CostPrice   *decimal.Decimal `json:"costPrice,omitempty"`
	Images      []string         `json:"images"`
	IsActive    bool             `json:"isActive"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Validate checks the fields a caller supplies on create or update.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("Product", "name", "is required")
	}
	if strings.TrimSpace(p.SKU) == "" {
		return invalid("Product", "sku", "is required")
	}
	if p.Barcode != nil && strings.TrimSpace(*p.Barcode) == "" {
		return invalid("Product", "barcode", "must be absent or non-empty")
	}
	if p.CategoryID == "" {
		return invalid("Product", "categoryId", "is required")
	}
	if err := checkMoney("Product", "price", p.Price); err != nil {
		return err
	}
	if p.CostPrice != nil {
		if err := checkMoney("Product", "costPrice", *p.CostPrice); err != nil {
			return err
		}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

// ProductVariant is a sellable sub-item of a Product, such as a size.
type ProductVariant struct {
	ID         string            `json:"id"`
	ProductID  string            `json:"productId"`
	Name       string            `json:"name"`
	SKU        string            `json:"sku"`
	Price      decimal.Decimal   `json:"price"`
	Attributes map[string]string `json:"attributes"`
	IsActive   bool              `json:"isActive"`
}

// Validate checks the fields a caller supplies on create.
func (v *ProductVariant) Validate() error {
	if v.ProductID == "" {
		return invalid("ProductVariant", "productId", "is required")
	}
	if strings.TrimSpace(v.Name) == "" {
		return invalid("ProductVariant", "name", "is required")
	}
	if strings.TrimSpace(v.SKU) == "" {
		return invalid("ProductVariant", "sku", "is required")
	}
	if v.Attributes == nil {
		v.Attributes = map[string]string{}
	}
	return checkMoney("ProductVariant", "price", v.Price)
}
