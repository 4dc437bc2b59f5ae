package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nguyenlanh282/poscake-skill/internal/database"
	"github.com/nguyenlanh282/poscake-skill/internal/domain"
)

// CategoryStore defines the interface for category persistence.
type CategoryStore interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Children(ctx context.Context, parentID string) ([]*domain.Category, error)
	SetParent(ctx context.Context, id string, parentID *string) error
	Delete(ctx context.Context, id string) error
}

// SQLCategoryStore implements CategoryStore.
type SQLCategoryStore struct {
	db *database.DB
}

// NewSQLCategoryStore creates a new SQLCategoryStore.
func NewSQLCategoryStore(db *database.DB) *SQLCategoryStore {
	return &SQLCategoryStore{db: db}
}

const categoryColumns = `id, name, slug, parent_id, display_order`

// Create inserts a new category. A ParentID must name an existing category.
func (s *SQLCategoryStore) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := *c
	out.ID = newID()

	err := s.db.InTx(ctx, func(tx *database.Tx) error {
		if out.ParentID != nil {
			if err := requireRef(ctx, tx, "categories", *out.ParentID, "Category", "parentId"); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?)`,
			out.ID, out.Name, out.Slug, deref(out.ParentID), out.DisplayOrder,
		)
		if err != nil {
			return fmt.Errorf("insert category: %w", classify(err, "Category"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get retrieves a category by ID.
func (s *SQLCategoryStore) Get(ctx context.Context, id string) (*domain.Category, error) {
	return scanCategory(s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
}

// FindBySlug retrieves a category by its unique slug.
func (s *SQLCategoryStore) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return scanCategory(s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug))
}

// List returns all categories ordered for display.
func (s *SQLCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	return s.query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY display_order, slug`)
}

// Children returns the direct children of a category.
func (s *SQLCategoryStore) Children(ctx context.Context, parentID string) ([]*domain.Category, error) {
	return s.query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE parent_id = ? ORDER BY display_order, slug`, parentID)
}

func (s *SQLCategoryStore) query(ctx context.Context, q string, args ...any) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", classify(err, "Category"))
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// SetParent moves a category under parentID, or to the root when parentID is
// nil. A move that would make the category its own ancestor is rejected.
func (s *SQLCategoryStore) SetParent(ctx context.Context, id string, parentID *string) error {
	return s.db.InTx(ctx, func(tx *database.Tx) error {
		if ok, err := exists(ctx, tx, "categories", id); err != nil {
			return err
		} else if !ok {
			return ErrNotFound
		}
		if parentID != nil {
			if err := requireRef(ctx, tx, "categories", *parentID, "Category", "parentId"); err != nil {
				return err
			}
			if err := checkAcyclic(ctx, tx, id, *parentID); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE categories SET parent_id = ? WHERE id = ?`, deref(parentID), id); err != nil {
			return fmt.Errorf("update category: %w", classify(err, "Category"))
		}
		return nil
	})
}

// checkAcyclic walks up from parentID and fails if it reaches id.
func checkAcyclic(ctx context.Context, q database.Querier, id, parentID string) error {
	seen := map[string]bool{}
	cur := parentID
	for {
		if cur == id {
			return &domain.ValidationError{Entity: "Category", Field: "parentId", Reason: "would create a cycle"}
		}
		if seen[cur] {
			// An existing cycle that does not involve id.
			return nil
		}
		seen[cur] = true

		var next sql.NullString
		err := q.QueryRowContext(ctx, `SELECT parent_id FROM categories WHERE id = ?`, cur).Scan(&next)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && !next.Valid) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("walk category tree: %w", classify(err, "Category"))
		}
		cur = next.String
	}
}

// Delete removes a category. It fails with a ForeignKeyViolation while the
// category still has children or products.
func (s *SQLCategoryStore) Delete(ctx context.Context, id string) error {
	return s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := restrict(ctx, tx, "categories", "parent_id", id); err != nil {
			return err
		}
		if err := restrict(ctx, tx, "products", "category_id", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete category: %w", classify(err, "Category"))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (*domain.Category, error) {
	var c domain.Category
	var parent sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &parent, &c.DisplayOrder); err != nil {
		return nil, notFound(err, "Category")
	}
	c.ParentID = strPtr(parent)
	return &c, nil
}
