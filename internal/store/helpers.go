package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nguyenlanh282/poscake-skill/internal/database"
	"github.com/nguyenlanh282/poscake-skill/internal/domain"
	"github.com/nguyenlanh282/poscake-skill/internal/schema"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// model resolves engine-reported table and column names to entity and field
// names for error reporting.
var model = schema.POS()

// now returns the current UTC time at the precision both engines keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func newID() string {
	return uuid.NewString()
}

// money formats a monetary value for storage. Both engines receive the fixed
// two-place text form so SQLite keeps it exactly and Postgres parses it into
// NUMERIC without a float in between.
func money(d decimal.Decimal) string {
	return domain.Money(d).StringFixed(domain.MoneyScale)
}

func nullMoney(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return money(*d)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func decPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	d := nd.Decimal
	return &d
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// classify maps a driver error to the domain error types. entity names the
// entity being written and is used when the engine does not name the table.
func classify(err error, entity string) error {
	if err == nil {
		return nil
	}
	if c, ok := database.ParseConstraint(err); ok {
		ent, field := resolveConstraint(c, entity)
		switch c.Kind {
		case database.ConstraintUnique:
			return &domain.UniqueConstraintViolation{Entity: ent, Field: field, Err: err}
		case database.ConstraintForeignKey:
			return &domain.ForeignKeyViolation{Entity: ent, Field: field, Err: err}
		case database.ConstraintCheck:
			return &domain.ValidationError{Entity: ent, Field: field, Reason: "violates " + c.Name}
		}
	}
	if database.IsConnectivity(err) {
		return &domain.ConnectivityError{Err: err}
	}
	return err
}

func resolveConstraint(c database.Constraint, entity string) (string, string) {
	table, column := c.Table, c.Column
	if table == "" && c.Name != "" {
		// Named constraints are <table>_<column>_<kind>; take the longest
		// table prefix so order_items wins over orders.
		for _, e := range model.Entities {
			if strings.HasPrefix(c.Name, e.Table+"_") && len(e.Table) > len(table) {
				table = e.Table
			}
		}
		if table != "" {
			column = strings.TrimPrefix(c.Name, table+"_")
			for _, suffix := range []string{"_check", "_key", "_fkey"} {
				column = strings.TrimSuffix(column, suffix)
			}
		}
	}
	if table == "" {
		return entity, column
	}
	return model.Resolve(table, column)
}

// exists reports whether a row with the given id is present in table.
func exists(ctx context.Context, q database.Querier, table, id string) (bool, error) {
	var n int
	//nolint:gosec // table names come from constants in this package
	err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ?`, table), id).Scan(&n)
	if err != nil {
		return false, classify(err, "")
	}
	return n > 0, nil
}

// requireRef returns a ForeignKeyViolation when id does not name a row in
// table. SQLite reports foreign key failures without naming the column, so
// references are checked before writing.
func requireRef(ctx context.Context, q database.Querier, table, id, entity, field string) error {
	ok, err := exists(ctx, q, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ForeignKeyViolation{
			Entity: entity,
			Field:  field,
			Err:    fmt.Errorf("%s %q: %w", table, id, ErrNotFound),
		}
	}
	return nil
}

// countRefs counts rows in table whose column equals id.
func countRefs(ctx context.Context, q database.Querier, table, column, id string) (int, error) {
	var n int
	//nolint:gosec // table and column names come from constants in this package
	err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, table, column), id).Scan(&n)
	if err != nil {
		return 0, classify(err, "")
	}
	return n, nil
}

// restrict returns a ForeignKeyViolation when rows in table still reference
// id through column.
func restrict(ctx context.Context, q database.Querier, table, column, id string) error {
	n, err := countRefs(ctx, q, table, column, id)
	if err != nil {
		return err
	}
	if n > 0 {
		entity, field := model.Resolve(table, column)
		return &domain.ForeignKeyViolation{
			Entity: entity,
			Field:  field,
			Err:    fmt.Errorf("%d %s rows reference %q", n, table, id),
		}
	}
	return nil
}

// notFound maps sql.ErrNoRows to ErrNotFound and classifies anything else.
func notFound(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return classify(err, entity)
}

// deref turns an optional field into a driver argument.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
