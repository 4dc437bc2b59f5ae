package database

import (
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ConstraintKind classifies a constraint failure reported by the engine.
type ConstraintKind int

const (
	ConstraintUnique ConstraintKind = iota + 1
	ConstraintForeignKey
	ConstraintCheck
)

// Constraint describes a constraint failure as far as the engine reports it.
// SQLite does not name the column of a failed foreign key, so Table and
// Column may be empty.
type Constraint struct {
	Kind   ConstraintKind
	Table  string
	Column string
	Name   string
}

// ParseConstraint extracts constraint details from a driver error.
func ParseConstraint(err error) (Constraint, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return parsePostgres(pqErr)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return parseSQLite(liteErr.Code(), liteErr.Error())
	}
	// Fall back to message matching for wrapped or re-formatted errors.
	if err != nil && strings.Contains(err.Error(), "constraint failed") {
		return parseSQLite(0, err.Error())
	}
	return Constraint{}, false
}

func parsePostgres(e *pq.Error) (Constraint, bool) {
	c := Constraint{Table: e.Table, Column: e.Column, Name: e.Constraint}
	suffix := ""
	switch e.Code {
	case "23505":
		c.Kind, suffix = ConstraintUnique, "_key"
	case "23503":
		c.Kind, suffix = ConstraintForeignKey, "_fkey"
	case "23514":
		c.Kind, suffix = ConstraintCheck, "_check"
	default:
		return Constraint{}, false
	}
	// Default constraint names are <table>_<column>_<suffix>.
	if c.Column == "" && c.Table != "" && strings.HasPrefix(c.Name, c.Table+"_") {
		c.Column = strings.TrimSuffix(strings.TrimPrefix(c.Name, c.Table+"_"), suffix)
	}
	return c, true
}

func parseSQLite(code int, msg string) (Constraint, bool) {
	switch {
	case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || strings.Contains(msg, "UNIQUE constraint failed"):
		c := Constraint{Kind: ConstraintUnique}
		// "UNIQUE constraint failed: products.sku (2067)"
		if _, rest, ok := strings.Cut(msg, "UNIQUE constraint failed: "); ok {
			target, _, _ := strings.Cut(rest, " (")
			target, _, _ = strings.Cut(target, ",")
			c.Table, c.Column, _ = strings.Cut(strings.TrimSpace(target), ".")
		}
		return c, true
	case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY || strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return Constraint{Kind: ConstraintForeignKey}, true
	case code == sqlite3.SQLITE_CONSTRAINT_CHECK || strings.Contains(msg, "CHECK constraint failed"):
		c := Constraint{Kind: ConstraintCheck}
		if _, rest, ok := strings.Cut(msg, "CHECK constraint failed: "); ok {
			c.Name, _, _ = strings.Cut(rest, " (")
			c.Name = strings.TrimSpace(c.Name)
		}
		return c, true
	}
	return Constraint{}, false
}

// IsConnectivity reports whether err means the engine could not be reached.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08: connection exception.
		return strings.HasPrefix(string(pqErr.Code), "08")
	}
	return false
}
