package database

import (
	"strconv"
	"strings"
)

// Dialect captures the differences between the supported engines: driver
// name, placeholder style and the native types behind the migration tokens.
type Dialect struct {
	Name      string
	Driver    string
	numbered  bool
	forUpdate string
	types     *strings.Replacer
}

// SQLite stores money and JSON as TEXT so decimal values never pass through a
// binary float.
var SQLite = Dialect{
	Name:   "sqlite",
	Driver: "sqlite",
	types: strings.NewReplacer(
		"%MONEY%", "TEXT",
		"%TIME%", "DATETIME",
		"%JSON%", "TEXT",
	),
}

// Postgres uses native NUMERIC, JSONB and TIMESTAMPTZ columns.
var Postgres = Dialect{
	Name:      "postgres",
	Driver:    "postgres",
	numbered:  true,
	forUpdate: " FOR UPDATE",
	types: strings.NewReplacer(
		"%MONEY%", "NUMERIC(10, 2)",
		"%TIME%", "TIMESTAMPTZ",
		"%JSON%", "JSONB",
	),
}

// DialectFor picks the dialect for a connection string. postgres:// and
// postgresql:// URLs and key=value DSNs with a host select Postgres; anything
// else is treated as a SQLite path or file: URI.
func DialectFor(dsn string) Dialect {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres
	case strings.Contains(dsn, "host=") && strings.Contains(dsn, "dbname="):
		return Postgres
	default:
		return SQLite
	}
}

// Rebind rewrites ? placeholders to $1, $2, ... for dialects that need
// numbered parameters. Placeholders inside single-quoted literals are kept.
func (d Dialect) Rebind(query string) string {
	if !d.numbered || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// DDL substitutes the dialect's native types into a migration statement.
func (d Dialect) DDL(stmt string) string {
	return d.types.Replace(stmt)
}

// ForUpdate returns the row-locking suffix for SELECTs inside a transaction.
// SQLite runs on a single connection and needs none.
func (d Dialect) ForUpdate() string {
	return d.forUpdate
}
