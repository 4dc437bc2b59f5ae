package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nguyenlanh282/poscake-skill/internal/database"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@localhost:5432/pos", "postgres"},
		{"postgresql://localhost/pos", "postgres"},
		{"host=localhost port=5432 dbname=pos sslmode=disable", "postgres"},
		{"poscake.db", "sqlite"},
		{"file:./dev.db?cache=shared", "sqlite"},
		{":memory:", "sqlite"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, database.DialectFor(tc.dsn).Name, tc.dsn)
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT id FROM products WHERE sku = ? AND name <> '?' AND price > ?`

	assert.Equal(t, q, database.SQLite.Rebind(q))
	assert.Equal(t,
		`SELECT id FROM products WHERE sku = $1 AND name <> '?' AND price > $2`,
		database.Postgres.Rebind(q))
}

func TestDDL(t *testing.T) {
	stmt := `price %MONEY% NOT NULL, created_at %TIME%, attributes %JSON%`

	assert.Equal(t, `price TEXT NOT NULL, created_at DATETIME, attributes TEXT`, database.SQLite.DDL(stmt))
	assert.Equal(t, `price NUMERIC(10, 2) NOT NULL, created_at TIMESTAMPTZ, attributes JSONB`, database.Postgres.DDL(stmt))
	assert.Empty(t, database.SQLite.ForUpdate())
	assert.Equal(t, " FOR UPDATE", database.Postgres.ForUpdate())
}
