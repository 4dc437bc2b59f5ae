// Package schema declares the canonical shape of the POS data model:
// entities, fields, relations, enums and constraints. The same declaration
// renders the Prisma artifact and maps storage errors back to entity fields.
package schema

import (
	"strings"
	"unicode"
)

// Scalar field types.
const (
	String   = "String"
	Int      = "Int"
	Boolean  = "Boolean"
	DateTime = "DateTime"
	Decimal  = "Decimal"
	JSON     = "Json"
)

// Delete actions for relations.
const (
	Cascade  = "Cascade"
	Restrict = "Restrict"
	SetNull  = "SetNull"
)

// Relation describes the foreign-key side of a relation field.
type Relation struct {
	Name       string   // disambiguates self relations, e.g. "CategoryTree"
	Fields     []string // local scalar fields
	References []string // fields on the target entity
	OnDelete   string
}

// Field is one entity attribute. Type is a scalar, an enum name or, for
// relation fields, an entity name.
type Field struct {
	Name      string
	Type      string
	Optional  bool
	List      bool
	ID        bool
	Unique    bool
	Default   string // Prisma default expression, e.g. "uuid()", "0", "STAFF"
	UpdatedAt bool
	DBType    string // native type, e.g. "Decimal(10, 2)"
	Column    string // physical column; derived from Name when empty
	Relation  *Relation
	Back      bool // reverse side of a relation, no column
}

// ColumnName is the physical column for the field.
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return SnakeCase(f.Name)
}

// Stored reports whether the field is backed by a column.
func (f Field) Stored() bool {
	return f.Relation == nil && !f.Back
}

// Entity is a model with its backing table.
type Entity struct {
	Name    string
	Table   string
	Section string // heading printed before the model in the artifact
	Fields  []Field
	Indexes [][]string
}

// Field returns the named field.
func (e Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldByColumn returns the stored field backed by column.
func (e Entity) FieldByColumn(column string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Stored() && f.ColumnName() == column {
			return f, true
		}
	}
	return Field{}, false
}

// UniqueFields returns the names of fields with a single-column unique
// constraint, excluding the id.
func (e Entity) UniqueFields() []string {
	var out []string
	for _, f := range e.Fields {
		if f.Unique {
			out = append(out, f.Name)
		}
	}
	return out
}

// Enum is a closed set of symbolic values.
type Enum struct {
	Name   string
	Values []string
}

// Model is the complete schema.
type Model struct {
	Provider string
	EnvURL   string
	Entities []Entity
	Enums    []Enum
}

// Entity returns the entity with the given name.
func (m *Model) Entity(name string) (Entity, bool) {
	for _, e := range m.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// EntityByTable returns the entity stored in table.
func (m *Model) EntityByTable(table string) (Entity, bool) {
	for _, e := range m.Entities {
		if e.Table == table {
			return e, true
		}
	}
	return Entity{}, false
}

// Enum returns the enum with the given name.
func (m *Model) Enum(name string) (Enum, bool) {
	for _, en := range m.Enums {
		if en.Name == name {
			return en, true
		}
	}
	return Enum{}, false
}

// Resolve maps a physical table and column to an entity and field name. When
// the column is unknown the column itself is returned as the field.
func (m *Model) Resolve(table, column string) (entity, field string) {
	e, ok := m.EntityByTable(table)
	if !ok {
		return table, column
	}
	if f, ok := e.FieldByColumn(column); ok {
		return e.Name, f.Name
	}
	return e.Name, column
}

// SnakeCase converts a camelCase identifier to snake_case.
func SnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
