package schema

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the model as a Prisma schema.
func (m *Model) Render(w io.Writer) error {
	var b strings.Builder

	b.WriteString("generator client {\n  provider = \"prisma-client-js\"\n}\n\n")
	fmt.Fprintf(&b, "datasource db {\n  provider = %q\n  url      = env(%q)\n}\n", m.Provider, m.EnvURL)

	for _, e := range m.Entities {
		b.WriteString("\n")
		if e.Section != "" {
			fmt.Fprintf(&b, "// ============ %s ============\n", e.Section)
		}
		renderEntity(&b, e)
	}

	for _, en := range m.Enums {
		fmt.Fprintf(&b, "\nenum %s {\n", en.Name)
		for _, v := range en.Values {
			fmt.Fprintf(&b, "  %s\n", v)
		}
		b.WriteString("}\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the rendered Prisma schema.
func (m *Model) String() string {
	var b strings.Builder
	_ = m.Render(&b)
	return b.String()
}

func renderEntity(b *strings.Builder, e Entity) {
	nameW, typeW := 0, 0
	for _, f := range e.Fields {
		nameW = max(nameW, len(f.Name))
		typeW = max(typeW, len(fieldType(f)))
	}

	fmt.Fprintf(b, "model %s {\n", e.Name)
	for _, f := range e.Fields {
		line := fmt.Sprintf("  %-*s %-*s %s", nameW, f.Name, typeW, fieldType(f), strings.Join(attributes(f), " "))
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, idx := range e.Indexes {
		fmt.Fprintf(b, "  @@index([%s])\n", strings.Join(idx, ", "))
	}
	fmt.Fprintf(b, "  @@map(%q)\n", e.Table)
	b.WriteString("}\n")
}

func fieldType(f Field) string {
	t := f.Type
	switch {
	case f.List:
		t += "[]"
	case f.Optional:
		t += "?"
	}
	return t
}

func attributes(f Field) []string {
	var attrs []string
	if f.ID {
		attrs = append(attrs, "@id")
	}
	if f.Unique {
		attrs = append(attrs, "@unique")
	}
	if f.Default != "" {
		attrs = append(attrs, "@default("+f.Default+")")
	}
	if f.UpdatedAt {
		attrs = append(attrs, "@updatedAt")
	}
	if r := f.Relation; r != nil {
		var parts []string
		if r.Name != "" {
			parts = append(parts, fmt.Sprintf("%q", r.Name))
		}
		if len(r.Fields) > 0 {
			parts = append(parts,
				"fields: ["+strings.Join(r.Fields, ", ")+"]",
				"references: ["+strings.Join(r.References, ", ")+"]",
			)
		}
		if r.OnDelete != "" {
			parts = append(parts, "onDelete: "+r.OnDelete)
		}
		attrs = append(attrs, "@relation("+strings.Join(parts, ", ")+")")
	}
	if f.DBType != "" {
		attrs = append(attrs, "@db."+f.DBType)
	}
	if f.Stored() && f.ColumnName() != f.Name {
		attrs = append(attrs, fmt.Sprintf("@map(%q)", f.ColumnName()))
	}
	return attrs
}
