package schema

import (
	"errors"
	"fmt"
)

var scalars = map[string]bool{String: true, Int: true, Boolean: true, DateTime: true, Decimal: true, JSON: true}

var deleteActions = map[string]bool{Cascade: true, Restrict: true, SetNull: true}

// Validate checks the structural invariants of the model and returns every
// problem found.
func (m *Model) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	seenEntity := map[string]bool{}
	seenTable := map[string]bool{}
	for _, en := range m.Enums {
		if seenEntity[en.Name] {
			add("duplicate type %s", en.Name)
		}
		seenEntity[en.Name] = true
		if len(en.Values) == 0 {
			add("enum %s has no values", en.Name)
		}
	}

	for _, e := range m.Entities {
		if seenEntity[e.Name] {
			add("duplicate type %s", e.Name)
		}
		seenEntity[e.Name] = true
		if e.Table == "" || seenTable[e.Table] {
			add("%s: missing or duplicate table %q", e.Name, e.Table)
		}
		seenTable[e.Table] = true

		ids := 0
		seenField := map[string]bool{}
		for _, f := range e.Fields {
			if seenField[f.Name] {
				add("%s.%s: duplicate field", e.Name, f.Name)
			}
			seenField[f.Name] = true
			if f.ID {
				ids++
			}
			m.validateField(e, f, add)
		}
		if ids != 1 {
			add("%s: expected exactly one id field, found %d", e.Name, ids)
		}

		for _, idx := range e.Indexes {
			for _, name := range idx {
				if f, ok := e.Field(name); !ok || !f.Stored() {
					add("%s: index references unknown field %s", e.Name, name)
				}
			}
		}
	}

	return errors.Join(errs...)
}

func (m *Model) validateField(e Entity, f Field, add func(string, ...any)) {
	_, isEnum := m.Enum(f.Type)
	target, isEntity := m.Entity(f.Type)

	switch {
	case scalars[f.Type]:
		if f.Relation != nil || f.Back {
			add("%s.%s: scalar field cannot carry a relation", e.Name, f.Name)
		}
	case isEnum:
		if f.Default != "" {
			en, _ := m.Enum(f.Type)
			if !contains(en.Values, f.Default) {
				add("%s.%s: default %s is not a %s value", e.Name, f.Name, f.Default, f.Type)
			}
		}
	case isEntity:
		if f.Relation == nil && !f.Back {
			add("%s.%s: relation field needs a relation or back reference", e.Name, f.Name)
		}
		if r := f.Relation; r != nil && !f.Back {
			m.validateRelation(e, target, f, *r, add)
		}
	default:
		add("%s.%s: unknown type %s", e.Name, f.Name, f.Type)
	}

	if f.Unique && !f.Stored() {
		add("%s.%s: unique field must be stored", e.Name, f.Name)
	}
}

func (m *Model) validateRelation(e, target Entity, f Field, r Relation, add func(string, ...any)) {
	if len(r.Fields) == 0 || len(r.Fields) != len(r.References) {
		add("%s.%s: relation fields and references must pair up", e.Name, f.Name)
		return
	}
	if !deleteActions[r.OnDelete] {
		add("%s.%s: delete policy must be explicit, got %q", e.Name, f.Name, r.OnDelete)
	}
	for i, name := range r.Fields {
		local, ok := e.Field(name)
		if !ok || !local.Stored() {
			add("%s.%s: relation field %s is not a stored field", e.Name, f.Name, name)
			continue
		}
		if r.OnDelete == SetNull && !local.Optional {
			add("%s.%s: SetNull requires optional %s", e.Name, f.Name, name)
		}
		if _, ok := target.Field(r.References[i]); !ok {
			add("%s.%s: %s has no field %s", e.Name, f.Name, target.Name, r.References[i])
		}
	}
}

func contains(vs []string, v string) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}
