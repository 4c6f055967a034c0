package store

import (
	"entity-store/core/schema"
	"entity-store/core/utils"
)

// Record is a single entity: attribute name to value.
type Record map[string]any

// Clone returns a deep copy of the record's maps and slices.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return cloneMap(r)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return Record(cloneMap(t))
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// ID returns the record's identifier value for the given entry.
func ID(entry *schema.Entry, r Record) (any, bool) {
	v, ok := r[entry.IDAttribute]
	if !ok || !utils.IsScalar(v) {
		return nil, false
	}
	if s, isString := v.(string); isString && s == "" {
		return nil, false
	}
	return v, true
}

// Key returns the canonical table key of an id value.
func Key(id any) string {
	return utils.ToString(id)
}

func identity(entry *schema.Entry, r Record) (any, error) {
	id, ok := ID(entry, r)
	if !ok {
		return nil, &IdentityError{Type: entry.Name, Attribute: entry.IDAttribute}
	}
	return id, nil
}

func asRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, t != nil
	case map[string]any:
		return Record(t), t != nil
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []Record:
		out := make([]any, len(t))
		for i, r := range t {
			out[i] = r
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, r := range t {
			out[i] = r
		}
		return out, true
	default:
		return nil, false
	}
}
