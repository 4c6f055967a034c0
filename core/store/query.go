package store

import (
	"cmp"
	"slices"

	"entity-store/core/utils"
)

type queryKind int

const (
	queryNone queryKind = iota
	queryPredicate
	queryScalar
	queryInvalid
)

func classify(q any) (queryKind, Record) {
	if q == nil {
		return queryNone, nil
	}
	switch t := q.(type) {
	case Record:
		return queryPredicate, t
	case map[string]any:
		return queryPredicate, Record(t)
	}
	if utils.IsScalar(q) {
		return queryScalar, nil
	}
	return queryInvalid, nil
}

// matches reports whether every pair of pred equals the record's value.
// A key missing from the record never matches.
func matches(r Record, pred Record) bool {
	for k, want := range pred {
		got, ok := r[k]
		if !ok || !utils.Equal(got, want) {
			return false
		}
	}
	return true
}

// Find returns one record of typ:
//   - query nil: nil,
//   - predicate (Record or map[string]any): the first match in insertion order,
//   - scalar (string or number): the record stored under that id.
//
// Any other query fails with ErrInvalidQuery. A miss returns nil, nil.
func (e *Engine) Find(typ string, query any) (Record, error) {
	if _, err := e.registry.Lookup(typ); err != nil {
		return nil, err
	}
	kind, pred := classify(query)

	e.mu.RLock()
	defer e.mu.RUnlock()
	t := e.tables[typ]

	switch kind {
	case queryNone:
		return nil, nil
	case queryScalar:
		r, _ := t.get(Key(query))
		return r.Clone(), nil
	case queryPredicate:
		var found Record
		t.each(func(_ string, r Record) bool {
			if matches(r, pred) {
				found = r
				return false
			}
			return true
		})
		return found.Clone(), nil
	default:
		return nil, invalidQuery("find", query)
	}
}

// FindAll returns the records of typ matching query (nil for all), ordered by
// the type's orderBy or by insertion order. An empty table yields an empty
// slice. Queries other than nil or a predicate fail with ErrInvalidQuery.
func (e *Engine) FindAll(typ string, query any) ([]Record, error) {
	entry, err := e.registry.Lookup(typ)
	if err != nil {
		return nil, err
	}
	kind, pred := classify(query)
	if kind != queryNone && kind != queryPredicate {
		return nil, invalidQuery("findAll", query)
	}

	e.mu.RLock()
	results := make([]Record, 0, e.tables[typ].len())
	e.tables[typ].each(func(_ string, r Record) bool {
		if kind == queryNone || matches(r, pred) {
			results = append(results, r.Clone())
		}
		return true
	})
	e.mu.RUnlock()

	attr, reverse := entry.Order()
	if attr == "" {
		return results, nil
	}
	return orderBy(results, attr, reverse), nil
}

// orderBy sorts ascending by the lowercased string form of attr, stable on
// ties, then reverses the whole slice when reverse is set. This is not the
// same as a descending comparator: ties come out in reverse insertion order.
func orderBy(records []Record, attr string, reverse bool) []Record {
	type keyed struct {
		key string
		r   Record
	}
	items := make([]keyed, len(records))
	for i, r := range records {
		items[i] = keyed{key: utils.SortKey(r[attr]), r: r}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		return cmp.Compare(a.key, b.key)
	})
	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it.r
	}
	if reverse {
		slices.Reverse(out)
	}
	return out
}
