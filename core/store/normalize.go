package store

import (
	"encoding/json"
	"fmt"

	"entity-store/core/schema"
)

// txn stages writes on copies of the committed tables.
type txn struct {
	registry *schema.Registry
	base     map[string]*table
	staged   map[string]*table
	changed  []string
	counts   map[string]int
}

func newTxn(registry *schema.Registry, base map[string]*table) *txn {
	return &txn{
		registry: registry,
		base:     base,
		staged:   make(map[string]*table),
		counts:   make(map[string]int),
	}
}

// current returns the table as seen by the transaction without copying it.
func (tx *txn) current(typ string) *table {
	if t, ok := tx.staged[typ]; ok {
		return t
	}
	return tx.base[typ]
}

// writable returns the staged copy of typ, creating it on first write.
func (tx *txn) writable(typ string) *table {
	if t, ok := tx.staged[typ]; ok {
		return t
	}
	t := tx.base[typ].clone()
	tx.staged[typ] = t
	return t
}

func (tx *txn) markChanged(typ string, records int) {
	if _, seen := tx.counts[typ]; !seen {
		tx.changed = append(tx.changed, typ)
	}
	tx.counts[typ] += records
}

func (tx *txn) commit(into map[string]*table) {
	for typ, t := range tx.staged {
		into[typ] = t
	}
}

// set is the recursive ingestion step for one payload of one type.
func (tx *txn) set(entry *schema.Entry, payload any) ([]Record, bool, error) {
	raw, err := decode(entry.Name, payload)
	if err != nil {
		return nil, false, err
	}
	items, wrapped, err := sequence(entry, raw)
	if err != nil {
		return nil, false, err
	}

	if len(items) == 0 {
		if tx.current(entry.Name).len() > 0 {
			tx.staged[entry.Name] = newTable()
			tx.markChanged(entry.Name, 0)
		}
		return []Record{}, wrapped, nil
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		r, ok := asRecord(item)
		if !ok {
			return nil, false, &PayloadError{
				Type:   entry.Name,
				Text:   fmt.Sprintf("%v", item),
				Reason: fmt.Sprintf("element %d is %T, not an object", i, item),
			}
		}
		if err := tx.upsert(entry, r); err != nil {
			return nil, false, err
		}
		records = append(records, r)
	}
	return records, wrapped, nil
}

// upsert stores r by id, then rewrites its relations in place.
func (tx *txn) upsert(entry *schema.Entry, r Record) error {
	id, err := identity(entry, r)
	if err != nil {
		return err
	}
	tx.writable(entry.Name).put(Key(id), r)
	if err := tx.resolve(entry, r); err != nil {
		return err
	}
	tx.markChanged(entry.Name, 1)
	return nil
}

// resolve flattens oneToMany then foreignKey relations of r, each kind in
// declaration order. Attributes are rewritten before recursing.
func (tx *txn) resolve(entry *schema.Entry, r Record) error {
	for _, rel := range entry.OneToMany {
		list, ok := asList(r[rel.Attribute])
		if !ok || len(list) == 0 {
			continue
		}
		related, err := tx.registry.Lookup(rel.Type)
		if err != nil {
			return err
		}
		ids := make([]any, len(list))
		var nested []Record
		for i, item := range list {
			child, isRecord := asRecord(item)
			if !isRecord {
				ids[i] = item
				continue
			}
			id, err := identity(related, child)
			if err != nil {
				return fmt.Errorf("%s.%s[%d]: %w", entry.Name, rel.Attribute, i, err)
			}
			ids[i] = id
			nested = append(nested, child)
		}
		if len(nested) == 0 {
			continue
		}
		r[rel.Attribute] = ids
		for _, child := range nested {
			if err := tx.upsert(related, child); err != nil {
				return fmt.Errorf("%s.%s: %w", entry.Name, rel.Attribute, err)
			}
		}
	}

	for _, rel := range entry.ForeignKey {
		child, ok := asRecord(r[rel.Attribute])
		if !ok {
			continue
		}
		related, err := tx.registry.Lookup(rel.Type)
		if err != nil {
			return err
		}
		id, err := identity(related, child)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", entry.Name, rel.Attribute, err)
		}
		r[rel.Attribute] = id
		if err := tx.upsert(related, child); err != nil {
			return fmt.Errorf("%s.%s: %w", entry.Name, rel.Attribute, err)
		}
	}
	return nil
}

// decode turns textual payloads into decoded JSON values and normalizes typed
// Go collections into []any / Record.
func decode(typ string, payload any) (any, error) {
	var text []byte
	switch p := payload.(type) {
	case string:
		text = []byte(p)
	case []byte:
		text = p
	case json.RawMessage:
		text = p
	case []Record:
		list, _ := asList(p)
		return list, nil
	case []map[string]any:
		list, _ := asList(p)
		return list, nil
	case map[string]any:
		return Record(p), nil
	default:
		return payload, nil
	}

	var out any
	if err := json.Unmarshal(text, &out); err != nil {
		return nil, &PayloadError{Type: typ, Text: string(text), Reason: "response is not valid JSON", Err: err}
	}
	if m, ok := out.(map[string]any); ok {
		return Record(m), nil
	}
	return out, nil
}

// sequence coerces a decoded payload into the list of items to store.
func sequence(entry *schema.Entry, raw any) ([]any, bool, error) {
	if list, ok := asList(raw); ok {
		return list, false, nil
	}
	if entry.Parse == nil {
		return []any{raw}, true, nil
	}

	input := raw
	if r, ok := raw.(Record); ok {
		input = map[string]any(r)
	}
	parsed, err := entry.Parse(input)
	if err != nil {
		return nil, false, &PayloadError{Type: entry.Name, Text: fmt.Sprintf("%v", raw), Reason: "parse hook failed", Err: err}
	}
	if list, ok := asList(parsed); ok {
		return list, false, nil
	}
	return []any{parsed}, false, nil
}

// ReduceRelated returns a copy of r whose relation attributes hold bare ids,
// the shape sent to the remote API. oneToMany records map to their ids and
// scalars pass through; a foreignKey record becomes its id, and a foreignKey
// holding a list takes its first element's id.
func ReduceRelated(entry *schema.Entry, registry *schema.Registry, r Record) Record {
	out := r.Clone()
	for _, rel := range entry.OneToMany {
		list, ok := asList(out[rel.Attribute])
		if !ok {
			continue
		}
		related, err := registry.Lookup(rel.Type)
		if err != nil {
			continue
		}
		ids := make([]any, len(list))
		for i, item := range list {
			ids[i] = reduceOne(related, item)
		}
		out[rel.Attribute] = ids
	}
	for _, rel := range entry.ForeignKey {
		v, present := out[rel.Attribute]
		if !present {
			continue
		}
		related, err := registry.Lookup(rel.Type)
		if err != nil {
			continue
		}
		if list, ok := asList(v); ok {
			if len(list) == 0 {
				out[rel.Attribute] = nil
				continue
			}
			v = list[0]
		}
		out[rel.Attribute] = reduceOne(related, v)
	}
	return out
}

func reduceOne(related *schema.Entry, v any) any {
	if child, ok := asRecord(v); ok {
		if id, ok := ID(related, child); ok {
			return id
		}
	}
	return v
}
