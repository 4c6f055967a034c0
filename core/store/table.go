package store

// table holds the records of one type keyed by id, in insertion order.
type table struct {
	order []string
	rows  map[string]Record
}

func newTable() *table {
	return &table{rows: make(map[string]Record)}
}

func (t *table) len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// clone copies the index; records are shared until replaced.
func (t *table) clone() *table {
	if t == nil {
		return newTable()
	}
	out := &table{
		order: append([]string(nil), t.order...),
		rows:  make(map[string]Record, len(t.rows)),
	}
	for k, v := range t.rows {
		out.rows[k] = v
	}
	return out
}

// put replaces the record stored under key, keeping its position.
func (t *table) put(key string, r Record) {
	if _, ok := t.rows[key]; !ok {
		t.order = append(t.order, key)
	}
	t.rows[key] = r
}

func (t *table) get(key string) (Record, bool) {
	if t == nil {
		return nil, false
	}
	r, ok := t.rows[key]
	return r, ok
}

func (t *table) remove(key string) bool {
	if _, ok := t.rows[key]; !ok {
		return false
	}
	delete(t.rows, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// each visits records in insertion order until fn returns false.
func (t *table) each(fn func(key string, r Record) bool) {
	if t == nil {
		return
	}
	for _, k := range t.order {
		if !fn(k, t.rows[k]) {
			return
		}
	}
}
