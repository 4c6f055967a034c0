package entities

import (
	"context"
	"sync"

	"entity-store/core/schema"
	"entity-store/core/store"
	"entity-store/core/utils"

	"golang.org/x/sync/errgroup"
)

// Handle binds a record to the client that owns it.
type Handle struct {
	client *Client
	entry  *schema.Entry

	mu     sync.RWMutex
	record store.Record
}

// Handle wraps a copy of record of type typ.
func (c *Client) Handle(typ string, record map[string]any) (*Handle, error) {
	entry, err := c.registry.Lookup(typ)
	if err != nil {
		return nil, err
	}
	return &Handle{client: c, entry: entry, record: store.Record(record).Clone()}, nil
}

// Lookup returns a handle on the stored record of typ with the given id, or
// nil when it is not stored.
func (c *Client) Lookup(typ string, id any) (*Handle, error) {
	r, err := c.engine.Find(typ, id)
	if err != nil || r == nil {
		return nil, err
	}
	return c.Handle(typ, r)
}

// Type returns the handle's type name.
func (h *Handle) Type() string {
	return h.entry.Name
}

// Record returns a copy of the handle's current record.
func (h *Handle) Record() store.Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.record.Clone()
}

// ID returns the record's identifier.
func (h *Handle) ID() (any, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return store.ID(h.entry, h.record)
}

// Related resolves the relation attr. A oneToMany yields its records in
// list order, dropping ids that cannot be resolved; a foreignKey yields at
// most one record. Ids missing locally are fetched by id first, which also
// stores them.
func (h *Handle) Related(ctx context.Context, attr string) ([]store.Record, error) {
	h.mu.RLock()
	value := h.record[attr]
	h.mu.RUnlock()

	if relType, ok := h.entry.OneToMany.Lookup(attr); ok {
		list, _ := value.([]any)
		return h.resolve(ctx, relType, list)
	}
	if relType, ok := h.entry.ForeignKey.Lookup(attr); ok {
		if value == nil {
			return []store.Record{}, nil
		}
		return h.resolve(ctx, relType, []any{value})
	}
	return nil, unknownRelation(h.entry.Name, attr)
}

// RelatedOne resolves a foreignKey attribute to a single record or nil.
func (h *Handle) RelatedOne(ctx context.Context, attr string) (store.Record, error) {
	if _, ok := h.entry.ForeignKey.Lookup(attr); !ok {
		return nil, unknownRelation(h.entry.Name, attr)
	}
	records, err := h.Related(ctx, attr)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// AllRelated resolves every declared relation concurrently.
func (h *Handle) AllRelated(ctx context.Context) (map[string][]store.Record, error) {
	var attrs []string
	for _, rel := range h.entry.OneToMany {
		attrs = append(attrs, rel.Attribute)
	}
	for _, rel := range h.entry.ForeignKey {
		attrs = append(attrs, rel.Attribute)
	}

	results := make([][]store.Record, len(attrs))
	g, gctx := errgroup.WithContext(ctx)
	for i, attr := range attrs {
		g.Go(func() error {
			records, err := h.Related(gctx, attr)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]store.Record, len(attrs))
	for i, attr := range attrs {
		out[attr] = results[i]
	}
	return out, nil
}

func (h *Handle) resolve(ctx context.Context, relType string, values []any) ([]store.Record, error) {
	related, err := h.client.registry.Lookup(relType)
	if err != nil {
		return nil, err
	}
	out := make([]store.Record, 0, len(values))
	for _, v := range values {
		if nested, ok := v.(map[string]any); ok {
			out = append(out, store.Record(nested).Clone())
			continue
		}
		if nested, ok := v.(store.Record); ok {
			out = append(out, nested.Clone())
			continue
		}
		if !utils.IsScalar(v) {
			continue
		}
		r, err := h.client.engine.Find(relType, v)
		if err != nil {
			return nil, err
		}
		if r == nil {
			if _, err := h.client.Get(ctx, relType, map[string]any{related.IDAttribute: v}); err != nil {
				return nil, err
			}
			if r, err = h.client.engine.Find(relType, v); err != nil {
				return nil, err
			}
		}
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// Update merges patch onto the record, persists it with relations reduced
// to ids and adopts the server's version. The store is untouched on failure.
func (h *Handle) Update(ctx context.Context, patch map[string]any) error {
	merged := h.Record()
	for k, v := range patch {
		merged[k] = v
	}
	res, err := h.client.Update(ctx, h.entry.Name, store.ReduceRelated(h.entry, h.client.registry, merged))
	if err != nil {
		return err
	}
	h.adopt(res, merged)
	return nil
}

// Save creates the record when it has no id and updates it otherwise.
func (h *Handle) Save(ctx context.Context) error {
	if _, ok := h.ID(); ok {
		return h.Update(ctx, nil)
	}
	record := h.Record()
	res, err := h.client.Add(ctx, h.entry.Name, store.ReduceRelated(h.entry, h.client.registry, record))
	if err != nil {
		return err
	}
	h.adopt(res, record)
	return nil
}

func (h *Handle) adopt(res store.Result, fallback store.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r := res.First(); r != nil {
		h.record = r
		return
	}
	h.record = fallback
}
