package entities

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entity-store/core/cache"
	"entity-store/core/notify"
	"entity-store/core/store"

	"go.uber.org/zap"
)

// persistTimeout bounds one snapshot write triggered by a change event.
const persistTimeout = 30 * time.Second

// SetCache writes the JSON of FindAll(typ) to the cache.
func (c *Client) SetCache(ctx context.Context, typ string) error {
	if c.storage == nil {
		return ErrNoCache
	}
	records, err := c.engine.FindAll(typ, nil)
	if err != nil {
		return err
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", typ, err)
	}
	return c.storage.SetItem(ctx, cache.Key(c.prefix, typ), string(data))
}

// GetCache returns the cached snapshot of typ; ok is false when none exists.
func (c *Client) GetCache(ctx context.Context, typ string) ([]store.Record, bool, error) {
	if c.storage == nil {
		return nil, false, ErrNoCache
	}
	if _, err := c.registry.Lookup(typ); err != nil {
		return nil, false, err
	}
	value, ok, err := c.storage.GetItem(ctx, cache.Key(c.prefix, typ))
	if err != nil || !ok {
		return nil, false, err
	}
	var records []store.Record
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, false, &store.PayloadError{Type: typ, Text: value, Reason: "cached snapshot is not valid JSON", Err: err}
	}
	return records, true, nil
}

// LoadCache ingests every cached snapshot silently. Unreadable snapshots are
// logged and skipped; storage failures abort.
func (c *Client) LoadCache(ctx context.Context) error {
	if c.storage == nil {
		return ErrNoCache
	}
	for _, typ := range c.registry.Types() {
		key := cache.Key(c.prefix, typ)
		value, ok, err := c.storage.GetItem(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to load cache %s: %w", key, err)
		}
		if !ok {
			continue
		}
		res, err := c.engine.Set(typ, value, store.Silent())
		if err != nil {
			c.logger.Warn("Skipping unreadable cache snapshot", zap.String("key", key), zap.Error(err))
			continue
		}
		c.logger.Debug("Restored cache snapshot", zap.String("key", key), zap.Int("records", len(res.Records)))
	}
	return nil
}

// persist is the change handler writing snapshots.
func (c *Client) persist(e notify.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := c.SetCache(ctx, e.Type); err != nil {
		c.logger.Error("Failed to write cache snapshot", zap.String("type", e.Type), zap.Error(err))
	}
}
