package store

import (
	"sync"

	"entity-store/core/schema"
	"entity-store/core/utils"

	"go.uber.org/zap"
)

// Changer receives the types whose table changed. notify.Notifier implements it.
type Changer interface {
	Changed(typ string)
}

// Recorder observes engine writes. metrics.Metrics implements it.
type Recorder interface {
	RecordIngest(typ string, records int)
	RecordRemove(typ string)
}

// Option configures an Engine.
type Option func(*Engine)

// WithChanger wires change notification.
func WithChanger(c Changer) Option {
	return func(e *Engine) {
		e.changer = c
	}
}

// WithRecorder wires write metrics.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// SetOption configures a single Set or Remove call.
type SetOption func(*setOptions)

type setOptions struct {
	silent bool
}

// Silent suppresses change notification for the call, nested types included.
func Silent() SetOption {
	return func(o *setOptions) {
		o.silent = true
	}
}

// Result is the outcome of a Set call.
type Result struct {
	Type    string
	Records []Record
	// Wrapped is true when the payload was a single object and the schema has
	// no parse hook; Value then returns the bare record.
	Wrapped bool
}

// Value returns the bare record for a wrapped single-object payload and the
// record slice otherwise.
func (r Result) Value() any {
	if r.Wrapped && len(r.Records) == 1 {
		return r.Records[0]
	}
	return r.Records
}

// First returns the first record or nil.
func (r Result) First() Record {
	if len(r.Records) == 0 {
		return nil
	}
	return r.Records[0]
}

// Engine owns the in-memory tables. Safe for concurrent use: writes are
// serialized, reads see committed state only.
type Engine struct {
	mu       sync.RWMutex
	registry *schema.Registry
	tables   map[string]*table
	changer  Changer
	recorder Recorder
	logger   *zap.Logger
}

// New creates an empty engine for the registry.
func New(registry *schema.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		tables:   make(map[string]*table),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the schema the engine was built with.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// Set ingests payload into typ. See the package documentation for the
// algorithm. On error no table is modified.
func (e *Engine) Set(typ string, payload any, opts ...SetOption) (Result, error) {
	o := applySetOptions(opts)
	entry, err := e.registry.Lookup(typ)
	if err != nil {
		return Result{}, err
	}

	e.mu.Lock()
	tx := newTxn(e.registry, e.tables)
	records, wrapped, err := tx.set(entry, payload)
	if err != nil {
		e.mu.Unlock()
		e.logger.Debug("Ingestion aborted", zap.String("type", typ), zap.Error(err))
		return Result{}, err
	}
	tx.commit(e.tables)
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	e.mu.Unlock()

	e.logger.Debug("Ingested records",
		zap.String("type", typ),
		zap.Int("records", len(records)),
		zap.Strings("changed", tx.changed),
		zap.Bool("silent", o.silent),
	)
	e.afterWrite(tx.changed, tx.counts, o)

	return Result{Type: typ, Records: out, Wrapped: wrapped}, nil
}

// Clear empties the table of typ, notifying when it held records.
func (e *Engine) Clear(typ string, opts ...SetOption) error {
	_, err := e.Set(typ, []any{}, opts...)
	return err
}

// Remove deletes the record identified by target, which is either a record
// carrying the identifier attribute or a scalar id. It reports whether a
// record was deleted. Referrers are not updated.
func (e *Engine) Remove(typ string, target any, opts ...SetOption) (bool, error) {
	o := applySetOptions(opts)
	entry, err := e.registry.Lookup(typ)
	if err != nil {
		return false, err
	}

	var id any
	if r, ok := asRecord(target); ok {
		if id, err = identity(entry, r); err != nil {
			return false, err
		}
	} else if utils.IsScalar(target) {
		id = target
	} else {
		return false, &IdentityError{Type: typ, Attribute: entry.IDAttribute}
	}

	e.mu.Lock()
	current := e.tables[typ]
	if _, ok := current.get(Key(id)); !ok {
		e.mu.Unlock()
		return false, nil
	}
	next := current.clone()
	next.remove(Key(id))
	e.tables[typ] = next
	e.mu.Unlock()

	e.logger.Debug("Removed record", zap.String("type", typ), zap.String("id", Key(id)))
	if e.recorder != nil {
		e.recorder.RecordRemove(typ)
	}
	if !o.silent && e.changer != nil {
		e.changer.Changed(typ)
	}
	return true, nil
}

// Len returns the number of records stored for typ.
func (e *Engine) Len(typ string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tables[typ].len()
}

// Snapshot returns a copy of every non-empty table keyed by type then id.
func (e *Engine) Snapshot() map[string]map[string]Record {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]map[string]Record, len(e.tables))
	for typ, t := range e.tables {
		if t.len() == 0 {
			continue
		}
		rows := make(map[string]Record, t.len())
		t.each(func(key string, r Record) bool {
			rows[key] = r.Clone()
			return true
		})
		out[typ] = rows
	}
	return out
}

func (e *Engine) afterWrite(changed []string, counts map[string]int, o setOptions) {
	for _, typ := range changed {
		if e.recorder != nil {
			e.recorder.RecordIngest(typ, counts[typ])
		}
		if !o.silent && e.changer != nil {
			e.changer.Changed(typ)
		}
	}
}

func applySetOptions(opts []SetOption) setOptions {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
