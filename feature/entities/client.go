package entities

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"entity-store/core/cache"
	"entity-store/core/metrics"
	"entity-store/core/notify"
	"entity-store/core/schema"
	"entity-store/core/store"
	"entity-store/core/transport"
	"entity-store/core/utils"

	"go.uber.org/zap"
)

// LocationAttribute holds a record's own URL, used as an explicit target when
// the record has no id.
const LocationAttribute = "url"

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCache persists a snapshot of every changed type to s under
// cache.Key(prefix, type) and restores the snapshots on construction.
func WithCache(s cache.Storage, prefix string) Option {
	return func(c *Client) {
		c.storage = s
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithDebounce sets the change notification window.
func WithDebounce(d time.Duration) Option {
	return func(c *Client) {
		c.debounce = d
	}
}

// WithScheduler replaces the notification timers, mainly for tests.
func WithScheduler(s notify.Scheduler) Option {
	return func(c *Client) {
		c.sched = s
	}
}

// WithMetrics records ingestion and notification metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// CallOption configures a single remote call.
type CallOption func(*callOptions)

type callOptions struct {
	url     string
	headers map[string]string
	silent  bool
}

// WithURL targets u instead of the type's endpoint. Paths starting with "/"
// are resolved against the API URL. The id attribute then stays in the body.
func WithURL(u string) CallOption {
	return func(o *callOptions) {
		o.url = u
	}
}

// WithHeaders adds request headers.
func WithHeaders(h map[string]string) CallOption {
	return func(o *callOptions) {
		o.headers = h
	}
}

// Silent ingests the response without change notification.
func Silent() CallOption {
	return func(o *callOptions) {
		o.silent = true
	}
}

// Client is the entity store façade.
type Client struct {
	registry *schema.Registry
	engine   *store.Engine
	notifier *notify.Notifier
	sender   transport.Sender
	storage  cache.Storage
	prefix   string
	logger   *zap.Logger
	metrics  *metrics.Metrics
	debounce time.Duration
	sched    notify.Scheduler
	stop     func()
}

// New builds a client. With a cache configured, every type's snapshot is
// loaded silently before New returns.
func New(registry *schema.Registry, sender transport.Sender, opts ...Option) (*Client, error) {
	if registry == nil {
		return nil, errors.New("entities: registry is required")
	}
	if sender == nil {
		return nil, errors.New("entities: sender is required")
	}
	c := &Client{
		registry: registry,
		sender:   sender,
		prefix:   cache.DefaultPrefix,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	notifyOpts := []notify.Option{notify.WithLogger(c.logger)}
	if c.debounce > 0 {
		notifyOpts = append(notifyOpts, notify.WithWait(c.debounce))
	}
	if c.sched != nil {
		notifyOpts = append(notifyOpts, notify.WithScheduler(c.sched))
	}
	if c.metrics != nil {
		notifyOpts = append(notifyOpts, notify.WithObserver(c.metrics.ObserveChange))
	}
	c.notifier = notify.New(notifyOpts...)

	engineOpts := []store.Option{store.WithChanger(c.notifier), store.WithLogger(c.logger)}
	if c.metrics != nil {
		engineOpts = append(engineOpts, store.WithRecorder(c.metrics))
	}
	c.engine = store.New(registry, engineOpts...)

	if c.storage != nil {
		if err := c.LoadCache(context.Background()); err != nil {
			c.notifier.Close()
			return nil, err
		}
		c.stop = c.notifier.On(notify.TopicChange, c.persist)
	}
	return c, nil
}

// Registry returns the client's schema.
func (c *Client) Registry() *schema.Registry {
	return c.registry
}

// Engine returns the underlying store engine.
func (c *Client) Engine() *store.Engine {
	return c.engine
}

// Close stops pending notifications and cache writes.
func (c *Client) Close() {
	if c.stop != nil {
		c.stop()
	}
	c.notifier.Close()
}

// On subscribes to "change" or "change:<type>" and returns the unsubscribe func.
func (c *Client) On(topic string, h notify.Handler) func() {
	return c.notifier.On(topic, h)
}

// Find returns one record; see store.Engine.Find.
func (c *Client) Find(typ string, query any) (store.Record, error) {
	return c.engine.Find(typ, query)
}

// FindAll returns matching records; see store.Engine.FindAll.
func (c *Client) FindAll(typ string, query any) ([]store.Record, error) {
	return c.engine.FindAll(typ, query)
}

// Get fetches typ with params as querystring and ingests the response.
func (c *Client) Get(ctx context.Context, typ string, params map[string]any, opts ...CallOption) (store.Result, error) {
	entry, err := c.registry.Lookup(typ)
	if err != nil {
		return store.Result{}, err
	}
	co := applyCallOptions(opts)
	target, rest, _, err := c.locate(entry, params, co, false)
	if err != nil {
		return store.Result{}, err
	}
	resp, err := c.send(ctx, http.MethodGet, transport.AppendQuery(target, rest), nil, co)
	if err != nil {
		return store.Result{}, err
	}
	return c.ingest(typ, resp.Body, co)
}

// Add posts object to the type's collection endpoint, or to the WithURL
// target, and ingests the created record. The body is object as given,
// including any client-assigned id.
func (c *Client) Add(ctx context.Context, typ string, object map[string]any, opts ...CallOption) (store.Result, error) {
	if _, err := c.registry.Lookup(typ); err != nil {
		return store.Result{}, err
	}
	co := applyCallOptions(opts)
	target := c.registry.Resolve(co.url)
	if co.url == "" {
		endpoint, err := c.registry.Endpoint(typ)
		if err != nil {
			return store.Result{}, err
		}
		target = endpoint
	}
	resp, err := c.send(ctx, http.MethodPost, target, store.Record(object).Clone(), co)
	if err != nil {
		return store.Result{}, err
	}
	return c.ingest(typ, resp.Body, co)
}

// Update puts object and ingests the server's version of it. An empty
// response body reconciles with object itself. object needs an id or a
// location (WithURL or a "url" attribute).
func (c *Client) Update(ctx context.Context, typ string, object map[string]any, opts ...CallOption) (store.Result, error) {
	entry, err := c.registry.Lookup(typ)
	if err != nil {
		return store.Result{}, err
	}
	co := applyCallOptions(opts)
	target, rest, _, err := c.locate(entry, object, co, true)
	if err != nil {
		return store.Result{}, err
	}
	resp, err := c.send(ctx, http.MethodPut, target, rest, co)
	if err != nil {
		return store.Result{}, err
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return c.ingest(typ, store.Record(object).Clone(), co)
	}
	return c.ingest(typ, resp.Body, co)
}

// Remove deletes object remotely, then locally. It reports whether a local
// record was removed. object needs an id or a location.
func (c *Client) Remove(ctx context.Context, typ string, object map[string]any, opts ...CallOption) (bool, error) {
	entry, err := c.registry.Lookup(typ)
	if err != nil {
		return false, err
	}
	co := applyCallOptions(opts)
	target, _, location, err := c.locate(entry, object, co, true)
	if err != nil {
		return false, err
	}
	if _, err := c.send(ctx, http.MethodDelete, target, nil, co); err != nil {
		return false, err
	}

	setOpts := co.setOptions()
	if id, ok := store.ID(entry, store.Record(object)); ok {
		return c.engine.Remove(typ, id, setOpts...)
	}
	local, err := c.engine.Find(typ, map[string]any{LocationAttribute: location})
	if err != nil || local == nil {
		return false, err
	}
	return c.engine.Remove(typ, local, setOpts...)
}

// locate resolves the target URL of a get, update or remove and the
// parameters left for its query or body. Update and remove address a record
// by its "url" attribute first and fall back to the endpoint plus its id.
func (c *Client) locate(entry *schema.Entry, object map[string]any, co callOptions, needIdentity bool) (target string, rest map[string]any, location string, err error) {
	rest = make(map[string]any, len(object))
	for k, v := range object {
		rest[k] = v
	}
	id, hasID := store.ID(entry, store.Record(object))

	if co.url != "" {
		return c.registry.Resolve(co.url), rest, co.url, nil
	}
	if needIdentity {
		if loc, ok := rest[LocationAttribute].(string); ok && loc != "" {
			delete(rest, LocationAttribute)
			return c.registry.Resolve(loc), rest, loc, nil
		}
	}
	if hasID && entry.IDAttribute == LocationAttribute {
		// the id is the record's own location
		loc := utils.ToString(id)
		delete(rest, LocationAttribute)
		return c.registry.Resolve(loc), rest, loc, nil
	}
	if !hasID && needIdentity {
		return "", nil, "", &store.IdentityError{Type: entry.Name, Attribute: entry.IDAttribute}
	}

	target, err = c.registry.Endpoint(entry.Name)
	if err != nil {
		return "", nil, "", err
	}
	if hasID {
		delete(rest, entry.IDAttribute)
		target = appendPath(target, utils.ToString(id))
	}
	return target, rest, "", nil
}

// appendPath joins base and the escaped segment with exactly one slash.
// "/todos/" and "/todos" both give "/todos/7".
func appendPath(base, segment string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(segment)
}

func (c *Client) send(ctx context.Context, method, target string, body map[string]any, co callOptions) (*transport.Response, error) {
	opts := transport.Options{Headers: co.headers}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s body: %w", method, err)
		}
		opts.Data = data
		opts.ContentType = transport.ContentTypeJSON
	}
	resp, err := c.sender.Send(ctx, method, target, opts)
	if err != nil {
		c.logger.Warn("Sync call failed", zap.String("method", method), zap.String("url", target), zap.Error(err))
		return nil, err
	}
	c.logger.Info("Sync call completed", zap.String("method", method), zap.String("url", target), zap.Int("status", resp.Status))
	return resp, nil
}

func (c *Client) ingest(typ string, payload any, co callOptions) (store.Result, error) {
	return c.engine.Set(typ, payload, co.setOptions()...)
}

func applyCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o callOptions) setOptions() []store.SetOption {
	if o.silent {
		return []store.SetOption{store.Silent()}
	}
	return nil
}
