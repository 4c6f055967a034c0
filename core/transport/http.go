package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries a fresh uuid on every outbound request.
const RequestIDHeader = "X-Request-ID"

// HeaderFunc computes a header value per request, e.g. a bearer token.
type HeaderFunc func(ctx context.Context) (string, error)

// Observer records the outcome of each request. metrics.Metrics implements it.
type Observer interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
}

// HTTPOption configures an HTTPSender.
type HTTPOption func(*HTTPSender)

// WithClient replaces the underlying http.Client.
func WithClient(c *http.Client) HTTPOption {
	return func(s *HTTPSender) {
		if c != nil {
			s.client = c
		}
	}
}

// WithHeader adds a static header to every request.
func WithHeader(name, value string) HTTPOption {
	return func(s *HTTPSender) {
		s.headers[name] = value
	}
}

// WithHeaderFunc adds a header computed for every request.
func WithHeaderFunc(name string, fn HeaderFunc) HTTPOption {
	return func(s *HTTPSender) {
		s.dynamic[name] = fn
	}
}

// WithObserver wires request metrics.
func WithObserver(o Observer) HTTPOption {
	return func(s *HTTPSender) {
		s.observer = o
	}
}

// WithLogger sets the sender logger.
func WithLogger(l *zap.Logger) HTTPOption {
	return func(s *HTTPSender) {
		if l != nil {
			s.logger = l
		}
	}
}

// HTTPSender is the net/http Sender.
type HTTPSender struct {
	client   *http.Client
	headers  map[string]string
	dynamic  map[string]HeaderFunc
	observer Observer
	logger   *zap.Logger
}

// NewHTTPSender builds a sender from cfg. Options are applied after the
// configured headers, so WithHeader overrides them.
func NewHTTPSender(cfg Config, opts ...HTTPOption) *HTTPSender {
	s := &HTTPSender{
		client:  &http.Client{Timeout: cfg.Timeout()},
		headers: cfg.HeaderMap(),
		dynamic: map[string]HeaderFunc{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send performs the request and returns the body of a 2xx response.
func (s *HTTPSender) Send(ctx context.Context, method, url string, opts Options) (*Response, error) {
	var body io.Reader
	if len(opts.Data) > 0 {
		body = bytes.NewReader(opts.Data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}

	if err := s.applyHeaders(ctx, req, opts); err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}

	requestID := req.Header.Get(RequestIDHeader)
	log := s.logger.With(
		zap.String("method", method),
		zap.String("url", url),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.observe(method, 0, start)
		log.Warn("Request failed", zap.Error(err))
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	s.observe(method, resp.StatusCode, start)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("Request rejected", zap.Int("status", resp.StatusCode))
		return nil, &TransportError{Method: method, URL: url, Status: resp.StatusCode, Body: string(data)}
	}

	log.Debug("Request completed", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(data)))
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (s *HTTPSender) applyHeaders(ctx context.Context, req *http.Request, opts Options) error {
	req.Header.Set(RequestIDHeader, uuid.NewString())
	req.Header.Set("Accept", ContentTypeJSON)
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	for k, fn := range s.dynamic {
		v, err := fn(ctx)
		if err != nil {
			return fmt.Errorf("header %s: %w", k, err)
		}
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if len(opts.Data) > 0 && opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}
	return nil
}

func (s *HTTPSender) observe(method string, status int, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveRequest(method, status, time.Since(start))
	}
}
