package transport

import (
	"context"
	"net/http"
)

// ContentTypeJSON is the content type of request bodies built by the client.
const ContentTypeJSON = "application/json"

// Options are the per-request parameters of Send.
type Options struct {
	// Data is the request body, sent as-is.
	Data []byte
	// ContentType sets the Content-Type header when Data is not empty.
	ContentType string
	// Headers are added after the sender's configured headers.
	Headers map[string]string
}

// Response is a successful raw response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Sender issues outbound calls.
type Sender interface {
	Send(ctx context.Context, method, url string, opts Options) (*Response, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, method, url string, opts Options) (*Response, error)

func (f SenderFunc) Send(ctx context.Context, method, url string, opts Options) (*Response, error) {
	return f(ctx, method, url, opts)
}
