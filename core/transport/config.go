package transport

import (
	"strings"
	"time"
)

// Config holds configuration for the outbound HTTP client.
type Config struct {
	// TimeoutSeconds bounds every request, including reading the body.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Headers are static headers sent with every request, as "k=v,k=v".
	Headers string `mapstructure:"headers" default:""`
}

// Timeout returns the request timeout, 30s when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HeaderMap parses Headers. Malformed pairs are skipped.
func (c Config) HeaderMap() map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(c.Headers, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}
