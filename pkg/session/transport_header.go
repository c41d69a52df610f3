package session

import (
	"net/http"
	"strings"
)

// HeaderTransport carries the session id in a request/response header,
// for API clients that do not keep cookies.
type HeaderTransport struct {
	headerName string
	prefix     string
}

// HeaderOption is a functional option for HeaderTransport
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix sets a prefix expected before the id, e.g. "Session "
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) {
		t.prefix = prefix
	}
}

// NewHeaderTransport creates a header-based transport
func NewHeaderTransport(headerName string, opts ...HeaderOption) *HeaderTransport {
	t := &HeaderTransport{headerName: headerName}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GetID implements Transport
func (t *HeaderTransport) GetID(r *http.Request) (string, error) {
	value := strings.TrimSpace(r.Header.Get(t.headerName))
	if t.prefix != "" {
		value = strings.TrimPrefix(value, t.prefix)
	}
	if value == "" {
		return "", ErrSessionNotFound
	}
	return value, nil
}

// SetID implements Transport
func (t *HeaderTransport) SetID(w http.ResponseWriter, id string) error {
	w.Header().Set(t.headerName, t.prefix+id)
	return nil
}

// ClearID implements Transport
func (t *HeaderTransport) ClearID(w http.ResponseWriter) error {
	w.Header().Del(t.headerName)
	return nil
}
