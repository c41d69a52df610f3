package session

import (
	"net/http"

	"github.com/dmitrymomot/mongosession/pkg/cookie"
)

// CookieTransport carries the session id in a signed cookie.
// A cookie with a bad signature is treated as absent, so clients cannot
// bind themselves to an arbitrary id of their choosing.
type CookieTransport struct {
	cookies *cookie.Manager
	name    string
	options []cookie.Option
}

// NewCookieTransport creates a cookie-based transport. The cookie is a
// browser-session cookie unless opts set a max age.
func NewCookieTransport(cookies *cookie.Manager, name string, opts ...cookie.Option) *CookieTransport {
	return &CookieTransport{
		cookies: cookies,
		name:    name,
		options: opts,
	}
}

// NewCookieTransportWithSecurity is NewCookieTransport with the Secure flag
// set when secure is true (recommended for production).
func NewCookieTransportWithSecurity(cookies *cookie.Manager, name string, secure bool, opts ...cookie.Option) *CookieTransport {
	if secure {
		opts = append([]cookie.Option{cookie.WithSecure(true)}, opts...)
	}
	return NewCookieTransport(cookies, name, opts...)
}

// GetID implements Transport
func (t *CookieTransport) GetID(r *http.Request) (string, error) {
	id, err := t.cookies.GetSigned(r, t.name)
	if err != nil || id == "" {
		return "", ErrSessionNotFound
	}
	return id, nil
}

// SetID implements Transport
func (t *CookieTransport) SetID(w http.ResponseWriter, id string) error {
	return t.cookies.SetSigned(w, t.name, id, t.options...)
}

// ClearID implements Transport
func (t *CookieTransport) ClearID(w http.ResponseWriter) error {
	t.cookies.Delete(w, t.name)
	return nil
}
