package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const (
	minSecretLength = 32
	signatureSep    = "."
)

// Manager writes and reads cookies with shared defaults and optional
// HMAC-SHA256 signatures. The first secret signs; all secrets verify,
// which allows key rotation.
type Manager struct {
	secrets  [][]byte
	defaults Options
}

// New creates a cookie manager. At least one secret of 32+ characters is required.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([][]byte, 0, len(secrets))
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		keys = append(keys, []byte(s))
	}

	return &Manager{
		secrets:  keys,
		defaults: applyOptions(defaultOptions(), opts),
	}, nil
}

// maxValueLength keeps name=value within the 4096 bytes browsers store
const maxValueLength = 4096

// Set writes a plain cookie. Values browsers would silently drop are
// rejected with ErrValueTooLarge.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	if len(name)+len(value)+1 > maxValueLength {
		return ErrValueTooLarge
	}
	o := applyOptions(m.defaults, opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
	return nil
}

// Get reads a plain cookie
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrCookieNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Delete expires the cookie on the client
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}

// SetSigned writes value followed by its signature.
// value must be cookie-safe and must not contain a dot.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	if strings.Contains(value, signatureSep) {
		return ErrInvalidFormat
	}
	return m.Set(w, name, value+signatureSep+m.signature(m.secrets[0], value), opts...)
}

// GetSigned reads a signed cookie and returns the value if any secret verifies it
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	value, sig, ok := strings.Cut(raw, signatureSep)
	if !ok || value == "" || sig == "" {
		return "", ErrInvalidFormat
	}

	for _, secret := range m.secrets {
		if subtle.ConstantTimeCompare([]byte(sig), []byte(m.signature(secret, value))) == 1 {
			return value, nil
		}
	}
	return "", ErrInvalidSignature
}

func (m *Manager) signature(secret []byte, value string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
