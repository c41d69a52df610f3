package session

import "net/http"

// Transport carries the session id between client and server.
// A request whose transport yields an id has a bound session handle.
type Transport interface {
	// GetID extracts the session id from the request
	GetID(r *http.Request) (string, error)

	// SetID sends the session id in the response
	SetID(w http.ResponseWriter, id string) error

	// ClearID removes the session id from the client
	ClearID(w http.ResponseWriter) error
}

// CompositeTransport reads the id from the first transport that has one
// and writes it through all of them.
type CompositeTransport struct {
	transports []Transport
}

// NewCompositeTransport creates a transport trying each of transports in order
func NewCompositeTransport(transports ...Transport) *CompositeTransport {
	return &CompositeTransport{transports: transports}
}

// GetID implements Transport
func (t *CompositeTransport) GetID(r *http.Request) (string, error) {
	for _, transport := range t.transports {
		id, err := transport.GetID(r)
		if err == nil && id != "" {
			return id, nil
		}
	}
	return "", ErrSessionNotFound
}

// SetID implements Transport
func (t *CompositeTransport) SetID(w http.ResponseWriter, id string) error {
	var lastErr error
	for _, transport := range t.transports {
		if err := transport.SetID(w, id); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// ClearID implements Transport
func (t *CompositeTransport) ClearID(w http.ResponseWriter) error {
	var lastErr error
	for _, transport := range t.transports {
		if err := transport.ClearID(w); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
