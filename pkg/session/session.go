package session

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// State describes where a session is in its lifecycle.
// Expiry is not a state: an expired session is swept from the store
// and simply stops being loadable.
type State int

const (
	StateNew State = iota
	StateActive
	StateInvalidated
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateActive:
		return "active"
	case StateInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// NotTicking is the max inactive interval of sessions loaded from the store.
// Store-managed expiry takes precedence over in-memory expiry for them.
const NotTicking = -1

// Remover is notified when a session is invalidated.
type Remover interface {
	Remove(ctx context.Context, id string)
}

// Session is the in-memory representation of one session.
// Attribute access is safe for concurrent use; there is no locking
// across requests holding different copies of the same id.
type Session struct {
	mu                  sync.RWMutex
	id                  string
	creationTime        int64
	lastAccessTime      int64
	maxInactiveInterval int
	attributes          map[string]any
	valid               bool
	isNew               bool
	state               State
	remover             Remover
}

// NewSession creates a new valid, empty session.
// maxInactiveInterval is in seconds.
func NewSession(id string, maxInactiveInterval int) *Session {
	now := time.Now().UnixMilli()
	return &Session{
		id:                  id,
		creationTime:        now,
		lastAccessTime:      now,
		maxInactiveInterval: maxInactiveInterval,
		attributes:          make(map[string]any),
		valid:               true,
		isNew:               true,
		state:               StateNew,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// SetID rebinds the session to a new identifier
func (s *Session) SetID(id string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.id = id
	s.mu.Unlock()
}

// CreationTime returns when the session was created, with millisecond precision
func (s *Session) CreationTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.UnixMilli(s.creationTime)
}

// SetCreationTime overrides the creation time. Codecs use it while decoding.
func (s *Session) SetCreationTime(t time.Time) {
	s.mu.Lock()
	s.creationTime = t.UnixMilli()
	s.mu.Unlock()
}

// LastAccessTime returns the time of the last attribute access or load
func (s *Session) LastAccessTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.UnixMilli(s.lastAccessTime)
}

// MaxInactiveInterval returns the idle timeout in seconds, or NotTicking
func (s *Session) MaxInactiveInterval() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxInactiveInterval
}

// SetMaxInactiveInterval sets the idle timeout in seconds
func (s *Session) SetMaxInactiveInterval(seconds int) {
	s.mu.Lock()
	s.maxInactiveInterval = seconds
	s.mu.Unlock()
}

// Access records an access without touching attributes
func (s *Session) Access() {
	s.mu.Lock()
	s.touch()
	s.mu.Unlock()
}

// IdleExpired reports whether the session sat idle past its max inactive interval.
// Sessions that are not ticking never expire in memory.
func (s *Session) IdleExpired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.maxInactiveInterval <= 0 {
		return false
	}
	return now.UnixMilli()-s.lastAccessTime > int64(s.maxInactiveInterval)*1000
}

// IsValid returns false once the session was invalidated
func (s *Session) IsValid() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valid
}

// IsNew returns true until the session completes its first load or save round-trip
func (s *Session) IsNew() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isNew
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Get retrieves an attribute value
func (s *Session) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return nil, false
	}
	s.touch()
	val, ok := s.attributes[key]
	return val, ok
}

// GetString retrieves a string attribute
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an integer attribute, accepting any integer width
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// Set stores an attribute value. It is a no-op on an invalidated session.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return
	}
	s.touch()
	s.attributes[key] = value
}

// Delete removes an attribute
func (s *Session) Delete(key string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	delete(s.attributes, key)
}

// Keys returns attribute names in lexical order
func (s *Session) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.attributes))
}

// Attributes returns a copy of the attribute map
func (s *Session) Attributes() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.attributes)
}

// Len returns the number of attributes
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attributes)
}

// Invalidate clears all attributes and asks the store to remove the session.
// Only the first call notifies the store; later calls do nothing.
func (s *Session) Invalidate(ctx context.Context) {
	if s == nil {
		return
	}
	s.mu.Lock()
	if !s.valid {
		s.mu.Unlock()
		return
	}
	s.valid = false
	s.state = StateInvalidated
	clear(s.attributes)
	id, remover := s.id, s.remover
	s.mu.Unlock()

	if remover != nil {
		remover.Remove(ctx, id)
	}
}

// touch must be called with s.mu held for writing
func (s *Session) touch() {
	s.lastAccessTime = time.Now().UnixMilli()
	if s.state == StateNew {
		s.state = StateActive
	}
}

// markPersisted records a successful load or save round-trip
func (s *Session) markPersisted() {
	s.mu.Lock()
	s.isNew = false
	if s.state == StateNew {
		s.state = StateActive
	}
	s.mu.Unlock()
}

func (s *Session) setRemover(r Remover) {
	s.mu.Lock()
	s.remover = r
	s.mu.Unlock()
}
