package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/dmitrymomot/mongosession/pkg/logger"
)

// Interceptor wraps request handling and persists the session afterwards.
// This end-of-request write is the only write path: attribute mutations
// are never written through.
type Interceptor struct {
	store     *Store
	transport Transport
	logger    *slog.Logger
}

// InterceptorOption is a functional option for configuring the Interceptor
type InterceptorOption func(*Interceptor)

// WithInterceptorLogger sets the interceptor logger
func WithInterceptorLogger(l *slog.Logger) InterceptorOption {
	return func(i *Interceptor) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewInterceptor creates an interceptor persisting sessions into store and
// reading/writing session ids through transport.
func NewInterceptor(store *Store, transport Transport, opts ...InterceptorOption) *Interceptor {
	i := &Interceptor{
		store:     store,
		transport: transport,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = i.logger.With(logger.Component("session.interceptor"))
	return i
}

// handle is the per-request session state
type handle struct {
	mu        sync.Mutex
	store     *Store
	transport Transport
	w         http.ResponseWriter
	r         *http.Request
	session   *Session
	bound     bool
	// created is set when this request generated the session id
	created bool
}

type handleContextKey struct{}

// Middleware prepares the request context with a fresh Cache and session
// handle, runs next, then finalizes the touched session even if next panics:
//
//   - no session touched: nothing
//   - invalidated session: Store.Remove
//   - valid session bound to a transport handle: Store.Save
//   - valid session without a transport handle: skipped
func (i *Interceptor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := &handle{
			store:     i.store,
			transport: i.transport,
			w:         w,
			r:         r,
		}
		ctx := WithCache(r.Context())
		ctx = context.WithValue(ctx, handleContextKey{}, h)

		defer i.finalize(ctx, h)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (i *Interceptor) finalize(ctx context.Context, h *handle) {
	// The client may be gone; persistence must still complete.
	ctx = context.WithoutCancel(ctx)

	sess, bound := h.current()
	if sess == nil {
		// Sessions created or loaded through the store directly are
		// never bound to a transport handle.
		sess, _ = cacheFrom(ctx).Get()
	}
	if sess == nil {
		return
	}

	switch {
	case !sess.IsValid():
		i.logger.DebugContext(ctx, "session invalidated, removing", logger.SessionID(sess.ID()))
		i.store.Remove(ctx, sess.ID())
	case !bound:
		i.logger.DebugContext(ctx, "no session handle present, not saving", logger.SessionID(sess.ID()))
	default:
		i.logger.DebugContext(ctx, "request with session completed, saving", logger.SessionID(sess.ID()))
		i.store.Add(ctx, sess)
	}
}

func (h *handle) current() (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session, h.bound
}

func handleFrom(ctx context.Context) (*handle, error) {
	h, ok := ctx.Value(handleContextKey{}).(*handle)
	if !ok {
		return nil, ErrNoInterceptor
	}
	return h, nil
}

// Get returns the session of the current request.
//
// A session id carried by the transport is loaded from the store; an id
// unknown to the store yields a fresh empty session bound to it. Without an
// id, a new session is created and its id sent to the client when create is
// true, otherwise ErrSessionNotFound is returned.
func Get(ctx context.Context, create bool) (*Session, error) {
	h, err := handleFrom(ctx)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session != nil {
		if h.session.IsValid() {
			return h.session, nil
		}
		// Invalidated during this request: never reload the old id.
		if !create {
			return nil, ErrSessionNotFound
		}
		return h.create(ctx)
	}

	if id, err := h.transport.GetID(h.r); err == nil && id != "" {
		sess, err := h.store.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		h.session, h.bound = sess, true
		return sess, nil
	}

	if !create {
		return nil, ErrSessionNotFound
	}
	return h.create(ctx)
}

// create must be called with h.mu held
func (h *handle) create(ctx context.Context) (*Session, error) {
	sess := h.store.Create(ctx)
	if err := h.transport.SetID(h.w, sess.ID()); err != nil {
		cacheFrom(ctx).Clear()
		return nil, err
	}
	h.session, h.bound, h.created = sess, true, true
	return sess, nil
}

// Invalidate invalidates the session of the current request, if any,
// and clears the id on the client.
func Invalidate(ctx context.Context) error {
	sess, err := Get(ctx, false)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	sess.Invalidate(ctx)

	h, _ := handleFrom(ctx)
	return h.transport.ClearID(h.w)
}

// Rotate assigns a new id to the session of the current request and sends
// it to the client. Use it after privilege changes such as login. A session
// created by this request already has a fresh id and is returned as is.
func Rotate(ctx context.Context) (*Session, error) {
	sess, err := Get(ctx, true)
	if err != nil {
		return nil, err
	}

	h, _ := handleFrom(ctx)
	h.mu.Lock()
	created := h.created && h.session == sess
	h.mu.Unlock()
	if created {
		return sess, nil
	}

	id := h.store.ChangeID(ctx, sess)
	if err := h.transport.SetID(h.w, id); err != nil {
		return nil, err
	}
	return sess, nil
}
