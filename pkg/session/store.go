package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mongosession/pkg/logger"
)

// DefaultMaxInactiveInterval is the default session time-to-live in seconds
const DefaultMaxInactiveInterval = 30 * 60

// Store persists sessions into a document Collection, one document per id.
// Load consults the request Cache from the context first; Save and Remove
// always clear it.
type Store struct {
	collection          Collection
	codec               Codec
	types               *Registry
	logger              *slog.Logger
	maxInactiveInterval int
	now                 func() time.Time
	newID               func() string
}

// NewStore creates a store on top of collection
func NewStore(collection Collection, opts ...Option) *Store {
	s := &Store{
		collection:          collection,
		codec:               BSONCodec{},
		types:               NewRegistry(),
		logger:              slog.Default(),
		maxInactiveInterval: DefaultMaxInactiveInterval,
		now:                 time.Now,
		newID:               uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With(logger.Component("session.store"))
	return s
}

// Registry returns the attribute type registry used for decoding
func (s *Store) Registry() *Registry {
	return s.types
}

// TTL returns the time after which an unsaved document is swept
func (s *Store) TTL() time.Duration {
	return time.Duration(s.maxInactiveInterval) * time.Second
}

// Init prepares the collection: it ensures the lastmodified index.
func (s *Store) Init(ctx context.Context) error {
	if err := s.collection.EnsureIndex(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to ensure session index", logger.Error(err))
		return errors.Join(ErrStoreIO, err)
	}
	s.logger.InfoContext(ctx, "session store ready",
		slog.String("codec", codecName(s.codec)),
		slog.Duration("ttl", s.TTL()),
	)
	return nil
}

// Create returns a fresh, empty session with a generated id and caches it
// for the current request.
func (s *Store) Create(ctx context.Context) *Session {
	sess := s.newSession(s.newID())
	cacheFrom(ctx).Set(sess)
	s.logger.DebugContext(ctx, "created new empty session", logger.SessionID(sess.ID()))
	return sess
}

// Load returns the session for id.
//
// The request cache is consulted first. An empty id yields a fresh session
// with a generated id; an id without a document yields a fresh empty session
// bound to that id. Store failures wrap ErrStoreIO, corrupt data ErrDecode.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return s.Create(ctx), nil
	}

	cache := cacheFrom(ctx)
	if cached, ok := cache.Get(); ok {
		if cached.ID() == id {
			return cached, nil
		}
		cache.Clear()
	}

	s.logger.DebugContext(ctx, "loading session", logger.SessionID(id))

	doc, err := s.collection.FindOne(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		s.logger.DebugContext(ctx, "session not found, creating empty one", logger.SessionID(id))
		sess := s.newSession(id)
		cache.Set(sess)
		return sess, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load session", logger.SessionID(id), logger.Error(err))
		return nil, errors.Join(ErrStoreIO, err)
	}

	sess := s.newSession(id)
	if err := s.codec.Decode(doc.Data, sess, s.types); err != nil {
		s.logger.ErrorContext(ctx, "failed to decode session", logger.SessionID(id), logger.Error(err))
		if !errors.Is(err, ErrDecode) {
			err = errors.Join(ErrDecode, err)
		}
		return nil, err
	}

	sess.SetMaxInactiveInterval(NotTicking)
	sess.Access()
	sess.markPersisted()

	s.logger.DebugContext(ctx, "loaded session",
		logger.SessionID(id),
		slog.Any("attributes", sess.Keys()),
	)

	cache.Set(sess)
	return sess, nil
}

// Save encodes the session and upserts its document, stamping lastmodified.
// The request cache is cleared whether or not the save succeeds.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	defer cacheFrom(ctx).Clear()

	id := sess.ID()
	if !sess.IsValid() {
		return ErrSessionInvalidated
	}

	s.logger.DebugContext(ctx, "saving session",
		logger.SessionID(id),
		slog.Any("attributes", sess.Keys()),
	)

	data, err := s.codec.Encode(sess, s.types)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode session", logger.SessionID(id), logger.Error(err))
		return err
	}

	doc := &Document{
		ID:           id,
		Data:         data,
		LastModified: s.now().UnixMilli(),
	}
	if err := s.collection.Upsert(ctx, doc); err != nil {
		s.logger.ErrorContext(ctx, "failed to save session", logger.SessionID(id), logger.Error(err))
		return errors.Join(ErrStoreIO, err)
	}

	sess.markPersisted()
	s.logger.DebugContext(ctx, "saved session", logger.SessionID(id))
	return nil
}

// Add saves the session and logs instead of returning a failure.
// It is the end-of-request write path, where nobody is left to handle the error.
func (s *Store) Add(ctx context.Context, sess *Session) {
	if err := s.Save(ctx, sess); err != nil {
		s.logger.ErrorContext(ctx, "error adding session", logger.SessionID(sess.ID()), logger.Error(err))
	}
}

// Remove deletes the session document. Removing an absent id is not an error;
// store failures are logged and swallowed. The request cache is always cleared.
func (s *Store) Remove(ctx context.Context, id string) {
	defer cacheFrom(ctx).Clear()

	s.logger.DebugContext(ctx, "removing session", logger.SessionID(id))
	if err := s.collection.DeleteByID(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove session",
			logger.SessionID(id),
			logger.Error(errors.Join(ErrStoreIO, err)),
		)
	}
}

// ChangeID rotates the session id to a freshly generated one and returns it.
// The document under the old id is deleted best-effort; the new document is
// written by the next Save.
func (s *Store) ChangeID(ctx context.Context, sess *Session) string {
	oldID := sess.ID()
	newID := s.newID()
	sess.SetID(newID)

	if err := s.collection.DeleteByID(ctx, oldID); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove rotated session",
			logger.SessionID(oldID),
			logger.Error(errors.Join(ErrStoreIO, err)),
		)
	}

	cacheFrom(ctx).Set(sess)
	s.logger.DebugContext(ctx, "rotated session id", logger.SessionID(newID), slog.String("previous_id", oldID))
	return newID
}

// ListIDs returns all stored session ids in no particular order
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := s.collection.FindIDs(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list sessions", logger.Error(err))
		return nil, errors.Join(ErrStoreIO, err)
	}
	return ids, nil
}

// All loads every stored session. Sessions are loaded one by one, each
// replacing the previous one in the request cache.
func (s *Store) All(ctx context.Context) ([]*Session, error) {
	ids, err := s.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make([]*Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// SweepExpired deletes documents whose lastmodified is strictly older than
// now-ttl and returns how many were removed. Failures are logged and
// reported as zero removals so a periodic driver keeps running.
//
// The sweep does not know which sessions are held by in-flight requests:
// a request holding a session past ttl may have its document removed
// underneath it. Its final Save recreates the document.
func (s *Store) SweepExpired(ctx context.Context, ttl time.Duration) int64 {
	cutoff := s.now().Add(-ttl).UnixMilli()

	s.logger.DebugContext(ctx, "sweeping expired sessions", slog.Int64("older_than", cutoff))

	removed, err := s.collection.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "error sweeping expired sessions", logger.Error(errors.Join(ErrStoreIO, err)))
		return 0
	}

	s.logger.DebugContext(ctx, "expired sessions removed", logger.Count(removed))
	return removed
}

func (s *Store) newSession(id string) *Session {
	sess := NewSession(id, s.maxInactiveInterval)
	sess.setRemover(s)
	return sess
}

func codecName(c Codec) string {
	if named, ok := c.(interface{ String() string }); ok {
		return named.String()
	}
	return "custom"
}

var _ Remover = (*Store)(nil)
