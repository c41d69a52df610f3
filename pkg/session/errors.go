package session

import "errors"

var (
	// ErrStoreIO wraps any failure reported by the underlying document store
	ErrStoreIO = errors.New("session.store_io")

	// ErrDecode indicates corrupt, truncated or unresolvable session data
	ErrDecode = errors.New("session.decode")

	// ErrEncode indicates a session attribute could not be serialized
	ErrEncode = errors.New("session.encode")

	// ErrSessionNotFound indicates no document or transport handle exists for a session.
	// Store.Load never returns it: a miss yields a fresh session bound to the id.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionInvalidated is returned when saving a session that was invalidated
	ErrSessionInvalidated = errors.New("session.invalidated")

	// ErrInvalidDocument indicates a document without an id
	ErrInvalidDocument = errors.New("session.invalid_document")

	// ErrUnknownType indicates an attribute type or tag missing from the Registry
	ErrUnknownType = errors.New("session.unknown_type")

	// ErrDuplicateTag indicates a type tag registered twice
	ErrDuplicateTag = errors.New("session.duplicate_tag")

	// ErrUnknownCodec indicates an unsupported codec name in configuration
	ErrUnknownCodec = errors.New("session.unknown_codec")

	// ErrNoInterceptor indicates the request context was not prepared by Interceptor.Middleware
	ErrNoInterceptor = errors.New("session.no_interceptor")
)
