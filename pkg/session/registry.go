package session

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

// TagNil marks an attribute holding a nil value
const TagNil = "nil"

// Registry maps attribute type tags to Go types so codecs can rebuild
// application-defined values without external schema.
type Registry struct {
	mu     sync.RWMutex
	byTag  map[string]reflect.Type
	byType map[reflect.Type]string
}

// NewRegistry returns a registry preloaded with the builtin attribute types
func NewRegistry() *Registry {
	r := &Registry{
		byTag:  make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
	_ = Register[string](r, "string")
	_ = Register[bool](r, "bool")
	_ = Register[int](r, "int")
	_ = Register[int32](r, "int32")
	_ = Register[int64](r, "int64")
	_ = Register[float32](r, "float32")
	_ = Register[float64](r, "float64")
	_ = Register[[]byte](r, "bytes")
	_ = Register[time.Time](r, "time")
	_ = Register[[]string](r, "strings")
	_ = Register[map[string]string](r, "string_map")
	return r
}

// Register binds tag to type T. Both the tag and the type must be unused.
//
//	type Cart struct{ Items []string }
//	_ = session.Register[Cart](registry, "cart")
func Register[T any](r *Registry, tag string) error {
	if tag == "" || tag == TagNil {
		return fmt.Errorf("%w: reserved tag %q", ErrDuplicateTag, tag)
	}
	t := reflect.TypeFor[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTag[tag]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
	}
	if existing, exists := r.byType[t]; exists {
		return fmt.Errorf("%w: %s already registered as %q", ErrDuplicateTag, t, existing)
	}

	r.byTag[tag] = t
	r.byType[t] = tag
	return nil
}

// MustRegister is like Register but panics on error
func MustRegister[T any](r *Registry, tag string) {
	if err := Register[T](r, tag); err != nil {
		panic(err)
	}
}

// TagOf returns the tag registered for the dynamic type of v
func (r *Registry) TagOf(v any) (string, error) {
	if v == nil {
		return TagNil, nil
	}
	t := reflect.TypeOf(v)

	r.mu.RLock()
	tag, ok := r.byType[t]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	return tag, nil
}

// New returns a pointer to a zero value of the type registered under tag
func (r *Registry) New(tag string) (reflect.Value, error) {
	r.mu.RLock()
	t, ok := r.byTag[tag]
	r.mu.RUnlock()

	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: tag %q", ErrUnknownType, tag)
	}
	return reflect.New(t), nil
}
