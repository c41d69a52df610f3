package session

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Codec converts a session's creation time and attributes to and from an
// opaque blob. The blob starts with the creation time and every attribute
// carries a Registry tag, so it decodes without external schema.
//
// Decode may leave the target partially populated on failure; callers must
// discard it.
type Codec interface {
	Encode(s *Session, types *Registry) ([]byte, error)
	Decode(data []byte, s *Session, types *Registry) error
}

// Supported codec names
const (
	CodecBSON = "bson"
	CodecGob  = "gob"
)

// NewCodec returns the codec registered under name
func NewCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CodecBSON:
		return BSONCodec{}, nil
	case CodecGob:
		return GobCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// taggedAttribute is one attribute ready for encoding
type taggedAttribute struct {
	key   string
	tag   string
	value any
}

// tagAttributes resolves tags for every attribute, in key order
func tagAttributes(s *Session, types *Registry) ([]taggedAttribute, error) {
	attrs := s.Attributes()
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]taggedAttribute, 0, len(keys))
	for _, k := range keys {
		tag, err := types.TagOf(attrs[k])
		if err != nil {
			return nil, errors.Join(ErrEncode, fmt.Errorf("attribute %q: %w", k, err))
		}
		out = append(out, taggedAttribute{key: k, tag: tag, value: attrs[k]})
	}
	return out, nil
}

func decodeError(format string, args ...any) error {
	return errors.Join(ErrDecode, fmt.Errorf(format, args...))
}

// isTypedNil reports whether v is a non-nil interface holding a nil
// map, slice or pointer
func isTypedNil(v any) bool {
	if v == nil {
		return false
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		return rv.IsNil()
	}
	return false
}
