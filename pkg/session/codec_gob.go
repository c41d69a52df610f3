package session

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"
)

// GobCodec stores sessions with encoding/gob. Each attribute value is a
// separate gob stream prefixed by its tag, so decoding resolves types
// through the Registry instead of gob's process-wide type registration.
type GobCodec struct{}

type gobAttribute struct {
	Key   string
	Tag   string
	Value []byte
	// Nil marks a typed nil map, slice or pointer, which gob cannot
	// tell apart from an empty one.
	Nil bool
}

type gobEnvelope struct {
	CreationTime int64
	Attributes   []gobAttribute
}

// Encode implements Codec
func (GobCodec) Encode(s *Session, types *Registry) ([]byte, error) {
	attrs, err := tagAttributes(s, types)
	if err != nil {
		return nil, err
	}

	env := gobEnvelope{
		CreationTime: s.CreationTime().UnixMilli(),
		Attributes:   make([]gobAttribute, 0, len(attrs)),
	}
	for _, a := range attrs {
		ga := gobAttribute{Key: a.key, Tag: a.tag, Nil: isTypedNil(a.value)}
		if a.tag != TagNil && !ga.Nil {
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(a.value); err != nil {
				return nil, errors.Join(ErrEncode, err)
			}
			ga.Value = buf.Bytes()
		}
		env.Attributes = append(env.Attributes, ga)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// Decode implements Codec
func (GobCodec) Decode(data []byte, s *Session, types *Registry) error {
	var env gobEnvelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return errors.Join(ErrDecode, err)
	}
	s.SetCreationTime(time.UnixMilli(env.CreationTime))

	for _, a := range env.Attributes {
		if a.Tag == TagNil {
			s.Set(a.Key, nil)
			continue
		}
		ptr, err := types.New(a.Tag)
		if err != nil {
			return decodeError("attribute %q: %w", a.Key, err)
		}
		if !a.Nil {
			if err := gob.NewDecoder(bytes.NewReader(a.Value)).Decode(ptr.Interface()); err != nil {
				return decodeError("attribute %q: %w", a.Key, err)
			}
		}
		s.Set(a.Key, ptr.Elem().Interface())
	}
	return nil
}

// String returns the codec name
func (GobCodec) String() string { return CodecGob }
