package session

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// BSONCodec stores sessions as a BSON document:
//
//	{ct: <creation millis>, a: [{k: <key>, t: <tag>, v: <value>}, ...]}
//
// BSON is self-describing, the tag only selects the Go type to decode into.
// time.Time attributes are stored as their MarshalBinary form because BSON
// datetimes keep only milliseconds.
type BSONCodec struct{}

type bsonAttribute struct {
	Key   string `bson:"k"`
	Tag   string `bson:"t"`
	Value any    `bson:"v"`
}

type bsonEnvelope struct {
	CreationTime int64           `bson:"ct"`
	Attributes   []bsonAttribute `bson:"a"`
}

type bsonRawAttribute struct {
	Key   string        `bson:"k"`
	Tag   string        `bson:"t"`
	Value bson.RawValue `bson:"v"`
}

type bsonRawEnvelope struct {
	CreationTime *int64             `bson:"ct"`
	Attributes   []bsonRawAttribute `bson:"a"`
}

// Encode implements Codec
func (BSONCodec) Encode(s *Session, types *Registry) ([]byte, error) {
	attrs, err := tagAttributes(s, types)
	if err != nil {
		return nil, err
	}

	env := bsonEnvelope{
		CreationTime: s.CreationTime().UnixMilli(),
		Attributes:   make([]bsonAttribute, 0, len(attrs)),
	}
	for _, a := range attrs {
		value := a.value
		if t, ok := value.(time.Time); ok {
			if value, err = t.MarshalBinary(); err != nil {
				return nil, errors.Join(ErrEncode, err)
			}
		}
		env.Attributes = append(env.Attributes, bsonAttribute{Key: a.key, Tag: a.tag, Value: value})
	}

	data, err := bson.Marshal(env)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return data, nil
}

// Decode implements Codec
func (BSONCodec) Decode(data []byte, s *Session, types *Registry) error {
	var env bsonRawEnvelope
	if err := bson.Unmarshal(data, &env); err != nil {
		return errors.Join(ErrDecode, err)
	}
	if env.CreationTime == nil {
		return decodeError("missing creation time")
	}
	s.SetCreationTime(time.UnixMilli(*env.CreationTime))

	for _, a := range env.Attributes {
		if a.Tag == TagNil {
			s.Set(a.Key, nil)
			continue
		}
		ptr, err := types.New(a.Tag)
		if err != nil {
			return decodeError("attribute %q: %w", a.Key, err)
		}
		if a.Value.IsZero() {
			return decodeError("attribute %q: missing value", a.Key)
		}
		if err := unmarshalBSONValue(a.Value, ptr.Interface()); err != nil {
			return decodeError("attribute %q: %w", a.Key, err)
		}
		s.Set(a.Key, ptr.Elem().Interface())
	}
	return nil
}

// String returns the codec name
func (BSONCodec) String() string { return CodecBSON }

// unmarshalBSONValue decodes v into target. A null value leaves the
// target's zero value, so typed nil maps and slices stay nil.
func unmarshalBSONValue(v bson.RawValue, target any) error {
	if v.Type == bson.TypeNull {
		return nil
	}
	if t, ok := target.(*time.Time); ok {
		if _, data, isBinary := v.BinaryOK(); isBinary {
			return t.UnmarshalBinary(data)
		}
		// Millisecond datetimes written before the binary form.
	}
	return v.Unmarshal(target)
}
