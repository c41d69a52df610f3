package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/mongosession/pkg/session"
)

type cart struct {
	Items []string `bson:"items"`
	Total int64    `bson:"total"`
}

func codecs() map[string]session.Codec {
	return map[string]session.Codec{
		session.CodecBSON: session.BSONCodec{},
		session.CodecGob:  session.GobCodec{},
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	loggedIn := time.Date(2024, 3, 1, 12, 30, 45, 123_456_789, time.UTC)
	seen := time.Date(2024, 3, 2, 8, 0, 0, 1, time.FixedZone("CET", 3600))

	for name, codec := range codecs() {
		t.Run(name, func(t *testing.T) {
			types := session.NewRegistry()
			session.MustRegister[cart](types, "cart")

			src := session.NewSession("abc", 1800)
			src.SetCreationTime(time.UnixMilli(1_700_000_000_123))
			src.Set("user", "alice")
			src.Set("admin", false)
			src.Set("visits", 7)
			src.Set("quota", int64(1<<40))
			src.Set("ratio", 0.25)
			src.Set("half", float32(1.5))
			src.Set("token", []byte{0x01, 0x02, 0x03})
			src.Set("logged_in", loggedIn)
			src.Set("roles", []string{"reader", "writer"})
			src.Set("prefs", map[string]string{"theme": "dark"})
			src.Set("cart", cart{Items: []string{"book"}, Total: 1299})
			src.Set("nothing", nil)
			src.Set("seen", seen)
			src.Set("no_prefs", map[string]string(nil))
			src.Set("no_roles", []string(nil))

			data, err := codec.Encode(src, types)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			dst := session.NewSession("abc", 1800)
			require.NoError(t, codec.Decode(data, dst, types))

			assert.Equal(t, src.CreationTime().UnixMilli(), dst.CreationTime().UnixMilli())
			assert.Equal(t, src.Keys(), dst.Keys())

			got := dst.Attributes()
			assert.Equal(t, "alice", got["user"])
			assert.Equal(t, false, got["admin"])
			assert.Equal(t, 7, got["visits"])
			assert.Equal(t, int64(1<<40), got["quota"])
			assert.Equal(t, 0.25, got["ratio"])
			assert.Equal(t, float32(1.5), got["half"])
			assert.Equal(t, []byte{0x01, 0x02, 0x03}, got["token"])
			assert.Equal(t, []string{"reader", "writer"}, got["roles"])
			assert.Equal(t, map[string]string{"theme": "dark"}, got["prefs"])
			assert.Equal(t, cart{Items: []string{"book"}, Total: 1299}, got["cart"])
			assert.Nil(t, got["nothing"])
			assert.Contains(t, got, "nothing")

			when, ok := got["logged_in"].(time.Time)
			require.True(t, ok)
			assert.True(t, loggedIn.Equal(when), "got %s", when)
			assert.Equal(t, 123_456_789, when.Nanosecond())

			last, ok := got["seen"].(time.Time)
			require.True(t, ok)
			assert.True(t, seen.Equal(last), "got %s", last)
			_, offset := last.Zone()
			assert.Equal(t, 3600, offset)

			assert.Equal(t, map[string]string(nil), got["no_prefs"])
			assert.Equal(t, []string(nil), got["no_roles"])
		})
	}
}

func TestCodec_EmptySession(t *testing.T) {
	for name, codec := range codecs() {
		t.Run(name, func(t *testing.T) {
			types := session.NewRegistry()
			src := session.NewSession("abc", 1800)

			data, err := codec.Encode(src, types)
			require.NoError(t, err)

			dst := session.NewSession("abc", 1800)
			require.NoError(t, codec.Decode(data, dst, types))
			assert.Zero(t, dst.Len())
			assert.Equal(t, src.CreationTime().UnixMilli(), dst.CreationTime().UnixMilli())
		})
	}
}

func TestCodec_UnknownTag(t *testing.T) {
	for name, codec := range codecs() {
		t.Run(name, func(t *testing.T) {
			writer := session.NewRegistry()
			session.MustRegister[cart](writer, "cart")

			src := session.NewSession("abc", 1800)
			src.Set("cart", cart{Items: []string{"book"}})

			data, err := codec.Encode(src, writer)
			require.NoError(t, err)

			err = codec.Decode(data, session.NewSession("abc", 1800), session.NewRegistry())
			require.Error(t, err)
			assert.ErrorIs(t, err, session.ErrDecode)
			assert.ErrorIs(t, err, session.ErrUnknownType)
		})
	}
}

func TestCodec_UnregisteredType(t *testing.T) {
	type secret struct{ Value string }

	for name, codec := range codecs() {
		t.Run(name, func(t *testing.T) {
			src := session.NewSession("abc", 1800)
			src.Set("secret", secret{Value: "x"})

			_, err := codec.Encode(src, session.NewRegistry())
			require.Error(t, err)
			assert.ErrorIs(t, err, session.ErrEncode)
			assert.ErrorIs(t, err, session.ErrUnknownType)
		})
	}
}

func TestCodec_CorruptData(t *testing.T) {
	for name, codec := range codecs() {
		t.Run(name, func(t *testing.T) {
			types := session.NewRegistry()
			src := session.NewSession("abc", 1800)
			src.Set("user", "alice")
			src.Set("roles", []string{"reader", "writer"})

			data, err := codec.Encode(src, types)
			require.NoError(t, err)

			t.Run("truncated", func(t *testing.T) {
				err := codec.Decode(data[:len(data)/2], session.NewSession("abc", 1800), types)
				assert.ErrorIs(t, err, session.ErrDecode)
			})

			t.Run("garbage", func(t *testing.T) {
				err := codec.Decode([]byte("not a session"), session.NewSession("abc", 1800), types)
				assert.ErrorIs(t, err, session.ErrDecode)
			})

			t.Run("empty", func(t *testing.T) {
				err := codec.Decode(nil, session.NewSession("abc", 1800), types)
				assert.ErrorIs(t, err, session.ErrDecode)
			})
		})
	}
}

func TestBSONCodec_MissingCreationTime(t *testing.T) {
	data, err := bson.Marshal(bson.D{{Key: "a", Value: bson.A{}}})
	require.NoError(t, err)

	err = session.BSONCodec{}.Decode(data, session.NewSession("abc", 1800), session.NewRegistry())
	assert.ErrorIs(t, err, session.ErrDecode)
}

func TestBSONCodec_TypeMismatch(t *testing.T) {
	data, err := bson.Marshal(bson.D{
		{Key: "ct", Value: int64(1)},
		{Key: "a", Value: bson.A{
			bson.D{{Key: "k", Value: "visits"}, {Key: "t", Value: "int"}, {Key: "v", Value: "seven"}},
		}},
	})
	require.NoError(t, err)

	err = session.BSONCodec{}.Decode(data, session.NewSession("abc", 1800), session.NewRegistry())
	assert.ErrorIs(t, err, session.ErrDecode)
}

func TestBSONCodec_DatetimeAttribute(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_123).UTC()
	data, err := bson.Marshal(bson.D{
		{Key: "ct", Value: int64(1)},
		{Key: "a", Value: bson.A{
			bson.D{{Key: "k", Value: "logged_in"}, {Key: "t", Value: "time"}, {Key: "v", Value: bson.NewDateTimeFromTime(at)}},
		}},
	})
	require.NoError(t, err)

	dst := session.NewSession("abc", 1800)
	require.NoError(t, session.BSONCodec{}.Decode(data, dst, session.NewRegistry()))

	got, ok := dst.Get("logged_in")
	require.True(t, ok)
	when, ok := got.(time.Time)
	require.True(t, ok)
	assert.True(t, at.Equal(when))
}

func TestNewCodec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    session.Codec
		wantErr error
	}{
		{name: "default", input: "", want: session.BSONCodec{}},
		{name: "bson", input: "bson", want: session.BSONCodec{}},
		{name: "gob uppercase", input: " GOB ", want: session.GobCodec{}},
		{name: "unknown", input: "xml", wantErr: session.ErrUnknownCodec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := session.NewCodec(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, codec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, codec)
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Run("duplicate tag", func(t *testing.T) {
		r := session.NewRegistry()
		require.NoError(t, session.Register[cart](r, "cart"))

		type other struct{}
		assert.ErrorIs(t, session.Register[other](r, "cart"), session.ErrDuplicateTag)
	})

	t.Run("duplicate type", func(t *testing.T) {
		r := session.NewRegistry()
		require.NoError(t, session.Register[cart](r, "cart"))
		assert.ErrorIs(t, session.Register[cart](r, "basket"), session.ErrDuplicateTag)
	})

	t.Run("reserved tags", func(t *testing.T) {
		r := session.NewRegistry()
		assert.ErrorIs(t, session.Register[cart](r, ""), session.ErrDuplicateTag)
		assert.ErrorIs(t, session.Register[cart](r, session.TagNil), session.ErrDuplicateTag)
	})

	t.Run("builtin tags", func(t *testing.T) {
		r := session.NewRegistry()

		tag, err := r.TagOf("x")
		require.NoError(t, err)
		assert.Equal(t, "string", tag)

		tag, err = r.TagOf(nil)
		require.NoError(t, err)
		assert.Equal(t, session.TagNil, tag)

		_, err = r.TagOf(struct{}{})
		assert.ErrorIs(t, err, session.ErrUnknownType)
	})

	t.Run("new value", func(t *testing.T) {
		r := session.NewRegistry()
		session.MustRegister[cart](r, "cart")

		v, err := r.New("cart")
		require.NoError(t, err)
		_, ok := v.Interface().(*cart)
		assert.True(t, ok)

		_, err = r.New("missing")
		assert.ErrorIs(t, err, session.ErrUnknownType)
	})

	t.Run("must register panics", func(t *testing.T) {
		r := session.NewRegistry()
		assert.Panics(t, func() { session.MustRegister[string](r, "text") })
	})
}
