package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mongosession/pkg/session"
)

func TestNewSession(t *testing.T) {
	before := time.Now().Truncate(time.Millisecond)
	sess := session.NewSession("abc", 1800)

	assert.Equal(t, "abc", sess.ID())
	assert.True(t, sess.IsValid())
	assert.True(t, sess.IsNew())
	assert.Equal(t, session.StateNew, sess.State())
	assert.Equal(t, 1800, sess.MaxInactiveInterval())
	assert.Zero(t, sess.Len())
	assert.False(t, sess.CreationTime().Before(before))
}

func TestSession_Attributes(t *testing.T) {
	sess := session.NewSession("abc", 1800)

	t.Run("first access activates", func(t *testing.T) {
		sess.Set("name", "alice")
		assert.Equal(t, session.StateActive, sess.State())
		assert.True(t, sess.IsNew(), "only a store round-trip clears isNew")
	})

	t.Run("typed getters", func(t *testing.T) {
		sess.Set("count", int64(3))
		sess.Set("flag", true)

		name, ok := sess.GetString("name")
		assert.True(t, ok)
		assert.Equal(t, "alice", name)

		count, ok := sess.GetInt("count")
		assert.True(t, ok)
		assert.Equal(t, 3, count)

		_, ok = sess.GetString("flag")
		assert.False(t, ok)

		_, ok = sess.Get("missing")
		assert.False(t, ok)
	})

	t.Run("keys are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"count", "flag", "name"}, sess.Keys())
	})

	t.Run("attributes returns a copy", func(t *testing.T) {
		attrs := sess.Attributes()
		attrs["name"] = "mallory"

		name, _ := sess.GetString("name")
		assert.Equal(t, "alice", name)
	})

	t.Run("delete", func(t *testing.T) {
		sess.Delete("flag")
		_, ok := sess.Get("flag")
		assert.False(t, ok)
		assert.Equal(t, 2, sess.Len())
	})
}

func TestSession_Invalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("clears attributes and notifies the store", func(t *testing.T) {
		coll := session.NewMemoryCollection()
		store := session.NewStore(coll)
		sess, err := store.Load(ctx, "abc")
		require.NoError(t, err)
		sess.Set("a", 1)
		sess.Set("b", 2)
		require.NoError(t, store.Save(ctx, sess))
		require.Equal(t, 1, coll.Len())

		sess.Invalidate(ctx)

		assert.False(t, sess.IsValid())
		assert.Equal(t, session.StateInvalidated, sess.State())
		assert.Zero(t, sess.Len())
		assert.Zero(t, coll.Len())
	})

	t.Run("repeated invalidation notifies once", func(t *testing.T) {
		coll := &MockCollection{}
		coll.On("FindOne", mock.Anything, "abc").Return(nil, session.ErrSessionNotFound).Once()
		coll.On("DeleteByID", mock.Anything, "abc").Return(nil).Once()

		store := session.NewStore(coll)
		sess, err := store.Load(ctx, "abc")
		require.NoError(t, err)
		sess.Set("a", 1)
		sess.Set("b", 2)

		assert.NotPanics(t, func() {
			sess.Invalidate(ctx)
			sess.Invalidate(ctx)
		})
		assert.Zero(t, sess.Len())
		coll.AssertExpectations(t)
	})

	t.Run("mutations are ignored afterwards", func(t *testing.T) {
		sess := session.NewSession("abc", 1800)
		sess.Invalidate(ctx)

		sess.Set("a", 1)
		_, ok := sess.Get("a")
		assert.False(t, ok)
		assert.Zero(t, sess.Len())
	})

	t.Run("nil session", func(t *testing.T) {
		var sess *session.Session
		assert.NotPanics(t, func() { sess.Invalidate(ctx) })
		assert.False(t, sess.IsValid())
	})
}

func TestSession_IdleExpired(t *testing.T) {
	t.Run("ticking session", func(t *testing.T) {
		sess := session.NewSession("abc", 60)
		now := time.Now()
		assert.False(t, sess.IdleExpired(now))
		assert.True(t, sess.IdleExpired(now.Add(2*time.Minute)))
	})

	t.Run("loaded session never expires in memory", func(t *testing.T) {
		sess := session.NewSession("abc", session.NotTicking)
		assert.False(t, sess.IdleExpired(time.Now().Add(24*time.Hour)))
	})
}

func TestSession_SetID(t *testing.T) {
	sess := session.NewSession("old", 60)
	sess.SetID("new")
	assert.Equal(t, "new", sess.ID())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "new", session.StateNew.String())
	assert.Equal(t, "active", session.StateActive.String())
	assert.Equal(t, "invalidated", session.StateInvalidated.String())
	assert.Equal(t, "unknown", session.State(42).String())
}
