package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulwarkweb/bulwark/pkg/session"
)

func TestSessionManagerLoadOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("no cookie creates a new session", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store)

		sess, err := sm.LoadOrCreate(context.Background(), httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		assert.True(t, sess.IsNew())
		assert.NotEmpty(t, sess.ID)
		assert.Len(t, sess.Token(), 40)

		// The fresh session is already in the store.
		_, err = store.Get(context.Background(), sess.ID)
		assert.NoError(t, err)
	})

	t.Run("existing cookie loads the stored session", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store)

		existing := session.New("sid-1", time.Now().Add(time.Hour))
		existing.Put("user", "alice")
		require.NoError(t, store.Create(context.Background(), existing))

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "__sid", Value: "sid-1"})

		sess, err := sm.LoadOrCreate(context.Background(), r)
		require.NoError(t, err)

		assert.Equal(t, "sid-1", sess.ID)
		v, ok := sess.Get("user")
		require.True(t, ok)
		assert.Equal(t, "alice", v)
	})

	t.Run("unknown cookie creates a replacement", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store)

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "__sid", Value: "gone"})

		sess, err := sm.LoadOrCreate(context.Background(), r)
		require.NoError(t, err)

		assert.NotEqual(t, "gone", sess.ID)
		assert.True(t, sess.IsNew())
	})

	t.Run("expired session is replaced", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store)

		stale := session.New("sid-old", time.Now().Add(-time.Minute))
		require.NoError(t, store.Create(context.Background(), stale))

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "__sid", Value: "sid-old"})

		sess, err := sm.LoadOrCreate(context.Background(), r)
		require.NoError(t, err)

		assert.NotEqual(t, "sid-old", sess.ID)
		assert.True(t, sess.IsNew())
	})

	t.Run("loaded session has flash aged", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store)

		existing := session.New("sid-flash", time.Now().Add(time.Hour))
		existing.Flash("errors", map[string][]string{"email": {"required"}})
		require.NoError(t, store.Create(context.Background(), existing))

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "__sid", Value: "sid-flash"})

		sess, err := sm.LoadOrCreate(context.Background(), r)
		require.NoError(t, err)

		_, ok := sess.GetFlash("errors")
		assert.True(t, ok, "flashed value should be readable on the next request")

		// Aging again simulates a further request; the value is gone.
		sess.AgeFlash()
		_, ok = sess.GetFlash("errors")
		assert.False(t, ok)
	})

	t.Run("custom cookie name", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store, WithSessionCookieName("app_session"))

		existing := session.New("sid-2", time.Now().Add(time.Hour))
		require.NoError(t, store.Create(context.Background(), existing))

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "app_session", Value: "sid-2"})

		sess, err := sm.LoadOrCreate(context.Background(), r)
		require.NoError(t, err)
		assert.Equal(t, "sid-2", sess.ID)
	})
}

func TestSessionManagerPersist(t *testing.T) {
	t.Parallel()

	t.Run("new session gets a cookie", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store, WithSessionSecure(true))

		sess, err := sm.LoadOrCreate(context.Background(), httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		require.NoError(t, sm.Persist(context.Background(), rec, sess))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "__sid", cookies[0].Name)
		assert.Equal(t, sess.ID, cookies[0].Value)
		assert.True(t, cookies[0].Secure)
		assert.True(t, cookies[0].HttpOnly)
		assert.False(t, sess.IsNew())
		assert.False(t, sess.IsDirty())
	})

	t.Run("clean existing session writes nothing", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store)

		sess := session.New("sid-3", time.Now().Add(time.Hour))
		require.NoError(t, store.Create(context.Background(), sess))
		sess.ClearNew()
		sess.ClearDirty()

		rec := httptest.NewRecorder()
		require.NoError(t, sm.Persist(context.Background(), rec, sess))

		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("dirty session is saved", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sm := NewSessionManager(store)

		sess := session.New("sid-4", time.Now().Add(time.Hour))
		require.NoError(t, store.Create(context.Background(), sess))
		sess.ClearNew()
		sess.ClearDirty()

		sess.Put("cart", []string{"sku-1"})

		rec := httptest.NewRecorder()
		require.NoError(t, sm.Persist(context.Background(), rec, sess))

		saved, err := store.Get(context.Background(), "sid-4")
		require.NoError(t, err)
		v, ok := saved.Get("cart")
		require.True(t, ok)
		assert.Equal(t, []string{"sku-1"}, v)
		assert.False(t, sess.IsDirty())
	})
}

func TestSessionManagerClearCookie(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(session.NewMemoryStore())

	rec := httptest.NewRecorder()
	sm.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "__sid", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
