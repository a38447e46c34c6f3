package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webbridge/core/session"
	"github.com/dmitrymomot/webbridge/integration/database/redis"
)

func newSession(t *testing.T, ttl time.Duration) *session.Session {
	t.Helper()
	s, err := session.New(ttl)
	require.NoError(t, err)
	return s
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newFakeClient()
	store := redis.NewSessionStore(client, redis.WithKeyPrefix("test:"))

	s := newSession(t, time.Hour)
	s.SetAttribute("user", "alice")
	s.SetAttribute("visits", 3)
	require.NoError(t, store.Save(ctx, s))

	byToken, err := store.GetByToken(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, byToken.ID)
	assert.Equal(t, s.Token, byToken.Token)
	assert.WithinDuration(t, s.ExpiresAt, byToken.ExpiresAt, time.Millisecond)
	assert.True(t, byToken.DeletedAt.IsZero())
	assert.False(t, byToken.IsModified())

	user, ok := byToken.Attribute("user")
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
	visits, ok := byToken.Attribute("visits")
	assert.True(t, ok)
	assert.Equal(t, int64(3), visits)

	byID, err := store.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Token, byID.Token)

	assert.True(t, client.has("test:session:data:"+s.ID.String()))
	assert.True(t, client.has("test:session:token:"+s.Token))
	assert.InDelta(t, time.Hour.Seconds(), client.expiration("test:session:token:"+s.Token).Seconds(), 5)
}

func TestSessionStore_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := redis.NewSessionStore(newFakeClient())

	_, err := store.GetByToken(ctx, "missing")
	require.ErrorIs(t, err, session.ErrNotFound)

	_, err = store.GetByID(ctx, newSession(t, time.Hour).ID)
	require.ErrorIs(t, err, session.ErrNotFound)

	err = store.Delete(ctx, newSession(t, time.Hour).ID)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_TokenRotation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := redis.NewSessionStore(newFakeClient())

	s := newSession(t, time.Hour)
	require.NoError(t, store.Save(ctx, s))
	oldToken := s.Token

	require.NoError(t, s.Refresh())
	require.NoError(t, store.Save(ctx, s))

	_, err := store.GetByToken(ctx, oldToken)
	require.ErrorIs(t, err, session.ErrNotFound)

	got, err := store.GetByToken(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestSessionStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newFakeClient()
	store := redis.NewSessionStore(client)

	s := newSession(t, time.Hour)
	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, store.Delete(ctx, s.ID))

	assert.False(t, client.has("webbridge:session:data:"+s.ID.String()))
	assert.False(t, client.has("webbridge:session:token:"+s.Token))
}

func TestSessionStore_SaveExpiredRemoves(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := redis.NewSessionStore(newFakeClient())

	s := newSession(t, time.Hour)
	require.NoError(t, store.Save(ctx, s))

	s.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.Save(ctx, s))

	_, err := store.GetByID(ctx, s.ID)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := redis.NewSessionStore(newFakeClient())

	live := newSession(t, time.Hour)
	stale := newSession(t, 20*time.Millisecond)
	require.NoError(t, store.Save(ctx, live))
	require.NoError(t, store.Save(ctx, stale))

	time.Sleep(50 * time.Millisecond)

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.GetByID(ctx, stale.ID)
	require.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.GetByID(ctx, live.ID)
	require.NoError(t, err)
}

func TestSessionStore_CorruptRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newFakeClient()
	store := redis.NewSessionStore(client)

	client.Set(ctx, "webbridge:session:token:tok", "id-1", time.Hour)
	client.Set(ctx, "webbridge:session:data:id-1", []byte{0xff, 0x00}, time.Hour)

	_, err := store.GetByToken(ctx, "tok")
	require.ErrorIs(t, err, redis.ErrDecode)
}

func TestSessionStore_WithManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := redis.NewSessionStore(newFakeClient())
	mgr := session.NewManager(store, session.WithTTL(time.Hour))

	s := newSession(t, time.Hour)
	s.SetAttribute("cart", "3 items")
	require.NoError(t, mgr.Persist(ctx, s))

	got, err := mgr.GetByToken(ctx, s.Token)
	require.NoError(t, err)
	v, ok := got.Attribute("cart")
	assert.True(t, ok)
	assert.Equal(t, "3 items", v)

	got.Invalidate()
	require.NoError(t, mgr.Persist(ctx, got))
	_, err = mgr.GetByToken(ctx, s.Token)
	require.ErrorIs(t, err, session.ErrNotFound)
}
