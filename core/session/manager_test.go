package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webbridge/core/cookie"
	"github.com/dmitrymomot/webbridge/core/session"
)

// mockStore implements session.Store interface for testing
type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *mockStore) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: token})
	}
	return r
}

func TestManager_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("valid session", func(t *testing.T) {
		t.Parallel()
		live, err := session.New(time.Hour)
		require.NoError(t, err)

		store := &mockStore{}
		store.On("GetByToken", mock.Anything, live.Token).Return(live, nil)

		got, ok := session.NewManager(store).Lookup(context.Background(), requestWithToken(live.Token))
		require.True(t, ok)
		assert.Equal(t, live.ID, got.ID)
		store.AssertExpectations(t)
	})

	t.Run("no cookie", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}

		_, ok := session.NewManager(store).Lookup(context.Background(), requestWithToken(""))
		assert.False(t, ok)
		store.AssertNotCalled(t, "GetByToken", mock.Anything, mock.Anything)
	})

	t.Run("expired session", func(t *testing.T) {
		t.Parallel()
		expired, err := session.New(-time.Hour)
		require.NoError(t, err)

		store := &mockStore{}
		store.On("GetByToken", mock.Anything, expired.Token).Return(expired, nil)

		_, ok := session.NewManager(store).Lookup(context.Background(), requestWithToken(expired.Token))
		assert.False(t, ok)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		store.On("GetByToken", mock.Anything, "tok").Return(nil, errors.New("connection refused"))

		_, ok := session.NewManager(store).Lookup(context.Background(), requestWithToken("tok"))
		assert.False(t, ok)
	})

	t.Run("custom cookie name", func(t *testing.T) {
		t.Parallel()
		live, err := session.New(time.Hour)
		require.NoError(t, err)

		store := &mockStore{}
		store.On("GetByToken", mock.Anything, live.Token).Return(live, nil)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "sid", Value: live.Token})

		_, ok := session.NewManager(store, session.WithCookieName("SID")).Lookup(context.Background(), r)
		assert.True(t, ok, "cookie names match case-insensitively")
	})
}

func TestManager_Start(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	m := session.NewManager(&mockStore{}, session.WithTTL(time.Hour))

	s, err := m.Start(context.Background(), session.HeaderCookies(rec))
	require.NoError(t, err)
	assert.True(t, s.IsModified())

	header := rec.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, session.DefaultCookieName+"="+s.Token))
	assert.Contains(t, header, "Max-Age=3600")
	assert.Contains(t, header, "Path=/")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "SameSite=Lax")
}

func TestManager_StartCookieRefused(t *testing.T) {
	t.Parallel()

	var got []string
	out := session.CookieWriterFunc(func(c *cookie.Cookie) error {
		got = append(got, c.Name)
		return errors.New("response already committed")
	})

	m := session.NewManager(&mockStore{})
	s, err := m.Start(context.Background(), out)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, []string{session.DefaultCookieName}, got)
}

func TestManager_Persist(t *testing.T) {
	t.Parallel()

	t.Run("saves modified session once", func(t *testing.T) {
		t.Parallel()
		s, err := session.New(time.Hour)
		require.NoError(t, err)

		store := &mockStore{}
		store.On("Save", mock.Anything, s).Return(nil).Once()
		m := session.NewManager(store)

		require.NoError(t, m.Persist(context.Background(), s))
		assert.False(t, s.IsModified())

		require.NoError(t, m.Persist(context.Background(), s))
		store.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("save failure", func(t *testing.T) {
		t.Parallel()
		s, err := session.New(time.Hour)
		require.NoError(t, err)

		store := &mockStore{}
		store.On("Save", mock.Anything, s).Return(errors.New("disk full"))

		err = session.NewManager(store).Persist(context.Background(), s)
		require.ErrorIs(t, err, session.ErrSaveSession)
		assert.True(t, s.IsModified())
	})

	t.Run("deletes invalidated session", func(t *testing.T) {
		t.Parallel()
		s, err := session.New(time.Hour)
		require.NoError(t, err)
		s.Invalidate()

		store := &mockStore{}
		store.On("Delete", mock.Anything, s.ID).Return(session.ErrNotFound)

		require.NoError(t, session.NewManager(store).Persist(context.Background(), s))
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("delete failure", func(t *testing.T) {
		t.Parallel()
		s, err := session.New(time.Hour)
		require.NoError(t, err)
		s.Invalidate()

		store := &mockStore{}
		store.On("Delete", mock.Anything, s.ID).Return(errors.New("timeout"))

		err = session.NewManager(store).Persist(context.Background(), s)
		require.ErrorIs(t, err, session.ErrDeleteSession)
	})
}

func TestManager_CleanupExpired(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	store.On("DeleteExpired", mock.Anything).Return(int64(3), nil)

	n, err := session.NewManager(store).CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("looks up once", func(t *testing.T) {
		t.Parallel()
		live, err := session.New(time.Hour)
		require.NoError(t, err)

		store := &mockStore{}
		store.On("GetByToken", mock.Anything, live.Token).Return(live, nil).Once()

		p := session.NewManager(store).Provider(ctx, session.HeaderCookies(httptest.NewRecorder()))
		r := requestWithToken(live.Token)

		s1, ok := p.Session(r)
		require.True(t, ok)
		s2, _ := p.Session(r)
		assert.Same(t, s1, s2)
		assert.Same(t, live, p.Current())
		store.AssertExpectations(t)
	})

	t.Run("absent without auto start", func(t *testing.T) {
		t.Parallel()
		p := session.NewManager(&mockStore{}).Provider(ctx, session.HeaderCookies(httptest.NewRecorder()))

		s, ok := p.Session(requestWithToken(""))
		assert.False(t, ok)
		assert.Nil(t, s)
		assert.Nil(t, p.Current())
		require.NoError(t, p.Persist())
	})

	t.Run("auto start and persist", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()
		rec := httptest.NewRecorder()
		m := session.NewManager(store, session.WithAutoStart(true))
		p := m.Provider(ctx, session.HeaderCookies(rec))

		s, ok := p.Session(requestWithToken(""))
		require.True(t, ok)
		s.SetAttribute("cart", "3 items")
		require.NoError(t, p.Persist())

		assert.NotEmpty(t, rec.Header().Get("Set-Cookie"))

		next := m.Provider(ctx, session.HeaderCookies(httptest.NewRecorder()))
		restored, ok := next.Session(requestWithToken(p.Current().Token))
		require.True(t, ok)
		v, _ := restored.Attribute("cart")
		assert.Equal(t, "3 items", v)
	})

	t.Run("invalidate expires cookie", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()
		m := session.NewManager(store, session.WithAutoStart(true))

		first := m.Provider(ctx, session.HeaderCookies(httptest.NewRecorder()))
		_, ok := first.Session(requestWithToken(""))
		require.True(t, ok)
		require.NoError(t, first.Persist())
		token := first.Current().Token

		rec := httptest.NewRecorder()
		p := m.Provider(ctx, session.HeaderCookies(rec))
		_, ok = p.Session(requestWithToken(token))
		require.True(t, ok)

		p.Invalidate()
		require.NoError(t, p.Persist())
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")

		_, err := store.GetByToken(ctx, token)
		require.ErrorIs(t, err, session.ErrNotFound)
	})
}
