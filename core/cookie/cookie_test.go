package cookie_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webbridge/core/cookie"
)

func TestCookie_String(t *testing.T) {
	t.Parallel()

	expires := time.Date(2030, time.January, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name   string
		cookie *cookie.Cookie
		want   string
	}{
		{
			name:   "name and value only",
			cookie: cookie.New("id", "42"),
			want:   "id=42",
		},
		{
			name: "all attributes",
			cookie: cookie.New("sid", "abc",
				cookie.WithExpires(expires),
				cookie.WithMaxAge(3600),
				cookie.WithDomain("example.com"),
				cookie.WithPath("/app"),
				cookie.WithSecure(true),
				cookie.WithHTTPOnly(true),
				cookie.WithSameSite(cookie.SameSiteStrict),
			),
			want: "sid=abc; Expires=Wed, 02 Jan 2030 03:04:05 GMT; Max-Age=3600; Domain=example.com; Path=/app; Secure; HttpOnly; SameSite=Strict",
		},
		{
			name:   "negative max age deletes",
			cookie: cookie.New("gone", "", cookie.WithMaxAge(-1)),
			want:   "gone=; Max-Age=0",
		},
		{
			name:   "value is encoded",
			cookie: cookie.New("msg", "hello world;x"),
			want:   "msg=hello%20world%3Bx",
		},
		{
			name:   "same site none",
			cookie: cookie.New("x", "1", cookie.WithSameSite(cookie.SameSiteNone), cookie.WithSecure(true)),
			want:   "x=1; Secure; SameSite=None",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cookie.String())
		})
	}
}

func TestCookie_RoundTrip(t *testing.T) {
	t.Parallel()

	out := cookie.New("Session", "a b/c=d", cookie.WithDomain("example.com"), cookie.WithPath("/"))
	header := out.String()

	assert.NotContains(t, header, "Max-Age")
	assert.NotContains(t, header, "Expires")
	assert.NotContains(t, header, "Secure")
	assert.NotContains(t, header, "HttpOnly")
	assert.NotContains(t, header, "SameSite")

	// A browser sends back only name=value.
	nameValue, _, _ := strings.Cut(header, ";")
	h := http.Header{}
	h.Set("Cookie", nameValue)

	in := cookie.Parse(h)
	require.Len(t, in, 1)
	assert.Equal(t, "Session", in[0].Name)
	assert.Equal(t, "a b/c=d", in[0].Value)
	assert.True(t, in[0].IsFromWire())
	assert.Empty(t, in[0].Domain)
	assert.Empty(t, in[0].Path)
}

func TestFromWire(t *testing.T) {
	t.Parallel()

	t.Run("keeps raw value", func(t *testing.T) {
		t.Parallel()
		c := cookie.FromWire("pref", "a%2Bb")
		assert.Equal(t, "a+b", c.Value)
		assert.Equal(t, "a%2Bb", c.EncodedValue())
		assert.Equal(t, "pref=a%2Bb", c.String())
	})

	t.Run("undecodable value kept as is", func(t *testing.T) {
		t.Parallel()
		c := cookie.FromWire("bad", "100%")
		assert.Equal(t, "100%", c.Value)
		assert.Equal(t, "100%", c.EncodedValue())
	})

	t.Run("no inferred attributes", func(t *testing.T) {
		t.Parallel()
		c := cookie.FromWire("a", "b")
		assert.Zero(t, c.MaxAge)
		assert.False(t, c.Secure)
		assert.False(t, c.HTTPOnly)
		assert.Empty(t, c.SameSite)
		assert.True(t, c.Expires.IsZero())
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Add("Cookie", "a=1; B=2")
	h.Add("Cookie", "a=3")

	cookies := cookie.Parse(h)
	require.Len(t, cookies, 3)
	assert.Equal(t, "a", cookies[0].Name)
	assert.Equal(t, "1", cookies[0].Value)
	assert.Equal(t, "B", cookies[1].Name)
	assert.Equal(t, "3", cookies[2].Value)

	assert.Empty(t, cookie.Parse(http.Header{}))
}

func TestParse_RawValues(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Set("Cookie", `q="abc"; bs=a\b; ok=1; novalue; =anon; empty=`)

	cookies := cookie.Parse(h)
	require.Len(t, cookies, 4)

	assert.Equal(t, "q", cookies[0].Name)
	assert.Equal(t, `"abc"`, cookies[0].EncodedValue())
	assert.Equal(t, `q="abc"`, cookies[0].String())

	assert.Equal(t, "bs", cookies[1].Name)
	assert.Equal(t, `a\b`, cookies[1].Value)
	assert.Equal(t, `a\b`, cookies[1].EncodedValue())

	assert.Equal(t, "ok", cookies[2].Name)
	assert.Equal(t, "1", cookies[2].Value)

	assert.Equal(t, "empty", cookies[3].Name)
	assert.Empty(t, cookies[3].Value)
	assert.True(t, cookies[3].IsFromWire())
}

func TestLookup(t *testing.T) {
	t.Parallel()

	cookies := []*cookie.Cookie{
		cookie.FromWire("CFID", "first"),
		cookie.FromWire("cfid", "second"),
	}

	c, ok := cookie.Lookup(cookies, "Cfid")
	require.True(t, ok)
	assert.Equal(t, "first", c.Value)

	_, ok = cookie.Lookup(cookies, "missing")
	assert.False(t, ok)
}

func TestCookie_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, cookie.New("ok", "v", cookie.WithPath("/")).Validate(cookie.MaxCookieSize))
	assert.ErrorIs(t, cookie.New("", "v").Validate(0), cookie.ErrInvalidName)
	assert.ErrorIs(t, cookie.New("bad name", "v").Validate(0), cookie.ErrInvalidName)
	assert.ErrorIs(t, cookie.New("x", "v", cookie.WithPath("/a;b")).Validate(0), cookie.ErrInvalidPath)
	assert.ErrorIs(t, cookie.New("x", "v", cookie.WithDomain("a\nb")).Validate(0), cookie.ErrInvalidDomain)

	err := cookie.New("big", strings.Repeat("x", 100)).Validate(50)
	var tooLarge cookie.ErrCookieTooLarge
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, "big", tooLarge.Name)
	assert.Equal(t, 50, tooLarge.Max)
	assert.Greater(t, tooLarge.Size, 50)
}

func TestConfig_Apply(t *testing.T) {
	t.Parallel()

	cfg := cookie.Config{Path: "/", Secure: true, SameSite: "Lax", MaxSize: cookie.MaxCookieSize}

	c := cookie.New("a", "b", cookie.WithPath("/custom"))
	cfg.Apply(c)

	assert.Equal(t, "/custom", c.Path)
	assert.True(t, c.Secure)
	assert.Equal(t, cookie.SameSiteLax, c.SameSite)
	assert.False(t, c.HTTPOnly)

	assert.Empty(t, cookie.DefaultConfig().Options())
}
