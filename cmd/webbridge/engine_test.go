package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webbridge/core/container"
	"github.com/dmitrymomot/webbridge/core/gateway"
	"github.com/dmitrymomot/webbridge/core/session"
)

func newTestGateway(t *testing.T, files map[string]string, opts ...gateway.Option) *gateway.Handler {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}

	c, err := container.New(root)
	require.NoError(t, err)
	c.Attributes().SetAttribute("site", "Demo")

	gw, err := gateway.New(newPageEngine(slog.Default()), append([]gateway.Option{gateway.WithContainer(c)}, opts...)...)
	require.NoError(t, err)
	return gw
}

func TestPageEngine(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, map[string]string{
		"index.bxm":    "<h1>${site}</h1><p>${name}</p><p>${path}</p>",
		"css/site.css": "body{}",
		"docs/a.bxm":   "${method} ${missing}.",
	})

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{name: "template with query attribute", target: "/?name=ann", status: http.StatusOK, body: "<h1>Demo</h1><p>ann</p><p>/index.bxm</p>"},
		{name: "attribute values escaped", target: "/?name=%3Cscript%3Ealert(%22x%22)%3C%2Fscript%3E", status: http.StatusOK, body: "<h1>Demo</h1><p>&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</p><p>/index.bxm</p>"},
		{name: "nested template", target: "/docs/a.bxm", status: http.StatusOK, body: "GET ."},
		{name: "static file", target: "/css/site.css", status: http.StatusOK, body: "body{}"},
		{name: "missing file", target: "/nope.bxm", status: http.StatusNotFound, body: "Not Found\n"},
		{name: "climbing path", target: "/docs/../../etc/passwd", status: http.StatusNotFound, body: "Not Found\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestPageEngine_DirectoryRedirect(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, map[string]string{"docs/index.bxm": "docs"})

	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/docs/", rec.Header().Get("Location"))
}

func TestPageEngine_SessionVisits(t *testing.T) {
	t.Parallel()

	mgr := session.NewManager(session.NewMemoryStore(), session.WithAutoStart(true))
	gw := newTestGateway(t, map[string]string{"index.bxm": "visits=${visits}"}, gateway.WithSessions(mgr))

	rec := httptest.NewRecorder()
	gw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "visits=1", rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookies[0].Name, Value: cookies[0].Value})
	rec = httptest.NewRecorder()
	gw.ServeHTTP(rec, req)
	assert.Equal(t, "visits=2", rec.Body.String())
}
