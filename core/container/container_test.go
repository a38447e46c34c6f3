package container_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webbridge/core/container"
	"github.com/dmitrymomot/webbridge/core/mapping"
	"github.com/dmitrymomot/webbridge/core/scope"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		_, err := container.New(filepath.Join(t.TempDir(), "missing"))
		require.ErrorIs(t, err, container.ErrInvalidWebRoot)
	})

	t.Run("root is a file", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "f")
		require.NoError(t, os.WriteFile(file, nil, 0o600))
		_, err := container.New(file)
		require.ErrorIs(t, err, container.ErrInvalidWebRoot)
	})

	t.Run("invalid alias", func(t *testing.T) {
		t.Parallel()
		_, err := container.New(t.TempDir(), container.WithAliases(map[string]string{"/": "/srv"}))
		require.ErrorIs(t, err, container.ErrInvalidAlias)
	})

	t.Run("application store", func(t *testing.T) {
		t.Parallel()
		app := scope.NewMapStore()
		c, err := container.New(t.TempDir(), container.WithApplicationStore(app))
		require.NoError(t, err)
		assert.Same(t, app, c.Attributes())
	})
}

func TestContainer_RealPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	shared := t.TempDir()
	c, err := container.New(root, container.WithAliases(map[string]string{
		"/lib":        shared,
		"/lib/vendor": "vendor",
	}))
	require.NoError(t, err)

	tests := []struct {
		name    string
		logical string
		want    string
		ok      bool
	}{
		{"web root", "/", root, true},
		{"file under root", "/a/b.bxm", filepath.Join(root, "a", "b.bxm"), true},
		{"missing leading slash", "a.bxm", filepath.Join(root, "a.bxm"), true},
		{"trailing slash", "/foo/", filepath.Join(root, "foo"), true},
		{"alias", "/lib/x.bx", filepath.Join(shared, "x.bx"), true},
		{"alias root", "/lib", shared, true},
		{"longest alias wins", "/lib/vendor/y.bx", filepath.Join(root, "vendor", "y.bx"), true},
		{"alias prefix needs separator", "/library/z.bx", filepath.Join(root, "library", "z.bx"), true},
		{"inner traversal", "/a/../b.bxm", filepath.Join(root, "b.bxm"), true},
		{"climbs above root", "/../secret.txt", "", false},
		{"climbs after descent", "/a/../../secret.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := c.RealPath(tt.logical)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContainer_WithResolver(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	root := filepath.Join(parent, "site")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "foo"), 0o755))

	c, err := container.New(root)
	require.NoError(t, err)

	entry, ok := mapping.NewResolver(c).Resolve("/foo/../../secret.txt")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(parent, "secret.txt"), entry.Absolute)
	assert.Equal(t, parent, entry.Root)
	assert.Equal(t, "/", entry.Name)

	entry, ok = mapping.NewResolver(c).Resolve("/foo/page.bxm")
	require.True(t, ok)
	assert.Equal(t, root, entry.Root)
	assert.Equal(t, "/", entry.Name)
}

func TestLoadAliases(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		file := filepath.Join(dir, "aliases.yaml")
		content := "aliases:\n  /shared: /srv/shared\n  /docs: docs\n"
		require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

		aliases, err := container.LoadAliases(file)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"/shared": "/srv/shared",
			"/docs":   filepath.Join(dir, "docs"),
		}, aliases)
	})

	t.Run("missing target", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "aliases.yaml")
		require.NoError(t, os.WriteFile(file, []byte("aliases:\n  /x: \"\"\n"), 0o600))

		_, err := container.LoadAliases(file)
		require.ErrorIs(t, err, container.ErrInvalidAlias)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "aliases.yaml")
		require.NoError(t, os.WriteFile(file, []byte("aliases: [unclosed"), 0o600))

		_, err := container.LoadAliases(file)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := container.LoadAliases(filepath.Join(t.TempDir(), "none.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
