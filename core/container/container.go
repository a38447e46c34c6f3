package container

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmitrymomot/webbridge/core/logger"
	"github.com/dmitrymomot/webbridge/core/scope"
)

// Container binds a web root on disk, optional virtual directories and the
// application attribute store shared by every request.
type Container struct {
	root     string
	aliases  map[string]string
	prefixes []string
	app      scope.Store
	logger   *slog.Logger
}

// Option configures a Container.
type Option func(*Container) error

// WithAliases maps logical path prefixes to directories outside the web root.
// Relative targets are resolved against the web root.
func WithAliases(aliases map[string]string) Option {
	return func(c *Container) error {
		for prefix, target := range aliases {
			if strings.Trim(prefix, "/") == "" || target == "" {
				return fmt.Errorf("%w: %q -> %q", ErrInvalidAlias, prefix, target)
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(c.root, target)
			}
			c.aliases[path.Clean("/"+prefix)] = filepath.Clean(target)
		}
		return nil
	}
}

// WithApplicationStore sets the application attribute store.
func WithApplicationStore(s scope.Store) Option {
	return func(c *Container) error {
		if s != nil {
			c.app = s
		}
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// New creates a Container serving the directory root.
func New(root string, opts ...Option) (*Container, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebRoot, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidWebRoot, abs)
	}

	c := &Container{
		root:    abs,
		aliases: make(map[string]string),
		app:     scope.NewMapStore(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	// Longest prefix first.
	c.prefixes = slices.SortedFunc(maps.Keys(c.aliases), func(a, b string) int {
		if d := len(b) - len(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	c.logger.Debug("container ready",
		logger.Component("container"),
		logger.Mapping("/", c.root),
		logger.Count("aliases", len(c.aliases)),
	)
	return c, nil
}

// WebRoot returns the absolute web root directory.
func (c *Container) WebRoot() string {
	return c.root
}

// Attributes returns the application attribute store.
func (c *Container) Attributes() scope.Store {
	return c.app
}

// Aliases returns a copy of the virtual directory table.
func (c *Container) Aliases() map[string]string {
	return maps.Clone(c.aliases)
}

// RealPath maps a logical path to a filesystem path under the web root or
// under the alias with the longest matching prefix. A path that climbs above
// its base with ".." has no real path.
func (c *Container) RealPath(logical string) (string, bool) {
	logical = "/" + strings.TrimLeft(filepath.ToSlash(logical), "/")
	if climbs(logical) {
		return "", false
	}

	cleaned := path.Clean(logical)
	base, rest := c.root, cleaned
	for _, prefix := range c.prefixes {
		if cleaned == prefix || strings.HasPrefix(cleaned, prefix+"/") {
			base, rest = c.aliases[prefix], strings.TrimPrefix(cleaned, prefix)
			break
		}
	}

	return filepath.Join(base, filepath.FromSlash(rest)), true
}

// climbs reports whether the ".." segments of p reach above its start.
func climbs(p string) bool {
	depth := 0
	for seg := range strings.SplitSeq(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return true
			}
		default:
			depth++
		}
	}
	return false
}
