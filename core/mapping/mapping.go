package mapping

import (
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/webbridge/core/logger"
)

// RootName is the mapping name of the web root.
const RootName = "/"

// RealPather maps a logical path to an absolute filesystem path.
type RealPather interface {
	RealPath(logical string) (string, bool)
}

// Entry is a resolved logical path.
type Entry struct {
	// Name is the virtual root, "/" for the web root.
	Name string
	// Root is the absolute directory backing Name.
	Root string
	// Relative is the cleaned logical path, slash separated.
	Relative string
	// Absolute is the resolved file on disk.
	Absolute string
}

// Event is published by the engine when it cannot map a path itself.
// A listener that can resolve Path sets Resolved; otherwise it leaves it nil.
type Event struct {
	Path     string
	Resolved *Entry
}

// Listener handles a missing-mapping event.
type Listener func(*Event)

// Resolver resolves logical paths through a RealPather.
type Resolver struct {
	pather RealPather
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for resolution misses.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver backed by pather.
func NewResolver(pather RealPather, opts ...Option) *Resolver {
	r := &Resolver{pather: pather, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps logical to an Entry. It returns false when the host has no
// real path for it; that is a normal outcome, not an error.
func (r *Resolver) Resolve(logical string) (Entry, bool) {
	resolved, ok := r.resolveAbsolute(logical)
	if !ok {
		r.logger.Debug("no real path for logical path",
			logger.Component("mapping"),
			logger.Path(logical),
		)
		return Entry{}, false
	}

	relative := path.Clean(logical)
	entry := Entry{
		Relative: relative,
		Absolute: resolved,
	}

	if root, ok := r.pather.RealPath(RootName); ok && within(root, resolved) {
		entry.Name = RootName
		entry.Root = root
		return entry, true
	}

	// Outside the web root: the containing folders become an ad hoc mapping.
	entry.Name = path.Dir(relative)
	if entry.Name == "." {
		entry.Name = RootName
	}
	entry.Root = filepath.Dir(resolved)

	r.logger.Debug("logical path resolved outside web root",
		logger.Component("mapping"),
		logger.Path(logical),
		logger.Mapping(entry.Name, entry.Root),
	)
	return entry, true
}

func (r *Resolver) resolveAbsolute(logical string) (string, bool) {
	before, after, traversal := strings.Cut(logical, "..")
	if !traversal {
		resolved, ok := r.pather.RealPath(logical)
		if !ok {
			return "", false
		}
		return filepath.Clean(resolved), true
	}

	base, ok := r.pather.RealPath(before)
	if !ok {
		return "", false
	}
	return filepath.Join(base, filepath.FromSlash(".."+after)), true
}

// OnMissingMapping fills ev.Resolved when ev.Path can be resolved.
func (r *Resolver) OnMissingMapping(ev *Event) {
	if ev == nil {
		return
	}
	if entry, ok := r.Resolve(ev.Path); ok {
		ev.Resolved = &entry
	}
}

// Listener returns OnMissingMapping for registration with an engine.
func (r *Resolver) Listener() Listener {
	return r.OnMissingMapping
}

// within reports whether target is root or lies beneath it, comparing whole
// path components.
func within(root, target string) bool {
	root = filepath.Clean(root)
	target = filepath.Clean(target)
	if target == root {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(target, root)
}
