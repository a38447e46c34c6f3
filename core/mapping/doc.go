// Package mapping resolves logical page paths to files on disk when the engine
// has no mapping of its own for them.
//
// The host supplies a RealPather (typically the container). A logical path
// without ".." is passed to it whole. A path with ".." is split at the first
// occurrence: the part before it is resolved through the RealPather and the
// remainder is applied to the result on disk, since hosts refuse to resolve
// above their web root.
//
// Paths landing inside the web root map to "/". Paths landing outside it get an
// ad hoc mapping: the parent of the logical path becomes the mapping name and
// the parent of the resolved file becomes the mapping root.
//
//	r := mapping.NewResolver(container)
//	engine.OnMissingMapping(r.Listener())
package mapping
