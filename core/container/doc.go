// Package container is the net/http host binding: it owns the web root, the
// virtual directory table and the application attribute store, and answers
// real-path lookups for the exchange and the mapping resolver.
//
// RealPath never resolves above its base. A logical path whose ".." segments
// climb out of the web root or alias has no real path; the mapping resolver
// handles such paths itself.
//
//	aliases, err := container.LoadAliases("aliases.yaml")
//	if err != nil {
//		return err
//	}
//	c, err := container.New("./public", container.WithAliases(aliases))
package container
