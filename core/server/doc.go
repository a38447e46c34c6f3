// Package server runs the HTTP listener that hosts the bridge.
//
// It wraps http.Server with configuration from the environment and graceful
// shutdown. TLS is left to the proxy in front of it:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//
// Run blocks until its context is canceled and then shuts the server down
// within ShutdownTimeout.
package server
