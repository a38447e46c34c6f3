// Package gateway is the HTTP entry point of the bridge. A Handler wraps an
// Engine: for every request it assigns a request ID, builds the exchange and
// request context, runs the engine and then tears everything down.
//
// Teardown always happens, whether the engine returns normally, fails or
// panics. The page context is released, the session is persisted, staged
// uploads are removed and buffered output is flushed. An engine failure
// that happens before the response is committed is replaced with a plain 500.
//
//	h, err := gateway.New(engine,
//		gateway.WithContainer(c),
//		gateway.WithSessions(sessions),
//		gateway.WithStorage(store),
//		gateway.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	http.ListenAndServe(":8080", h)
package gateway
