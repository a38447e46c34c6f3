// Package reqctx holds the engine-side state of one request: the exchange,
// the mapping resolver, output flags and lazily created adjuncts such as the
// page context.
//
// Adjuncts are created at most once per request through AttachOnce, which
// guards creation with a lock owned by the RequestContext itself, so unrelated
// requests never contend.
//
//	rc, err := reqctx.New(ex, reqctx.WithResolver(resolver))
//	if err != nil {
//		return err
//	}
//	defer rc.Release()
//
//	pc, err := rc.PageContext()
package reqctx
