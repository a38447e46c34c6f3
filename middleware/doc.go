// Package middleware provides net/http middleware for the host router in
// front of the bridge gateway.
//
//	r := chi.NewRouter()
//	r.Use(
//		middleware.SecurityHeaders(middleware.BalancedSecurity),
//		middleware.BodyLimit(middleware.BodyLimitConfig{
//			MaxSize:          4 * middleware.MB,
//			ContentTypeLimit: map[string]int64{"multipart/form-data": 32 * middleware.MB},
//		}),
//	)
//
// BodyLimit rejects requests whose declared Content-Length is over the limit
// with 413 and caps the readable body of the rest, so the body decoder fails
// instead of buffering an unbounded upload.
package middleware
