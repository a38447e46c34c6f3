// Package session provides the session tier of the request attribute chain.
//
// A Session is an attribute store keyed by a cryptographically secure token
// carried in a cookie. It implements scope.Store, so the page context reads and
// writes it like any other tier.
//
// # Core Components
//
//   - Session: attribute container with expiry and modification tracking
//   - Store: persistence interface; MemoryStore here, Redis in integration/database/redis
//   - Manager: looks sessions up from cookies, starts, persists and expires them
//   - Provider: per-request, lazy session resolution handed to the exchange
//
// # Basic Usage
//
//	manager := session.NewManager(session.NewMemoryStore(),
//		session.WithTTL(2*time.Hour),
//		session.WithAutoStart(true),
//	)
//
//	func handle(w http.ResponseWriter, r *http.Request) {
//		var ex *exchange.Exchange
//		sessions := manager.Provider(r.Context(), session.CookieWriterFunc(func(c *cookie.Cookie) error {
//			return ex.AddCookie(c)
//		}))
//		ex = exchange.New(w, r, exchange.WithSessions(sessions))
//		defer sessions.Persist()
//		// ...
//	}
//
// The session cookie goes through the exchange, so a session started after
// the response was committed is logged instead of silently losing its cookie.
// The session is looked up only when something asks for it. A request without
// a session cookie has no session tier unless auto start is enabled.
//
// # Persistence
//
// Persist deletes invalidated sessions, saves modified ones and extends
// expiry at most once per touch interval, reducing writes to the store.
// Call CleanupExpired periodically for stores without native expiry.
//
// # Thread Safety
//
// Session guards its attributes with a mutex. MemoryStore copies sessions on
// the way in and out, so callers never share state through it. Provider is
// private to one request.
package session
