package exchange

import "github.com/dmitrymomot/webbridge/core/scope"

// RequestAttributes returns the request-tier attribute store.
func (e *Exchange) RequestAttributes() scope.Store {
	return e.attrs
}

// Attribute returns a request attribute, or nil.
func (e *Exchange) Attribute(name string) any {
	v, _ := e.attrs.Attribute(name)
	return v
}

// SetAttribute sets a request attribute. A nil value removes it.
func (e *Exchange) SetAttribute(name string, value any) {
	e.attrs.SetAttribute(name, value)
}

// RemoveAttribute removes a request attribute.
func (e *Exchange) RemoveAttribute(name string) {
	e.attrs.RemoveAttribute(name)
}

// AttributeMap returns a copy of all request attributes.
func (e *Exchange) AttributeMap() map[string]any {
	return e.attrs.Snapshot()
}

// Session returns the session tier of this request. The provider is asked once.
func (e *Exchange) Session() (scope.Store, bool) {
	e.sessionOnce.Do(func() {
		if e.sessions == nil {
			return
		}
		e.session, e.hasSession = e.sessions.Session(e.request)
		if e.session == nil {
			e.hasSession = false
		}
	})
	return e.session, e.hasSession
}

// Application returns the application tier. Without a container it is an
// empty store private to this exchange.
func (e *Exchange) Application() scope.Store {
	return e.appAttrs
}
