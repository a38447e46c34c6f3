package scope

import "sync"

// PageContext chains the page tier to the request, session and application
// tiers of one request. It is private to that request.
type PageContext struct {
	mu          sync.RWMutex
	page        *MapStore
	request     Store
	session     Store
	application Store
	initialized bool
	released    bool
}

// New returns a page context that must be initialized before use.
func New() *PageContext {
	return &PageContext{page: NewMapStore()}
}

// Initialize binds the context to the stores of a live request. session may be
// nil when the request has no session; request and application are required.
func (pc *PageContext) Initialize(request, session, application Store) error {
	if request == nil || application == nil {
		return ErrMissingStore
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.released {
		return ErrReleased
	}
	pc.request = request
	pc.session = session
	pc.application = application
	pc.initialized = true
	return nil
}

// HasSession reports whether a session tier is bound.
func (pc *PageContext) HasSession() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.session != nil
}

// Released reports whether Release has been called.
func (pc *PageContext) Released() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.released
}

// store returns the backing store of an explicit tier.
func (pc *PageContext) store(tier Tier) (Store, error) {
	if pc.released {
		return nil, ErrReleased
	}
	if !tier.Valid() {
		return nil, ErrInvalidTier
	}
	if tier == Page {
		return pc.page, nil
	}
	if !pc.initialized {
		return nil, ErrNotInitialized
	}

	switch tier {
	case Request:
		return pc.request, nil
	case Session:
		if pc.session == nil {
			return nil, ErrNoSession
		}
		return pc.session, nil
	default:
		return pc.application, nil
	}
}

type link struct {
	tier  Tier
	store Store
}

// chain returns the stores visible to Find, in priority order.
func (pc *PageContext) chain() []link {
	if pc.released {
		return nil
	}

	out := []link{{Page, pc.page}}
	if !pc.initialized {
		return out
	}

	out = append(out, link{Request, pc.request})
	if pc.session != nil {
		out = append(out, link{Session, pc.session})
	}
	return append(out, link{Application, pc.application})
}

// Attribute reads name from exactly one tier. A missing attribute is (nil, nil).
func (pc *PageContext) Attribute(name string, tier Tier) (any, error) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	s, err := pc.store(tier)
	if err != nil {
		return nil, err
	}
	v, _ := s.Attribute(name)
	return v, nil
}

// PageAttribute reads name from the page tier.
func (pc *PageContext) PageAttribute(name string) any {
	v, _ := pc.Attribute(name, Page)
	return v
}

// Find returns the first non-nil value of name walking page, request,
// session and application. It returns nil when no tier holds the name.
func (pc *PageContext) Find(name string) any {
	v, _ := pc.lookup(name)
	return v
}

// AttributesScope reports the tier whose value Find would return, or None.
func (pc *PageContext) AttributesScope(name string) Tier {
	_, tier := pc.lookup(name)
	return tier
}

func (pc *PageContext) lookup(name string) (any, Tier) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	for _, l := range pc.chain() {
		if v, ok := l.store.Attribute(name); ok && v != nil {
			return v, l.tier
		}
	}
	return nil, None
}

// SetAttribute stores value in the page tier. Setting nil removes it.
// Calls after Release are ignored.
func (pc *PageContext) SetAttribute(name string, value any) {
	_ = pc.SetAttributeIn(name, value, Page)
}

// SetAttributeIn stores value in exactly the given tier. Setting nil removes it.
func (pc *PageContext) SetAttributeIn(name string, value any, tier Tier) error {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	s, err := pc.store(tier)
	if err != nil {
		return err
	}
	if value == nil {
		s.RemoveAttribute(name)
		return nil
	}
	s.SetAttribute(name, value)
	return nil
}

// RemoveAttribute removes name from the page tier.
func (pc *PageContext) RemoveAttribute(name string) {
	_ = pc.RemoveAttributeIn(name, Page)
}

// RemoveAttributeIn removes name from exactly the given tier.
func (pc *PageContext) RemoveAttributeIn(name string, tier Tier) error {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	s, err := pc.store(tier)
	if err != nil {
		return err
	}
	s.RemoveAttribute(name)
	return nil
}

// AttributeNamesIn lists the names stored in one tier.
func (pc *PageContext) AttributeNamesIn(tier Tier) ([]string, error) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	s, err := pc.store(tier)
	if err != nil {
		return nil, err
	}
	return s.AttributeNames(), nil
}

// Release clears the page tier and drops every external reference.
// It is safe to call more than once.
func (pc *PageContext) Release() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.released {
		return
	}
	pc.page.Clear()
	pc.request = nil
	pc.session = nil
	pc.application = nil
	pc.released = true
}
