package scope

import (
	"fmt"
	"strings"
)

// Tier identifies one attribute store in the lookup chain. Lower values win.
type Tier int

const (
	// None reports that an attribute is absent from every tier.
	None Tier = iota
	Page
	Request
	Session
	Application
)

// Tiers lists the tiers in lookup order.
var Tiers = []Tier{Page, Request, Session, Application}

func (t Tier) String() string {
	switch t {
	case None:
		return "none"
	case Page:
		return "page"
	case Request:
		return "request"
	case Session:
		return "session"
	case Application:
		return "application"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t names a real tier.
func (t Tier) Valid() bool {
	return t >= Page && t <= Application
}

// ParseTier converts a tier name, case-insensitively.
func ParseTier(name string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "page":
		return Page, nil
	case "request":
		return Request, nil
	case "session":
		return Session, nil
	case "application":
		return Application, nil
	}
	return None, fmt.Errorf("%w: %q", ErrInvalidTier, name)
}
