package cookie

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxCookieSize is the maximum size for a Set-Cookie header value (4KB).
const MaxCookieSize = 4096

// SameSite is the SameSite cookie attribute. The zero value means the
// attribute is not emitted.
type SameSite string

// SameSite modes.
const (
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
	SameSiteNone   SameSite = "None"
)

// Cookie is the transport-neutral cookie model.
//
// Value always holds the decoded value. Cookies built with New are encoded on
// output; cookies built with FromWire keep the exact bytes received from the
// client and emit those unchanged.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	MaxAge   int // 0 omits the attribute, negative emits Max-Age=0
	Secure   bool
	HTTPOnly bool
	SameSite SameSite
	Expires  time.Time

	raw      string
	fromWire bool
}

// New builds an outgoing cookie. value is stored decoded.
func New(name, value string, opts ...Option) *Cookie {
	o := applyOptions(Options{}, opts)
	return &Cookie{
		Name:     name,
		Value:    value,
		Domain:   o.Domain,
		Path:     o.Path,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HTTPOnly: o.HTTPOnly,
		SameSite: o.SameSite,
		Expires:  o.Expires,
	}
}

// FromWire reconstructs an incoming cookie from its name and encoded value.
// No other attribute is ever transmitted by clients, so none is inferred.
func FromWire(name, raw string) *Cookie {
	value, err := url.PathUnescape(raw)
	if err != nil {
		value = raw
	}
	return &Cookie{
		Name:     name,
		Value:    value,
		raw:      raw,
		fromWire: true,
	}
}

// IsFromWire reports whether the cookie was reconstructed from a request header.
func (c *Cookie) IsFromWire() bool {
	return c.fromWire
}

// EncodedValue returns the value as it appears on the wire.
func (c *Cookie) EncodedValue() string {
	if c.fromWire {
		return c.raw
	}
	return url.PathEscape(c.Value)
}

// String serializes the cookie into a Set-Cookie header value.
// Attributes that are unset are omitted entirely.
func (c *Cookie) String() string {
	var b strings.Builder
	b.Grow(len(c.Name) + len(c.Value) + 64)

	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.EncodedValue())

	if !c.Expires.IsZero() {
		b.WriteString("; Expires=")
		b.WriteString(c.Expires.UTC().Format(http.TimeFormat))
	}
	switch {
	case c.MaxAge > 0:
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	case c.MaxAge < 0:
		b.WriteString("; Max-Age=0")
	}
	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	if c.SameSite != "" {
		b.WriteString("; SameSite=")
		b.WriteString(string(c.SameSite))
	}

	return b.String()
}

// Validate checks the cookie can be emitted as a single header value no
// longer than maxSize bytes. A maxSize of zero or less disables the size check.
func (c *Cookie) Validate(maxSize int) error {
	if !isToken(c.Name) {
		return ErrInvalidName
	}
	if !isAttrValue(c.Path) {
		return ErrInvalidPath
	}
	if !isAttrValue(c.Domain) {
		return ErrInvalidDomain
	}
	if maxSize > 0 {
		if size := len(c.String()); size > maxSize {
			return ErrCookieTooLarge{Name: c.Name, Size: size, Max: maxSize}
		}
	}
	return nil
}

// Parse reconstructs every cookie sent in the Cookie request headers,
// preserving arrival order and duplicates. Each header is split on ";" and
// each pair at its first "="; values reach FromWire exactly as received,
// surrounding quotes and bytes net/http would reject included. Pairs without
// "=" or with an empty name are skipped.
func Parse(h http.Header) []*Cookie {
	lines := h.Values("Cookie")
	if len(lines) == 0 {
		return nil
	}

	cookies := make([]*Cookie, 0, len(lines))
	for _, line := range lines {
		for pair := range strings.SplitSeq(line, ";") {
			name, raw, found := strings.Cut(strings.TrimSpace(pair), "=")
			if !found {
				continue
			}
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			cookies = append(cookies, FromWire(name, strings.TrimSpace(raw)))
		}
	}
	return cookies
}

// Lookup finds a cookie by case-insensitive name. The first match wins.
func Lookup(cookies []*Cookie, name string) (*Cookie, bool) {
	for _, c := range cookies {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}

// isToken reports whether s is a non-empty RFC 7230 token.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 0x20 || c >= 0x7f {
			return false
		}
		if strings.IndexByte(`()<>@,;:\"/[]?={}`, c) >= 0 {
			return false
		}
	}
	return true
}

// isAttrValue reports whether s only contains av-octets (%x20-3A / %x3C-7E).
func isAttrValue(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c > 0x7e || c == ';' {
			return false
		}
	}
	return true
}
