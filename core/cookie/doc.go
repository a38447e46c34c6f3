// Package cookie encodes and decodes cookies between the wire format and a
// transport-neutral model.
//
// Outgoing cookies are built with New and serialized with String into a single
// Set-Cookie header value. The header is assembled by hand so every attribute,
// including SameSite and Expires, reaches the client regardless of what the
// container's own cookie API supports. Unset attributes are omitted.
//
//	c := cookie.New("theme", "dark mode",
//		cookie.WithPath("/"),
//		cookie.WithSameSite(cookie.SameSiteLax),
//	)
//	w.Header().Add("Set-Cookie", c.String()) // theme=dark%20mode; Path=/; SameSite=Lax
//
// Incoming cookies only carry a name and an encoded value. Parse rebuilds them
// with FromWire, which keeps the received bytes verbatim so a cookie read from
// a request and written back is not encoded twice:
//
//	cookies := cookie.Parse(r.Header)
//	if c, ok := cookie.Lookup(cookies, "THEME"); ok {
//		fmt.Println(c.Value) // decoded value
//	}
//
// Lookup matches names case-insensitively and returns the first match.
package cookie
