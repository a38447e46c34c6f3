package exchange

import (
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Method returns the HTTP method.
func (e *Exchange) Method() string {
	return e.request.Method
}

// URI returns the request path without query string.
func (e *Exchange) URI() string {
	return e.request.URL.Path
}

// QueryString returns the raw query string.
func (e *Exchange) QueryString() string {
	return e.request.URL.RawQuery
}

// RequestURL returns scheme, host and path, without the query string.
func (e *Exchange) RequestURL() string {
	return e.Scheme() + "://" + e.request.Host + e.request.URL.EscapedPath()
}

// Protocol returns the protocol version, e.g. "HTTP/1.1".
func (e *Exchange) Protocol() string {
	return e.request.Proto
}

// Scheme returns "https" for TLS connections and "http" otherwise.
func (e *Exchange) Scheme() string {
	if e.IsSecure() {
		return "https"
	}
	return "http"
}

// IsSecure reports whether the request arrived over TLS.
func (e *Exchange) IsSecure() bool {
	return e.request.TLS != nil
}

// ServerName returns the host the client addressed, without port.
func (e *Exchange) ServerName() string {
	host, _ := splitHostPort(e.request.Host)
	return host
}

// ServerPort returns the port the client addressed, defaulting by scheme.
func (e *Exchange) ServerPort() int {
	if _, port := splitHostPort(e.request.Host); port > 0 {
		return port
	}
	if e.IsSecure() {
		return 443
	}
	return 80
}

// ContentType returns the Content-Type header as sent.
func (e *Exchange) ContentType() string {
	return e.request.Header.Get("Content-Type")
}

// ContentLength returns the declared body length, or -1 when unknown.
func (e *Exchange) ContentLength() int64 {
	return e.request.ContentLength
}

// CharacterEncoding returns the charset parameter of Content-Type, or "".
func (e *Exchange) CharacterEncoding() string {
	ct := e.ContentType()
	if ct == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return params["charset"]
}

// RemoteAddr returns the client IP address.
func (e *Exchange) RemoteAddr() string {
	host, _ := splitHostPort(e.request.RemoteAddr)
	return host
}

// RemotePort returns the client port, or 0.
func (e *Exchange) RemotePort() int {
	_, port := splitHostPort(e.request.RemoteAddr)
	return port
}

// LocalAddr returns the server address that accepted the connection, or "".
func (e *Exchange) LocalAddr() string {
	host, _ := splitHostPort(e.localAddr())
	return host
}

// LocalPort returns the server port that accepted the connection, or 0.
func (e *Exchange) LocalPort() int {
	_, port := splitHostPort(e.localAddr())
	return port
}

func (e *Exchange) localAddr() string {
	if addr, ok := e.request.Context().Value(http.LocalAddrContextKey).(net.Addr); ok && addr != nil {
		return addr.String()
	}
	return ""
}

// RemoteUser returns the basic-auth user name, or "".
func (e *Exchange) RemoteUser() string {
	user, _, ok := e.request.BasicAuth()
	if !ok {
		return ""
	}
	return user
}

// AuthType returns the scheme of the Authorization header, e.g. "Basic", or "".
func (e *Exchange) AuthType() string {
	scheme, _, _ := strings.Cut(e.request.Header.Get("Authorization"), " ")
	return scheme
}

// Locale returns the client's preferred locale.
func (e *Exchange) Locale() language.Tag {
	return e.Locales()[0]
}

// Locales returns the Accept-Language tags in preference order. It is never empty.
func (e *Exchange) Locales() []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(e.request.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return []language.Tag{e.fallback}
	}
	return tags
}

// Header returns the first value of a request header.
func (e *Exchange) Header(name string) string {
	return e.request.Header.Get(name)
}

// HeaderMap returns a copy of all request headers with values in arrival order.
// Names are in canonical MIME form (net/http rewrites them while reading the
// request), so the client's original casing is not available.
func (e *Exchange) HeaderMap() map[string][]string {
	return cloneHeader(e.request.Header)
}

func cloneHeader(h http.Header) map[string][]string {
	out := make(map[string][]string, len(h))
	for name, values := range h {
		out[name] = append([]string(nil), values...)
	}
	return out
}

func splitHostPort(hostport string) (string, int) {
	if hostport == "" {
		return "", 0
	}
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return strings.Trim(hostport, "[]"), 0
	}
	n, _ := strconv.Atoi(port)
	return host, n
}
