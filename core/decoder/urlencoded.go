package decoder

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// decodeURLEncoded reads an application/x-www-form-urlencoded body into fields.
func (d *Decoder) decodeURLEncoded(body io.Reader, charset string, fields Values) error {
	raw, err := io.ReadAll(io.LimitReader(body, d.maxFieldSize+1))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if int64(len(raw)) > d.maxFieldSize {
		return fmt.Errorf("%w: form body exceeds %d bytes", ErrBodyTooLarge, d.maxFieldSize)
	}

	parsePairs(string(raw), charset, fields)
	return nil
}

// ParseQuery decodes a raw query string with the same rules as a
// url-encoded form body.
func ParseQuery(raw, charset string) Values {
	fields := make(Values)
	if charset == "" {
		charset = DefaultCharset
	}
	parsePairs(raw, charset, fields)
	return fields
}

// parsePairs splits raw on "&" and each pair on its first "=". Pairs with an
// empty key are dropped; a key without "=" gets an empty value.
func parsePairs(raw, charset string, fields Values) {
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key, charset)
		if key == "" {
			continue
		}
		fields.Add(key, unescape(value, charset))
	}
}

// unescape percent-decodes s ("+" is a space) and transcodes the resulting
// bytes from charset to UTF-8. A "%" not followed by two hex digits is kept
// literally; the rest of s is still decoded.
func unescape(s, charset string) string {
	if strings.IndexAny(s, "%+") < 0 {
		return transcode(s, charset)
	}

	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b = append(b, ' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b = append(b, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			b = append(b, c)
		}
	}
	return transcode(string(b), charset)
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

// transcode converts s from charset to UTF-8. Unknown charsets pass s through.
func transcode(s, charset string) string {
	if s == "" || charset == "" {
		return s
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return s
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return s
	}

	out, err := enc.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}
