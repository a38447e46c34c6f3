package exchange

import (
	"io"
	"mime"
	"slices"
	"strings"

	"github.com/dmitrymomot/webbridge/core/decoder"
	"github.com/dmitrymomot/webbridge/core/logger"
)

// Body is the raw request body. A body that was already consumed, or could
// not be read, is EmptyBody.
type Body struct {
	data []byte
	text bool
}

// EmptyBody is the body of a request with no readable content.
var EmptyBody = Body{}

// IsEmpty reports whether the body has no content.
func (b Body) IsEmpty() bool {
	return len(b.data) == 0
}

// IsText reports whether the content type marks the body as text.
func (b Body) IsText() bool {
	return b.text
}

// Text returns the body as a string.
func (b Body) Text() string {
	return string(b.data)
}

// Bytes returns the body bytes.
func (b Body) Bytes() []byte {
	return b.data
}

// RequestBody reads the request body to the end. The body can be read either
// as form fields or raw, not both: after FormMap has consumed it this returns
// EmptyBody. The result is memoized.
func (e *Exchange) RequestBody() Body {
	if e.bodyRead {
		return e.body
	}
	e.bodyRead = true

	if e.bodyConsumed || e.request.Body == nil {
		e.body = EmptyBody
		return e.body
	}

	data, err := io.ReadAll(e.request.Body)
	e.bodyConsumed = true
	if err != nil {
		e.logger.WarnContext(e.request.Context(), "request body unreadable",
			logger.Component("exchange"),
			logger.Error(err),
		)
		e.body = EmptyBody
		return e.body
	}
	if len(data) == 0 {
		e.body = EmptyBody
		return e.body
	}

	e.body = Body{data: data, text: isTextual(e.ContentType())}
	return e.body
}

// URLMap decodes the query string. Keys without "=" are kept with an empty value.
func (e *Exchange) URLMap() decoder.Values {
	return decoder.ParseQuery(e.QueryString(), decoder.DefaultCharset)
}

// FormMap decodes the request body into form fields. Each call decodes again;
// once the body has been read, later calls see an empty body. Decode errors
// are logged and the fields decoded before the failure are returned. Every
// staged upload is recorded on the exchange.
func (e *Exchange) FormMap() decoder.Values {
	req := decoder.Request{
		Method:      e.Method(),
		ContentType: e.ContentType(),
		Charset:     e.CharacterEncoding(),
		Body:        e.request.Body,
	}
	if e.bodyConsumed && e.decoder.Consumes(req) {
		return make(decoder.Values)
	}
	if e.decoder.Consumes(req) {
		e.bodyConsumed = true
	}

	ctx := e.request.Context()
	res, err := e.decoder.Decode(ctx, req)

	if len(res.Uploads) > 0 {
		e.mu.Lock()
		e.uploads = append(e.uploads, res.Uploads...)
		e.mu.Unlock()
	}

	if err != nil {
		e.logger.WarnContext(ctx, "form decode failed",
			logger.Component("exchange"),
			logger.ContentType(req.ContentType),
			logger.Count("fields", len(res.Fields)),
			logger.Error(err),
		)
	}
	return res.Fields
}

// Uploads returns every upload staged during this exchange.
func (e *Exchange) Uploads() []decoder.Upload {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.uploads)
}

// DrainUploads returns the staged uploads and forgets them. The caller owns
// the files afterwards.
func (e *Exchange) DrainUploads() []decoder.Upload {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.uploads
	e.uploads = nil
	return out
}

// isTextual reports whether a content type carries character data.
// An absent content type counts as text.
func isTextual(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(strings.ToLower(contentType), ";")
		mediaType = strings.TrimSpace(mediaType)
	}

	switch {
	case strings.HasPrefix(mediaType, "text/"),
		strings.HasSuffix(mediaType, "+json"),
		strings.HasSuffix(mediaType, "+xml"),
		strings.Contains(mediaType, "javascript"):
		return true
	}

	switch mediaType {
	case "application/json", "application/xml", decoder.MediaURLEncoded:
		return true
	}
	return false
}
