package decoder

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"strings"

	"github.com/dmitrymomot/webbridge/core/logger"
)

const (
	// DefaultCharset is used when the request does not declare one.
	DefaultCharset = "UTF-8"

	// DefaultMaxFieldSize bounds url-encoded bodies and individual multipart text fields (10MB).
	DefaultMaxFieldSize = 10 << 20

	// DefaultMaxParts bounds the number of parts in a multipart body.
	DefaultMaxParts = 1000
)

// Media types the decoder understands.
const (
	MediaURLEncoded = "application/x-www-form-urlencoded"
	MediaMultipart  = "multipart/form-data"
	MediaPlainText  = "text/plain"
)

// Stager persists the content of an uploaded file and returns where it lives.
type Stager interface {
	Stage(ctx context.Context, field, filename string, r io.Reader) (path string, size int64, err error)
}

// Upload is a file received through a multipart field and staged to disk.
type Upload struct {
	Field       string
	Path        string
	Filename    string
	ContentType string
	Size        int64
}

// Request is the input of a decode.
type Request struct {
	Method      string
	ContentType string
	Charset     string
	Body        io.Reader
}

// Result is the output of a decode. Fields is never nil.
type Result struct {
	Fields  Values
	Uploads []Upload
}

// Decoder turns request bodies into form fields and staged uploads.
// A Decoder holds no per-request state and is safe for concurrent use.
type Decoder struct {
	stager         Stager
	defaultCharset string
	plainText      bool
	maxFieldSize   int64
	maxParts       int
	logger         *slog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithStager sets where multipart file parts are written.
func WithStager(s Stager) Option {
	return func(d *Decoder) {
		d.stager = s
	}
}

// WithDefaultCharset sets the charset used when the request declares none.
func WithDefaultCharset(charset string) Option {
	return func(d *Decoder) {
		if charset != "" {
			d.defaultCharset = charset
		}
	}
}

// WithPlainText enables the legacy text/plain name=value line format.
func WithPlainText(enabled bool) Option {
	return func(d *Decoder) {
		d.plainText = enabled
	}
}

// WithMaxFieldSize bounds url-encoded bodies and multipart text fields.
func WithMaxFieldSize(n int64) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxFieldSize = n
		}
	}
}

// WithMaxParts bounds the number of multipart parts.
func WithMaxParts(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxParts = n
		}
	}
}

// WithLogger sets the logger for decode diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Decoder.
func New(opts ...Option) *Decoder {
	d := &Decoder{
		defaultCharset: DefaultCharset,
		maxFieldSize:   DefaultMaxFieldSize,
		maxParts:       DefaultMaxParts,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses req.Body according to its content type.
//
// Only POST bodies of a supported type are read; anything else yields an empty
// result and leaves the body untouched. When decoding fails midway the error
// is returned alongside everything decoded so far, including uploads already
// staged, so the caller can still clean them up.
func (d *Decoder) Decode(ctx context.Context, req Request) (Result, error) {
	res := Result{Fields: make(Values)}

	if !d.Consumes(req) {
		return res, nil
	}

	mediaType, params := parseContentType(req.ContentType)

	charset := req.Charset
	if charset == "" {
		charset = params["charset"]
	}
	if charset == "" {
		charset = d.defaultCharset
	}

	var err error
	switch mediaType {
	case MediaURLEncoded:
		err = d.decodeURLEncoded(req.Body, charset, res.Fields)
	case MediaMultipart:
		err = d.decodeMultipart(ctx, req.Body, params["boundary"], charset, &res)
	default:
		err = d.decodePlainText(req.Body, res.Fields)
	}

	if err != nil {
		d.logger.DebugContext(ctx, "request body decode incomplete",
			logger.Component("decoder"),
			logger.ContentType(mediaType),
			logger.Count("fields", len(res.Fields)),
			logger.Count("uploads", len(res.Uploads)),
			logger.Error(err),
		)
	}

	return res, err
}

// Consumes reports whether Decode would read req.Body.
func (d *Decoder) Consumes(req Request) bool {
	if !strings.EqualFold(req.Method, "POST") || req.ContentType == "" || req.Body == nil {
		return false
	}
	mediaType, _ := parseContentType(req.ContentType)
	switch mediaType {
	case MediaURLEncoded, MediaMultipart:
		return true
	case MediaPlainText:
		return d.plainText
	}
	return false
}

// parseContentType returns the lower-cased media type and its parameters.
// Unparseable parameters are dropped rather than failing the whole header.
func parseContentType(contentType string) (string, map[string]string) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
		params = map[string]string{}
	}
	return mediaType, params
}
