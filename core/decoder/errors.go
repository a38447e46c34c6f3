package decoder

import "errors"

// Error variables define decoding failures. Every failure is reported together
// with whatever was decoded before it happened.
var (
	// ErrMalformedBody indicates the body could not be read or parsed to the end.
	// The stream may have been consumed by an earlier reader.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrInvalidBoundary indicates a multipart content type without a usable boundary.
	ErrInvalidBoundary = errors.New("invalid multipart boundary")

	// ErrBodyTooLarge indicates a form body or field exceeded the configured limit.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrTooManyParts indicates a multipart body exceeded the configured part count.
	ErrTooManyParts = errors.New("too many multipart parts")

	// ErrNoStager indicates a file part arrived but no Stager was configured.
	ErrNoStager = errors.New("no upload stager configured")
)
