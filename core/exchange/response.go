package exchange

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/dmitrymomot/webbridge/core/logger"
)

// AddHeader adds a response header value.
func (e *Exchange) AddHeader(name, value string) {
	e.rw.Header().Add(name, value)
}

// SetHeader replaces a response header.
func (e *Exchange) SetHeader(name, value string) {
	e.rw.Header().Set(name, value)
}

// ResponseHeader returns the first value of a response header.
func (e *Exchange) ResponseHeader(name string) string {
	return e.rw.Header().Get(name)
}

// ResponseHeaderMap returns a copy of the response headers.
func (e *Exchange) ResponseHeaderMap() map[string][]string {
	return cloneHeader(e.rw.Header())
}

// Status returns the response status: the committed one, or the pending one.
func (e *Exchange) Status() int {
	if e.rw.written {
		return e.rw.status
	}
	return e.status
}

// SetStatus sets the status sent on commit. It has no effect once committed.
func (e *Exchange) SetStatus(code int) {
	if e.rw.written {
		e.logger.DebugContext(e.request.Context(), "status change after commit ignored",
			logger.Component("exchange"),
			logger.StatusCode(code),
		)
		return
	}
	e.status = code
}

// IsResponseStarted reports whether any part of the response reached the client.
func (e *Exchange) IsResponseStarted() bool {
	return e.rw.written
}

// BytesWritten returns the number of body bytes sent so far.
func (e *Exchange) BytesWritten() int64 {
	return e.rw.bytes
}

// commit sends the status line and headers if not yet sent.
func (e *Exchange) commit() {
	if !e.rw.written {
		e.rw.WriteHeader(e.status)
	}
}

// Flush sends buffered text, commits the response and flushes the connection.
func (e *Exchange) Flush() error {
	if err := e.flushText(); err != nil {
		return err
	}
	e.commit()
	e.rw.Flush()
	return nil
}

// ResetBuffer discards buffered text. It fails once the response is committed.
func (e *Exchange) ResetBuffer() error {
	if e.rw.written {
		return transportErr("reset", ErrResponseCommitted)
	}
	if e.text != nil {
		e.text.buf.Reset()
	}
	return nil
}

// SendBytes discards buffered text and writes data as the response body.
func (e *Exchange) SendBytes(data []byte) error {
	if err := e.ResetBuffer(); err != nil {
		return err
	}
	e.binary = true
	e.commit()
	if _, err := e.rw.Write(data); err != nil {
		return transportErr("send bytes", errors.Join(ErrFlushFailed, err))
	}
	return nil
}

// SendFile discards buffered text and streams the file at path as the
// response body in fixed-size chunks.
func (e *Exchange) SendFile(path string) error {
	if err := e.ResetBuffer(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("send file: %w", err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && e.rw.Header().Get("Content-Length") == "" {
		e.rw.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	}

	e.binary = true
	e.commit()

	buf := make([]byte, e.chunk)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := e.rw.Write(buf[:n]); werr != nil {
				return transportErr("send file", errors.Join(ErrFlushFailed, werr))
			}
		}
		if errors.Is(rerr, io.EOF) {
			return nil
		}
		if rerr != nil {
			return transportErr("send file", rerr)
		}
	}
}

// Forward hands the request to h with its path replaced by uri, discarding
// buffered text. Output written to the exchange afterwards is dropped.
func (e *Exchange) Forward(uri string, h http.Handler) error {
	if err := e.ResetBuffer(); err != nil {
		return transportErr("forward", ErrResponseCommitted)
	}

	target, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("forward %q: %w", uri, err)
	}

	r := e.request.Clone(e.request.Context())
	r.URL.Path = target.Path
	r.URL.RawPath = target.RawPath
	if target.RawQuery != "" {
		r.URL.RawQuery = target.RawQuery
	}
	r.RequestURI = r.URL.RequestURI()

	e.SetAttribute(ForwardRequestURIAttribute, e.URI())
	e.forwarded = true

	w := &statusDefaulter{responseWriter: e.rw, status: e.status}
	h.ServeHTTP(w, r)
	return nil
}

// ForwardRequestURIAttribute holds the original path after Forward.
const ForwardRequestURIAttribute = "webbridge.forward.request_uri"

// statusDefaulter applies the pending exchange status when the forward
// target writes a body without choosing one.
type statusDefaulter struct {
	*responseWriter
	status int
}

func (w *statusDefaulter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(w.status)
	}
	return w.responseWriter.Write(b)
}
