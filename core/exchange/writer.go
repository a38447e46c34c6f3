package exchange

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
)

// responseWriter wraps http.ResponseWriter to track whether the response
// has been committed.
type responseWriter struct {
	http.ResponseWriter
	written bool
	status  int
	bytes   int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// Flush implements http.Flusher interface if the underlying ResponseWriter supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// TextWriter buffers character output until the exchange is flushed.
type TextWriter struct {
	buf bytes.Buffer
	ex  *Exchange

	// inRun is set when the last compressed flush ended inside a whitespace
	// run, so the next flush continues that run instead of starting one.
	inRun bool
}

// Write appends p to the buffer.
func (t *TextWriter) Write(p []byte) (int, error) {
	return t.buf.Write(p)
}

// WriteString appends s to the buffer.
func (t *TextWriter) WriteString(s string) (int, error) {
	return t.buf.WriteString(s)
}

// Buffered returns the number of bytes waiting to be flushed.
func (t *TextWriter) Buffered() int {
	return t.buf.Len()
}

// Flush sends the buffered text to the client, compressing whitespace when
// the web context asks for it at the time of the flush.
func (t *TextWriter) Flush() error {
	return t.ex.flushText()
}

// Writer returns the text writer of this exchange.
func (e *Exchange) Writer() *TextWriter {
	if e.text == nil {
		e.text = &TextWriter{ex: e}
	}
	return e.text
}

func (e *Exchange) flushText() error {
	if e.text == nil || e.text.buf.Len() == 0 {
		return nil
	}
	if e.forwarded {
		e.text.buf.Reset()
		return nil
	}
	if e.binary {
		return transportErr("flush", ErrWriterUnavailable)
	}

	out := e.text.buf.String()
	e.text.buf.Reset()
	if e.compressWhitespace() {
		out, e.text.inRun = compressWhitespace(out, e.text.inRun)
	} else {
		e.text.inRun = false
	}

	e.commit()
	if _, err := e.rw.Write([]byte(out)); err != nil {
		return transportErr("flush", errors.Join(ErrFlushFailed, err))
	}
	return nil
}

// compressWhitespace collapses each run of whitespace to a single character:
// "\n" when the run contains a line break, " " otherwise. continued means s
// starts inside a run already emitted by an earlier flush; its leading
// whitespace is then dropped. The second result reports whether s ends in a run.
func compressWhitespace(s string, continued bool) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))

	inRun, newline := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSpace(c) {
			if !continued {
				inRun = true
				newline = newline || c == '\n'
			}
			continue
		}
		continued = false
		if inRun {
			b.WriteByte(runChar(newline))
			inRun, newline = false, false
		}
		b.WriteByte(c)
	}
	if inRun {
		b.WriteByte(runChar(newline))
		return b.String(), true
	}
	return b.String(), continued
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func runChar(newline bool) byte {
	if newline {
		return '\n'
	}
	return ' '
}
