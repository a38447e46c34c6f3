// Package exchange adapts a net/http request/response pair into the I/O
// surface a page engine runs against.
//
// An Exchange is created per request and never shared. It exposes request
// metadata, the raw body or its decoded form fields, cookies, request/session/
// application attributes, and a buffered response.
//
// # Body
//
// The request body is a stream and can be read once: either as form fields
// through FormMap or raw through RequestBody. Whichever comes second sees an
// empty body. RequestBody never fails; an unreadable body is EmptyBody.
//
// # Response
//
// Character output goes through Writer and stays buffered until Flush, so it
// can be discarded with ResetBuffer while the response is uncommitted. When the
// attached WebContext asks for it, whitespace runs are collapsed at flush time.
// SendBytes and SendFile replace any buffered text and write straight to the
// client; files are streamed in fixed-size chunks.
//
// Failures talking to the client are returned as *TransportError and end the
// request:
//
//	if err := ex.Flush(); exchange.IsTransport(err) {
//		return err
//	}
//
// # Uploads
//
// Files staged while decoding the form are recorded on the exchange. The owner
// of the exchange collects them with DrainUploads at teardown and removes them.
package exchange
