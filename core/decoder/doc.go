// Package decoder parses HTTP request bodies into form fields and staged file uploads.
//
// Three encodings are understood:
//
//   - application/x-www-form-urlencoded: "&"-separated pairs, split at the first "=",
//     percent-decoded with "+" as space and transcoded from the request charset.
//   - multipart/form-data: streamed part by part. Text parts become fields; file
//     parts are handed to a Stager and the staged path is stored under the field
//     name. A file input submitted with no file yields an empty value.
//   - text/plain: one name=value pair per line. Disabled unless WithPlainText(true).
//
// Only POST bodies are read. Any other method or content type produces an empty
// result without touching the body.
//
// Basic usage:
//
//	store, _ := storage.NewLocalStorage(os.TempDir())
//	dec := decoder.New(decoder.WithStager(store))
//
//	res, err := dec.Decode(ctx, decoder.Request{
//		Method:      r.Method,
//		ContentType: r.Header.Get("Content-Type"),
//		Body:        r.Body,
//	})
//	if err != nil {
//		// res still holds what was decoded, including staged uploads to remove
//	}
//
// Query strings are decoded separately with ParseQuery. In both, a key without
// "=" is kept with an empty value and a malformed "%" escape stays literal.
package decoder
