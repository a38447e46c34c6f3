package decoder

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// decodePlainText reads the legacy text/plain form encoding: one name=value
// pair per line. Lines without "=" are ignored.
func (d *Decoder) decodePlainText(body io.Reader, fields Values) error {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 4096), int(d.maxFieldSize))

	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		name, value, found := strings.Cut(line, "=")
		if !found || name == "" {
			continue
		}
		fields.Add(name, value)
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}
