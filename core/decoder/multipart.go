package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// decodeMultipart streams multipart/form-data parts. Text fields go to
// res.Fields; file parts are staged and recorded both as an Upload and as the
// staged path under the field name.
func (d *Decoder) decodeMultipart(ctx context.Context, body io.Reader, boundary, charset string, res *Result) error {
	if !validateBoundary(boundary) {
		return ErrInvalidBoundary
	}

	mr := multipart.NewReader(body, boundary)

	for parts := 0; ; parts++ {
		if parts >= d.maxParts {
			return fmt.Errorf("%w: limit %d", ErrTooManyParts, d.maxParts)
		}

		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}

		err = d.decodePart(ctx, part, charset, res)
		_ = part.Close()
		if err != nil {
			return err
		}
	}
}

func (d *Decoder) decodePart(ctx context.Context, part *multipart.Part, charset string, res *Result) error {
	name := part.FormName()
	if name == "" {
		return nil
	}

	_, disposition, _ := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	filename, isFile := disposition["filename"]

	if !isFile {
		value, err := d.readField(part)
		if err != nil {
			return err
		}
		res.Fields.Add(name, transcode(value, partCharset(part, charset)))
		return nil
	}

	// A file input submitted without a selected file.
	if filename == "" {
		if _, err := io.Copy(io.Discard, part); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		res.Fields.Add(name, "")
		return nil
	}

	if d.stager == nil {
		return ErrNoStager
	}

	filename = sanitizeFilename(filename)
	path, size, err := d.stager.Stage(ctx, name, filename, part)
	if err != nil {
		return fmt.Errorf("stage upload %s: %w", name, err)
	}

	res.Uploads = append(res.Uploads, Upload{
		Field:       name,
		Path:        path,
		Filename:    filename,
		ContentType: part.Header.Get("Content-Type"),
		Size:        size,
	})
	res.Fields.Add(name, path)
	return nil
}

func (d *Decoder) readField(part *multipart.Part) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, d.maxFieldSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if int64(len(data)) > d.maxFieldSize {
		return "", fmt.Errorf("%w: field %s exceeds %d bytes", ErrBodyTooLarge, part.FormName(), d.maxFieldSize)
	}
	return string(data), nil
}

// partCharset prefers the charset declared on the part itself.
func partCharset(part *multipart.Part, fallback string) string {
	if ct := part.Header.Get("Content-Type"); ct != "" {
		if _, params, err := mime.ParseMediaType(ct); err == nil && params["charset"] != "" {
			return params["charset"]
		}
	}
	return fallback
}

// validateBoundary rejects boundaries that would break multipart parsing.
func validateBoundary(boundary string) bool {
	if boundary == "" || len(boundary) > 100 {
		return false
	}
	return !strings.ContainsAny(boundary, "\x00\r\n")
}

// sanitizeFilename removes path components and dangerous characters from uploaded filenames.
func sanitizeFilename(filename string) string {
	// Normalize path separators for consistent processing across platforms
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}
