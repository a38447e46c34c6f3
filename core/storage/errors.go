package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates the staging directory cannot be used.
	ErrInvalidConfig = errors.New("invalid storage configuration")

	// ErrStageFailed indicates an upload could not be written to disk.
	ErrStageFailed = errors.New("failed to stage upload")
)

// ErrFileTooLarge indicates an upload exceeded the configured size limit.
type ErrFileTooLarge struct {
	Field    string
	Filename string
	Max      int64
}

// Error implements the error interface.
func (e ErrFileTooLarge) Error() string {
	return fmt.Sprintf("upload %q for field %s exceeds maximum %d bytes", e.Filename, e.Field, e.Max)
}
