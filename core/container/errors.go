package container

import "errors"

var (
	// ErrInvalidWebRoot is returned when the web root is missing or not a directory.
	ErrInvalidWebRoot = errors.New("invalid web root")
	// ErrInvalidAlias is returned for an alias with an empty prefix or target.
	ErrInvalidAlias = errors.New("invalid alias")
)
