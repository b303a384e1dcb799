package repository

import "errors"

// Sentinel kinds for archive errors.
var (
	ErrClosed       = errors.New("archive closed")
	ErrInvalidLimit = errors.New("invalid record limit")
)
