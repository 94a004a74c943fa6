package identity

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrMalformedName marks input with no usable alphabetic content.
	ErrMalformedName = errors.New("malformed name")
)
