package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a
	// structure.
	ErrTruncated = errors.New("format: truncated buffer")

	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")

	// ErrBoundsCheck indicates a buffer access exceeded bounds. Returned by
	// Checked* decode functions when the offset or required size would
	// exceed the buffer length.
	ErrBoundsCheck = errors.New("format: buffer bounds exceeded")
)
