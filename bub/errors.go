package bub

import (
	"io"

	"github.com/pkg/errors"

	"github.com/kurotakazuki/floaout-go/leio"
)

// Sentinel error kinds per spec.md §7. Package-boundary errors are
// constructed by wrapping one of these with context via
// github.com/pkg/errors, so callers can recover the kind with
// errors.Is. ErrUnexpectedEOF and ErrCrcMismatch alias the sentinels
// leio already wraps its own errors around, so errors.Is works no
// matter which layer produced the error.
var (
	// ErrUnexpectedEOF is a short read relative to a field size
	// announced by a preceding length.
	ErrUnexpectedEOF = io.ErrUnexpectedEOF

	// ErrInvalidData covers an unknown tag, a BubFns/Sum parse
	// failure, or a name_size inconsistency.
	ErrInvalidData = errors.New("bub: invalid data")

	// ErrCrcMismatch is a failed trailer checksum.
	ErrCrcMismatch = leio.ErrCrcMismatch
)
