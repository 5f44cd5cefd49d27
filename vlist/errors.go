package vlist

import "errors"

// Host-contract violations. These indicate a broken integration between the
// session and its host, never a data problem, and are returned to the caller
// as soon as they are detected.
var (
	ErrIndexOutOfRange = errors.New("vlist: item index out of range")
	ErrNonContiguous   = errors.New("vlist: measurements are not a contiguous run")
	ErrInvalidHeight   = errors.New("vlist: measured height must be positive")
	ErrMissingProvider = errors.New("vlist: missing provider")
)

var (
	ErrInvalidConfig    = errors.New("vlist: invalid config")
	ErrInvalidItemCount = errors.New("vlist: item count must not be negative")
	ErrNoConvergence    = errors.New("vlist: render window did not settle")
	ErrClosed           = errors.New("vlist: session closed")
)
