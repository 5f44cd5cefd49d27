package vlist

import (
	"fmt"
	"io"
	"time"

	"pkt.systems/pslog"
)

const (
	DefaultBufferSize          = 5
	DefaultEstimatedItemHeight = 20

	// ScrollWait is the throttle window for scroll handling. Both edges fire
	// so the first scroll is handled immediately and the last one is never
	// lost.
	ScrollWait = 100 * time.Millisecond

	// MaxSettlePasses bounds Settle: one render pass plus two corrections.
	MaxSettlePasses = 3
)

// Config holds the per-list options.
type Config struct {
	// BufferSize is the number of extra items materialized past the bottom
	// edge of the viewport; twice as many are kept above the top edge.
	BufferSize int

	// EstimatedItemHeight is the height assumed for items that have not been
	// measured yet.
	EstimatedItemHeight float64

	// StickEpsilon is the distance from the end of the content within which
	// scrolling down re-pins the list.
	StickEpsilon float64

	// OnUnseenCountChange is called whenever the unseen count changes.
	OnUnseenCountChange func(count int)
}

// DefaultConfig returns the default options.
func DefaultConfig() Config {
	return Config{
		BufferSize:          DefaultBufferSize,
		EstimatedItemHeight: DefaultEstimatedItemHeight,
		StickEpsilon:        DefaultStickEpsilon,
	}
}

// Validate reports the first invalid option.
func (c Config) Validate() error {
	if c.BufferSize < 0 {
		return fmt.Errorf("%w: buffer size %d is negative", ErrInvalidConfig, c.BufferSize)
	}
	if !(c.EstimatedItemHeight > 0) {
		return fmt.Errorf("%w: estimated item height %v must be positive", ErrInvalidConfig, c.EstimatedItemHeight)
	}
	if c.StickEpsilon < 0 {
		return fmt.Errorf("%w: stick epsilon %v is negative", ErrInvalidConfig, c.StickEpsilon)
	}
	return nil
}

// Providers are the host capabilities a session observes and drives.
type Providers struct {
	Surface    ScrollSurface
	Measurer   MeasurementProvider
	Visibility VisibilityProvider
	Resize     ResizeProvider
	Scheduler  Scheduler
}

func (p Providers) validate() error {
	switch {
	case p.Surface == nil:
		return fmt.Errorf("%w: scroll surface", ErrMissingProvider)
	case p.Measurer == nil:
		return fmt.Errorf("%w: measurement", ErrMissingProvider)
	case p.Visibility == nil:
		return fmt.Errorf("%w: visibility", ErrMissingProvider)
	case p.Resize == nil:
		return fmt.Errorf("%w: resize", ErrMissingProvider)
	case p.Scheduler == nil:
		return fmt.Errorf("%w: scheduler", ErrMissingProvider)
	}
	return nil
}

// Option is a functional option for NewSession.
type Option func(*Session)

// WithLogger sets the session logger. Sessions log state transitions at
// debug and trace level.
func WithLogger(l pslog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

func discardLogger() pslog.Logger {
	return pslog.NewWithOptions(io.Discard, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.ErrorLevel,
	})
}
