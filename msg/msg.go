// Package msg defines the tea.Msg types dispatched within the demo program.
// It has no upstream imports to avoid import cycles.
package msg

import "time"

// -- Feed --

// StreamTick asks the app to append the next generated entry. Gen matches
// the stream run that scheduled it; ticks of a stopped run are dropped.
type StreamTick struct {
	Gen uint64
	At  time.Time
}

// Append asks the app to add Count generated entries at once, e.g. to
// preload the feed at startup.
type Append struct {
	Count int
}

// Sliced reports that entries were dropped from the front.
type Sliced struct {
	Removed int
	Evicted bool // true when the max_items cap dropped them
}
