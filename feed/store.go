// Package feed is the demo data source for the list: an append-only entry
// log with front eviction, a sentence generator and the entry renderer.
package feed

import (
	"time"

	"github.com/google/uuid"
)

// Level classifies an entry.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Entry is one feed item. Seq numbers entries in append order and survives
// eviction, so "#12" names the same entry before and after a slice.
type Entry struct {
	Key   uuid.UUID
	Seq   int
	Level Level
	Text  string
	At    time.Time
}

// Store keeps entries in append order. Removal only happens at the front.
// Not safe for concurrent use; the app mutates it from the event loop.
type Store struct {
	entries  []Entry
	nextSeq  int
	maxItems int
	now      func() time.Time
}

// NewStore returns an empty store. maxItems <= 0 means unbounded.
func NewStore(maxItems int) *Store {
	return &Store{maxItems: max(maxItems, 0), now: time.Now}
}

// Append adds an entry and evicts the oldest ones past MaxItems. It returns
// the new entry and the number of evicted entries.
func (s *Store) Append(level Level, text string) (Entry, int) {
	s.nextSeq++
	e := Entry{
		Key:   uuid.New(),
		Seq:   s.nextSeq,
		Level: level,
		Text:  text,
		At:    s.now(),
	}
	s.entries = append(s.entries, e)
	evicted := 0
	if s.maxItems > 0 && len(s.entries) > s.maxItems {
		evicted = s.DropFront(len(s.entries) - s.maxItems)
	}
	return e, evicted
}

// DropFront removes up to n entries from the front and returns how many were
// removed.
func (s *Store) DropFront(n int) int {
	n = min(max(n, 0), len(s.entries))
	if n == 0 {
		return 0
	}
	// Copy so the dropped prefix can be collected.
	s.entries = append([]Entry(nil), s.entries[n:]...)
	return n
}

// Len returns the number of stored entries.
func (s *Store) Len() int { return len(s.entries) }

// At returns the entry at index i.
func (s *Store) At(i int) (Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[i], true
}

// MaxItems returns the eviction cap; 0 means unbounded.
func (s *Store) MaxItems() int { return s.maxItems }

// Next returns the sequence number the next entry will get.
func (s *Store) Next() int { return s.nextSeq + 1 }
