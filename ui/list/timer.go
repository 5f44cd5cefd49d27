package list

import (
	"slices"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

// idCounter hands out list IDs so timer messages of one list never reach
// another.
var idCounter atomic.Int64

// TimerMsg is delivered when a session timer of the list with ID is due.
type TimerMsg struct {
	ID  int64
	Seq uint64
}

// scheduler implements vlist.Scheduler on top of tea.Tick. Timers become
// commands; their callbacks run from Update on the event loop, never from
// the tick goroutine.
type scheduler struct {
	id      int64
	seq     uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
}

func newScheduler(id int64) *scheduler {
	return &scheduler{id: id, pending: make(map[uint64]func())}
}

func (s *scheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.seq++
	seq, id := s.seq, s.id
	s.pending[seq] = f
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return TimerMsg{ID: id, Seq: seq}
	}))
	return func() bool {
		if _, ok := s.pending[seq]; !ok {
			return false
		}
		delete(s.pending, seq)
		return true
	}
}

// fire runs the callback for seq. A stopped or already fired timer reports
// false.
func (s *scheduler) fire(seq uint64) bool {
	f, ok := s.pending[seq]
	if !ok {
		return false
	}
	delete(s.pending, seq)
	f()
	return true
}

// due returns a message for every pending timer in scheduling order.
func (s *scheduler) due() []TimerMsg {
	seqs := make([]uint64, 0, len(s.pending))
	for seq := range s.pending {
		seqs = append(seqs, seq)
	}
	slices.Sort(seqs)
	msgs := make([]TimerMsg, len(seqs))
	for i, seq := range seqs {
		msgs[i] = TimerMsg{ID: s.id, Seq: seq}
	}
	return msgs
}

func (s *scheduler) queue(cmd tea.Cmd) {
	s.cmds = append(s.cmds, cmd)
}

// drain returns the queued commands as one batch and empties the queue.
func (s *scheduler) drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}
