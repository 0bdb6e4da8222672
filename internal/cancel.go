package internal

import "sync/atomic"

// State of a search lifecycle.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Token is the shared cancellation signal for one search invocation.
// The searcher sets it at start; workers poll Active before pulling a new
// entry. Cancellation is cooperative: an in-flight file read is never
// interrupted, and its result is still delivered.
//
// A Token belongs to exactly one search. Reusing it for a second search
// while the first is still draining would let one Cancel reach both,
// which is exactly the ambiguity this type exists to avoid.
type Token struct {
	active atomic.Bool
	state  atomic.Int32
}

func NewToken() *Token { return &Token{} }

// Begin marks the search as running and arms the flag.
func (t *Token) Begin() {
	t.active.Store(true)
	t.state.Store(int32(StateRunning))
}

// Cancel requests an early stop. Safe to call from any goroutine, any
// number of times.
func (t *Token) Cancel() {
	t.active.Store(false)
}

// Active reports whether workers should keep pulling entries.
func (t *Token) Active() bool { return t.active.Load() }

func (t *Token) State() State { return State(t.state.Load()) }

// finish records the terminal state: Completed when the traversal drained
// naturally, Cancelled when the flag was cleared first.
func (t *Token) finish() {
	if t.active.Load() {
		t.state.Store(int32(StateCompleted))
	} else {
		t.state.Store(int32(StateCancelled))
	}
	t.active.Store(false)
}
