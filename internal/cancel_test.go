package internal

import "testing"

func TestToken_Lifecycle(t *testing.T) {
	tok := NewToken()
	if tok.State() != StateIdle || tok.Active() {
		t.Fatal("fresh token must be idle and inactive")
	}

	tok.Begin()
	if tok.State() != StateRunning || !tok.Active() {
		t.Fatal("Begin must arm the token")
	}

	tok.finish()
	if tok.State() != StateCompleted || tok.Active() {
		t.Fatal("natural finish must read completed")
	}
}

func TestToken_Cancel(t *testing.T) {
	tok := NewToken()
	tok.Begin()
	tok.Cancel()
	if tok.Active() {
		t.Fatal("Cancel must clear the flag")
	}
	// Still running until the searcher acknowledges and finishes.
	if tok.State() != StateRunning {
		t.Fatalf("state before finish: got %v", tok.State())
	}

	tok.finish()
	if tok.State() != StateCancelled {
		t.Fatalf("state after finish: got %v", tok.State())
	}
}

func TestToken_CancelIsIdempotent(t *testing.T) {
	tok := NewToken()
	tok.Begin()
	tok.Cancel()
	tok.Cancel()
	tok.finish()
	if tok.State() != StateCancelled {
		t.Fatal("repeated Cancel must still end cancelled")
	}
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		StateIdle:      "idle",
		StateRunning:   "running",
		StateCompleted: "completed",
		StateCancelled: "cancelled",
	}
	for s, want := range cases {
		if s.String() != want {
			t.Errorf("%d: got %q, want %q", s, s.String(), want)
		}
	}
}
