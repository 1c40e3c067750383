// Package session holds the state of one run: whether it has started,
// whether it is over, and how many coins were collected.
//
// A Session is owned by a single game and stepped from a single goroutine,
// so it carries no locks. Components receive a *RunState and write only the
// fields they own: input glue sets Started, the collision check sets Over
// and Coins.
package session

import "time"

// RunState is the shared state of the current run.
type RunState struct {
	Started bool
	Over    bool
	Paused  bool
	Coins   int
}

// Active reports whether the simulation should advance.
func (s RunState) Active() bool {
	return s.Started && !s.Over && !s.Paused
}

// Session wraps RunState with lifecycle helpers and timing.
type Session struct {
	state     RunState
	startedAt time.Time
	endedAt   time.Time
	now       func() time.Time
}

// New creates an idle session.
func New() *Session {
	return &Session{now: time.Now}
}

// State returns the mutable run state for components that write to it.
func (s *Session) State() *RunState {
	return &s.state
}

// Snapshot returns a copy of the run state, taken once per tick.
func (s *Session) Snapshot() RunState {
	return s.state
}

// Active reports whether the run is in progress and not paused.
func (s *Session) Active() bool {
	return s.state.Active()
}

// Start begins the run. Starting twice or after game over is a no-op.
func (s *Session) Start() bool {
	if s.state.Started || s.state.Over {
		return false
	}
	s.state.Started = true
	s.startedAt = s.now()
	return true
}

// End marks the run as over and stops the run clock. It is safe to call
// after a component has already set Over.
func (s *Session) End() {
	s.state.Over = true
	if s.endedAt.IsZero() {
		s.endedAt = s.now()
	}
}

// TogglePause flips the pause flag of a running game.
func (s *Session) TogglePause() {
	if !s.state.Started || s.state.Over {
		return
	}
	s.state.Paused = !s.state.Paused
}

// AddCoin increments the coin counter.
func (s *Session) AddCoin() {
	s.state.Coins++
}

// Duration returns how long the run lasted, or has lasted so far.
func (s *Session) Duration() time.Duration {
	if !s.state.Started {
		return 0
	}
	if s.state.Over {
		return s.endedAt.Sub(s.startedAt)
	}
	return s.now().Sub(s.startedAt)
}

// Reset returns the session to the idle state.
func (s *Session) Reset() {
	s.state = RunState{}
	s.startedAt = time.Time{}
	s.endedAt = time.Time{}
}
