// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package troubleshoot

import (
	"errors"
	"time"

	"github.com/netplus-lab/netplus/internal/scoring"
)

var (
	// ErrSessionClosed is returned when a solved or finished session is used.
	ErrSessionClosed = errors.New("troubleshooting session is closed")
	// ErrUnknownScenario is returned by Lookup for unknown IDs.
	ErrUnknownScenario = errors.New("unknown scenario")
)

// Session tracks one learner working through a scenario. It is not safe for
// concurrent use.
type Session struct {
	Scenario Scenario

	now     func() time.Time
	started time.Time
	elapsed time.Duration
	hints   int
	wrong   int
	solved  bool
	closed  bool
}

// NewSession starts the clock on sc. A nil now uses time.Now.
func NewSession(sc Scenario, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{Scenario: sc, now: now, started: now()}
}

// Hint reveals the next hint's message ID. The second return value is false
// once every hint has been shown; exhausted requests are not counted.
func (s *Session) Hint() (string, bool) {
	hints := s.Scenario.Hints()
	if s.closed || s.hints >= len(hints) {
		return "", false
	}
	h := hints[s.hints]
	s.hints++
	return h, true
}

// Answer submits the learner's diagnosis. A correct answer solves and closes
// the session.
func (s *Session) Answer(i Issue) (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}
	if i != s.Scenario.Expected {
		s.wrong++
		return false, nil
	}
	s.solved = true
	s.close()
	return true, nil
}

// Finish closes the session, if still open, and scores it.
func (s *Session) Finish() scoring.Result {
	s.close()
	return scoring.Troubleshooting(s.Attempt())
}

// Attempt reports the session counters for scoring and persistence.
func (s *Session) Attempt() scoring.Attempt {
	elapsed := s.elapsed
	if !s.closed {
		elapsed = s.now().Sub(s.started)
	}
	return scoring.Attempt{Hints: s.hints, WrongAnswers: s.wrong, Elapsed: elapsed, Solved: s.solved}
}

// Solved reports whether the expected issue was named.
func (s *Session) Solved() bool { return s.solved }

// Closed reports whether the session accepts further answers.
func (s *Session) Closed() bool { return s.closed }

func (s *Session) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.elapsed = s.now().Sub(s.started)
}
