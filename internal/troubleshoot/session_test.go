// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package troubleshoot

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestSessionSolveWithHintsAndWrongAnswer(t *testing.T) {
	sc, err := Lookup("gateway-off-subnet")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	clk := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSession(sc, clk.now)

	if h, ok := s.Hint(); !ok || h != "hint.check_gateway" {
		t.Fatalf("first hint = %q, %v", h, ok)
	}
	if ok, err := s.Answer(IssueDNSMissing); ok || err != nil {
		t.Fatalf("wrong answer accepted: %v, %v", ok, err)
	}
	clk.t = clk.t.Add(3 * time.Minute)
	if ok, err := s.Answer(IssueGatewayOffSubnet); !ok || err != nil {
		t.Fatalf("correct answer rejected: %v, %v", ok, err)
	}
	if !s.Solved() || !s.Closed() {
		t.Fatalf("session should be solved and closed")
	}
	clk.t = clk.t.Add(time.Hour)
	res := s.Finish()
	if res.Score != 85 {
		t.Fatalf("score = %d, want 85 (%+v)", res.Score, res)
	}
	if a := s.Attempt(); a.Elapsed != 3*time.Minute {
		t.Fatalf("elapsed should freeze at solve time, got %s", a.Elapsed)
	}
	if _, err := s.Answer(IssueGatewayOffSubnet); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if _, ok := s.Hint(); ok {
		t.Fatalf("closed session must not hand out hints")
	}
}

func TestSessionHintsExhaust(t *testing.T) {
	sc, _ := Lookup("apipa")
	s := NewSession(sc, nil)
	n := 0
	for {
		if _, ok := s.Hint(); !ok {
			break
		}
		n++
	}
	if n != len(sc.Hints()) || s.Attempt().Hints != n {
		t.Fatalf("hint count %d, attempt hints %d", n, s.Attempt().Hints)
	}
}

func TestSessionFinishUnsolved(t *testing.T) {
	sc, _ := Lookup("no-dns")
	s := NewSession(sc, nil)
	if res := s.Finish(); res.Score != 0 {
		t.Fatalf("unsolved score = %d", res.Score)
	}
	if _, err := s.Answer(IssueDNSMissing); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed after finish, got %v", err)
	}
}
