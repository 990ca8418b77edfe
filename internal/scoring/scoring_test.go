// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package scoring

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/netplus-lab/netplus/internal/netcalc"
)

func TestTroubleshooting(t *testing.T) {
	tests := []struct {
		name string
		in   Attempt
		want int
	}{
		{"unsolved", Attempt{Solved: false, Elapsed: time.Second}, 0},
		{"perfect slow", Attempt{Solved: true, Elapsed: 5 * time.Minute}, 100},
		{"perfect fast capped", Attempt{Solved: true, Elapsed: 10 * time.Second}, 100},
		{"two hints slow", Attempt{Solved: true, Hints: 2, Elapsed: 3 * time.Minute}, 80},
		{"hints offset by bonus", Attempt{Solved: true, Hints: 2, Elapsed: time.Minute}, 90},
		{"wrong answers", Attempt{Solved: true, WrongAnswers: 3, Elapsed: TargetTime}, 85},
		{"floor at zero", Attempt{Solved: true, Hints: 9, WrongAnswers: 9, Elapsed: time.Hour}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Troubleshooting(tt.in)
			if got.Score != tt.want {
				t.Fatalf("score = %d, want %d (%+v)", got.Score, tt.want, got)
			}
		})
	}
}

func TestDesign(t *testing.T) {
	plan, err := netcalc.AllocateVLSM(netcalc.MustParsePrefix("10.0.0.0/24"), []netcalc.Requirement{
		{Name: "a", Hosts: 62},
		{Name: "b", Hosts: 30},
	})
	if err != nil {
		t.Fatalf("AllocateVLSM: %v", err)
	}
	got := Design(plan)
	if got.Efficiency != 100 || got.Grade != "A" || got.Score != 100 {
		t.Fatalf("perfect fit graded %+v", got)
	}

	loose, _ := netcalc.AllocateVLSM(netcalc.MustParsePrefix("10.0.0.0/24"), []netcalc.Requirement{{Name: "a", Hosts: 33}})
	res := Design(loose)
	if math.Abs(res.Efficiency-35.0/64*100) > 1e-9 || res.Grade != "F" {
		t.Fatalf("loose fit graded %+v", res)
	}

	if empty := Design(netcalc.Plan{}); empty.Score != 0 || empty.Grade != "F" {
		t.Fatalf("empty plan graded %+v", empty)
	}
}

func TestQuiz(t *testing.T) {
	r, err := Quiz(78, 90)
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	if r.Scaled != 793 || !r.Passed || r.Grade != "B" {
		t.Fatalf("unexpected quiz result %+v", r)
	}
	low, _ := Quiz(70, 90)
	if low.Scaled != 722 || !low.Passed {
		t.Fatalf("unexpected quiz result %+v", low)
	}
	fail, _ := Quiz(69, 90)
	if fail.Scaled != 713 || fail.Passed {
		t.Fatalf("unexpected quiz result %+v", fail)
	}
	if top, _ := Quiz(120, 90); top.Scaled != ScaledMax || top.Correct != 90 {
		t.Fatalf("correct should clamp to total: %+v", top)
	}
	if _, err := Quiz(1, 0); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestGrade(t *testing.T) {
	cases := map[float64]string{95: "A", 90: "A", 85: "B", 70: "C", 65: "D", 10: "F"}
	for in, want := range cases {
		if got := Grade(in); got != want {
			t.Fatalf("Grade(%v) = %s, want %s", in, got, want)
		}
	}
}
