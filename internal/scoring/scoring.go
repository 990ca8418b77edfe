// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package scoring holds the formulas used to grade troubleshooting sessions,
// VLSM designs and practice quizzes.
package scoring // import "github.com/netplus-lab/netplus/internal/scoring"

import (
	"errors"
	"math"
	"time"

	"github.com/netplus-lab/netplus/internal/netcalc"
)

const (
	BaseScore    = 100
	HintPenalty  = 10
	WrongPenalty = 5
	MaxTimeBonus = 20
	TargetTime   = 2 * time.Minute

	// PassPercent is the score at which a module counts as completed.
	PassPercent = 70

	ScaledMin  = 100
	ScaledMax  = 900
	ScaledPass = 720
)

// ErrNoQuestions is returned by Quiz when total is not positive.
var ErrNoQuestions = errors.New("quiz has no questions")

// Attempt summarizes one troubleshooting session.
type Attempt struct {
	Hints        int
	WrongAnswers int
	Elapsed      time.Duration
	Solved       bool
}

// Result is a 0..100 score with its letter grade.
type Result struct {
	Score     int    `json:"score"`
	Grade     string `json:"grade"`
	TimeBonus int    `json:"time_bonus"`
	Penalty   int    `json:"penalty"`
}

// Troubleshooting scores a session: 100 minus 10 per hint and 5 per wrong
// answer, plus up to 20 points for finishing under TargetTime. The result is
// clamped to 0..100; unsolved sessions score 0.
func Troubleshooting(a Attempt) Result {
	if !a.Solved {
		return Result{Score: 0, Grade: Grade(0)}
	}
	penalty := a.Hints*HintPenalty + a.WrongAnswers*WrongPenalty
	bonus := 0
	if a.Elapsed >= 0 && a.Elapsed < TargetTime {
		bonus = int(int64(MaxTimeBonus) * int64(TargetTime-a.Elapsed) / int64(TargetTime))
	}
	score := clamp(BaseScore-penalty+bonus, 0, 100)
	return Result{Score: score, Grade: Grade(float64(score)), TimeBonus: bonus, Penalty: penalty}
}

// DesignResult grades a VLSM plan.
type DesignResult struct {
	// Efficiency is the share of allocated addresses actually needed
	// (hosts plus network and broadcast), in percent.
	Efficiency float64 `json:"efficiency"`
	Score      int     `json:"score"`
	Grade      string  `json:"grade"`
}

// Design grades how tightly a plan's subnets fit their requirements.
func Design(p netcalc.Plan) DesignResult {
	if p.UsedAddresses == 0 {
		return DesignResult{Grade: Grade(0)}
	}
	var needed uint64
	for _, a := range p.Allocations {
		needed += uint64(a.Hosts) + 2
	}
	eff := float64(needed) / float64(p.UsedAddresses) * 100
	if eff > 100 {
		eff = 100
	}
	score := int(math.Round(eff))
	return DesignResult{Efficiency: eff, Score: score, Grade: Grade(eff)}
}

// QuizResult is a practice-exam outcome on the CompTIA 100-900 scale.
type QuizResult struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Scaled  int     `json:"scaled"`
	Passed  bool    `json:"passed"`
	Grade   string  `json:"grade"`
}

// Quiz converts a raw result to a percentage and a scaled exam score.
func Quiz(correct, total int) (QuizResult, error) {
	if total <= 0 {
		return QuizResult{}, ErrNoQuestions
	}
	correct = clamp(correct, 0, total)
	pct := float64(correct) / float64(total) * 100
	scaled := ScaledMin + int(math.Round(float64(ScaledMax-ScaledMin)*float64(correct)/float64(total)))
	return QuizResult{
		Correct: correct,
		Total:   total,
		Percent: pct,
		Scaled:  scaled,
		Passed:  scaled >= ScaledPass,
		Grade:   Grade(pct),
	}, nil
}

// Grade maps a percentage to a letter grade.
func Grade(percent float64) string {
	switch {
	case percent >= 90:
		return "A"
	case percent >= 80:
		return "B"
	case percent >= 70:
		return "C"
	case percent >= 60:
		return "D"
	}
	return "F"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
