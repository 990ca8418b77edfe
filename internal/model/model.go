// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the records NetPlus persists: practice attempts,
// saved VLSM designs and the audit log.
package model // import "github.com/netplus-lab/netplus/internal/model"

import (
	"time"

	"github.com/netplus-lab/netplus/internal/netcalc"
)

// Module names a practice area whose progress is tracked.
type Module string

const (
	ModuleSubnetting      Module = "subnetting"
	ModuleVLSM            Module = "vlsm"
	ModuleTroubleshooting Module = "troubleshooting"
	ModuleQuiz            Module = "quiz"
)

// Modules lists every tracked module in display order.
func Modules() []Module {
	return []Module{ModuleSubnetting, ModuleVLSM, ModuleTroubleshooting, ModuleQuiz}
}

// Valid reports whether m is a known module.
func (m Module) Valid() bool {
	for _, k := range Modules() {
		if k == m {
			return true
		}
	}
	return false
}

// Attempt is one scored practice run.
type Attempt struct {
	ID           int64     `json:"id"`
	Module       Module    `json:"module"`
	ScenarioID   string    `json:"scenario_id,omitempty"` // troubleshooting scenario or design ID
	Score        int       `json:"score"`                 // 0..100
	Hints        int       `json:"hints"`
	WrongAnswers int       `json:"wrong_answers"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// Design is a saved VLSM plan.
type Design struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Base      string       `json:"base"`
	Plan      netcalc.Plan `json:"plan"`
	CreatedAt time.Time    `json:"created_at"`
}

// AuditLogEntry records a state-changing action.
type AuditLogEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}
