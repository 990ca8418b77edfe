// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package progress tracks learner attempts and saved designs on top of a
// db.Store and records every change in the audit log.
package progress // import "github.com/netplus-lab/netplus/internal/progress"

import (
	"context"
	"errors"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/netplus-lab/netplus/internal/db"
	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/scoring"
)

var (
	// ErrUnknownModule is returned for module names outside model.Modules.
	ErrUnknownModule = errors.New("unknown module")
	// ErrInvalidScore is returned for scores outside 0..100.
	ErrInvalidScore = errors.New("score must be between 0 and 100")
	// ErrEmptyName is returned when a design is saved without a name.
	ErrEmptyName = errors.New("design name must not be empty")
)

// Audit actions.
const (
	ActionAttemptAdd    = "ATTEMPT_ADD"
	ActionProgressReset = "PROGRESS_RESET"
	ActionDesignSave    = "DESIGN_SAVE"
	ActionDesignDelete  = "DESIGN_DELETE"
)

// Tracker records attempts and designs.
type Tracker struct {
	store db.Store
	now   func() time.Time
	user  string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithUser sets the name written to audit entries.
func WithUser(name string) Option {
	return func(t *Tracker) { t.user = name }
}

// New returns a Tracker backed by store. The audit user defaults to the
// current OS user.
func New(store db.Store, opts ...Option) *Tracker {
	t := &Tracker{store: store, now: time.Now}
	if u, err := user.Current(); err == nil {
		t.user = u.Username
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Tracker) audit(ctx context.Context, action, details string) error {
	return t.store.LogAction(ctx, model.AuditLogEntry{
		Timestamp: t.now().UTC(),
		Username:  t.user,
		Action:    action,
		Details:   details,
	})
}

// Record validates a and stores it. CreatedAt defaults to now.
func (t *Tracker) Record(ctx context.Context, a model.Attempt) (model.Attempt, error) {
	if !a.Module.Valid() {
		return model.Attempt{}, fmt.Errorf("%w: %q", ErrUnknownModule, a.Module)
	}
	if a.Score < 0 || a.Score > scoring.BaseScore {
		return model.Attempt{}, fmt.Errorf("%w: %d", ErrInvalidScore, a.Score)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = t.now().UTC()
	}
	id, err := t.store.AddAttempt(ctx, a)
	if err != nil {
		return model.Attempt{}, fmt.Errorf("record attempt: %w", err)
	}
	a.ID = id
	details := fmt.Sprintf("module=%s score=%d", a.Module, a.Score)
	if a.ScenarioID != "" {
		details += " scenario=" + a.ScenarioID
	}
	if err := t.audit(ctx, ActionAttemptAdd, details); err != nil {
		return a, fmt.Errorf("audit attempt: %w", err)
	}
	return a, nil
}

// ModuleStats summarises one module.
type ModuleStats struct {
	Module    model.Module `json:"module"`
	Attempts  int          `json:"attempts"`
	Best      int          `json:"best"`
	Average   float64      `json:"average"`
	Completed bool         `json:"completed"`
	LastAt    *time.Time   `json:"last_at,omitempty"`
}

// Summary is the dashboard view of all modules.
type Summary struct {
	Modules []ModuleStats `json:"modules"`
	// Percent is the share of modules completed, 0..100.
	Percent       int `json:"percent"`
	TotalAttempts int `json:"total_attempts"`
}

// Summary aggregates stored attempts per module. A module is completed
// once its best score reaches scoring.PassPercent.
func (t *Tracker) Summary(ctx context.Context) (Summary, error) {
	attempts, err := t.store.ListAttempts(ctx, "")
	if err != nil {
		return Summary{}, fmt.Errorf("list attempts: %w", err)
	}
	byModule := make(map[model.Module]*ModuleStats)
	sums := make(map[model.Module]int)
	var out Summary
	for _, m := range model.Modules() {
		out.Modules = append(out.Modules, ModuleStats{Module: m})
	}
	for i := range out.Modules {
		byModule[out.Modules[i].Module] = &out.Modules[i]
	}
	for _, a := range attempts {
		st, ok := byModule[a.Module]
		if !ok {
			continue
		}
		st.Attempts++
		sums[a.Module] += a.Score
		if a.Score > st.Best {
			st.Best = a.Score
		}
		if st.LastAt == nil || a.CreatedAt.After(*st.LastAt) {
			ts := a.CreatedAt
			st.LastAt = &ts
		}
		out.TotalAttempts++
	}
	completed := 0
	for i := range out.Modules {
		st := &out.Modules[i]
		if st.Attempts > 0 {
			st.Average = float64(sums[st.Module]) / float64(st.Attempts)
		}
		st.Completed = st.Best >= scoring.PassPercent
		if st.Completed {
			completed++
		}
	}
	out.Percent = completed * 100 / len(out.Modules)
	return out, nil
}

// Reset clears attempts for module, or all modules when module is empty.
func (t *Tracker) Reset(ctx context.Context, module model.Module) (int64, error) {
	if module != "" && !module.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownModule, module)
	}
	n, err := t.store.DeleteAttempts(ctx, module)
	if err != nil {
		return 0, fmt.Errorf("reset progress: %w", err)
	}
	scope := string(module)
	if scope == "" {
		scope = "all"
	}
	if err := t.audit(ctx, ActionProgressReset, fmt.Sprintf("module=%s removed=%d", scope, n)); err != nil {
		return n, fmt.Errorf("audit reset: %w", err)
	}
	return n, nil
}

// SaveDesign stores plan under name with a fresh UUID.
func (t *Tracker) SaveDesign(ctx context.Context, name string, plan netcalc.Plan) (model.Design, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Design{}, ErrEmptyName
	}
	d := model.Design{
		ID:        uuid.NewString(),
		Name:      name,
		Base:      plan.Base.String(),
		Plan:      plan,
		CreatedAt: t.now().UTC(),
	}
	if err := t.store.SaveDesign(ctx, d); err != nil {
		return model.Design{}, fmt.Errorf("save design %q: %w", name, err)
	}
	if err := t.audit(ctx, ActionDesignSave, fmt.Sprintf("id=%s name=%s base=%s", d.ID, d.Name, d.Base)); err != nil {
		return d, fmt.Errorf("audit design: %w", err)
	}
	return d, nil
}

// Designs lists saved designs by name.
func (t *Tracker) Designs(ctx context.Context) ([]model.Design, error) {
	return t.store.ListDesigns(ctx)
}

// Design returns one design by ID or name.
func (t *Tracker) Design(ctx context.Context, idOrName string) (model.Design, error) {
	return t.store.GetDesign(ctx, idOrName)
}

// DeleteDesign removes a design by ID or name.
func (t *Tracker) DeleteDesign(ctx context.Context, idOrName string) error {
	if err := t.store.DeleteDesign(ctx, idOrName); err != nil {
		return fmt.Errorf("delete design %q: %w", idOrName, err)
	}
	return t.audit(ctx, ActionDesignDelete, "design="+idOrName)
}
