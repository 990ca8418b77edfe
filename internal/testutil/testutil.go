// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds in-memory fakes shared by package tests.
package testutil // import "github.com/netplus-lab/netplus/internal/testutil"

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/netplus-lab/netplus/internal/db"
	"github.com/netplus-lab/netplus/internal/model"
)

// FakeStore is an in-memory db.Store. Set Err to make every call fail.
type FakeStore struct {
	mu       sync.Mutex
	attempts []model.Attempt
	designs  []model.Design
	audit    []model.AuditLogEntry
	nextID   int64
	Err      error
	Closed   bool
}

var _ db.Store = (*FakeStore)(nil)

// NewFakeStore returns an empty FakeStore.
func NewFakeStore() *FakeStore { return &FakeStore{} }

func (f *FakeStore) AddAttempt(_ context.Context, a model.Attempt) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	f.nextID++
	a.ID = f.nextID
	f.attempts = append(f.attempts, a)
	return a.ID, nil
}

func (f *FakeStore) ListAttempts(_ context.Context, module model.Module) ([]model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []model.Attempt
	for _, a := range f.attempts {
		if module == "" || a.Module == module {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *FakeStore) DeleteAttempts(_ context.Context, module model.Module) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	kept := f.attempts[:0]
	var n int64
	for _, a := range f.attempts {
		if module == "" || a.Module == module {
			n++
			continue
		}
		kept = append(kept, a)
	}
	f.attempts = kept
	return n, nil
}

func (f *FakeStore) SaveDesign(_ context.Context, d model.Design) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	for _, e := range f.designs {
		if e.ID == d.ID || e.Name == d.Name {
			return db.ErrDuplicate
		}
	}
	f.designs = append(f.designs, d)
	return nil
}

func (f *FakeStore) ListDesigns(context.Context) ([]model.Design, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := append([]model.Design(nil), f.designs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakeStore) GetDesign(_ context.Context, key string) (model.Design, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return model.Design{}, f.Err
	}
	for _, d := range f.designs {
		if d.ID == key || d.Name == key {
			return d, nil
		}
	}
	return model.Design{}, db.ErrNotFound
}

func (f *FakeStore) DeleteDesign(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	for i, d := range f.designs {
		if d.ID == key || d.Name == key {
			f.designs = append(f.designs[:i], f.designs[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *FakeStore) LogAction(_ context.Context, e model.AuditLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	e.ID = int64(len(f.audit) + 1)
	f.audit = append(f.audit, e)
	return nil
}

// AuditLog returns entries newest first.
func (f *FakeStore) AuditLog(_ context.Context, limit int) ([]model.AuditLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []model.AuditLogEntry
	for i := len(f.audit) - 1; i >= 0; i-- {
		out = append(out, f.audit[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *FakeStore) Wipe(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.attempts, f.designs, f.audit = nil, nil, nil
	return nil
}

// RunInTx snapshots the store and restores the snapshot when fn fails.
func (f *FakeStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx db.Store) error) error {
	f.mu.Lock()
	if f.Err != nil {
		f.mu.Unlock()
		return f.Err
	}
	attempts := append([]model.Attempt(nil), f.attempts...)
	designs := append([]model.Design(nil), f.designs...)
	audit := append([]model.AuditLogEntry(nil), f.audit...)
	nextID := f.nextID
	f.mu.Unlock()

	if err := fn(ctx, f); err != nil {
		f.mu.Lock()
		f.attempts, f.designs, f.audit, f.nextID = attempts, designs, audit, nextID
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *FakeStore) Close() error {
	f.Closed = true
	return nil
}

// Actions returns the recorded audit actions oldest first.
func (f *FakeStore) Actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.audit))
	for _, e := range f.audit {
		out = append(out, e.Action)
	}
	return out
}

// ErrFake is a convenient failure for FakeStore.Err.
var ErrFake = errors.New("fake store failure")

// ContainsAll reports whether s contains every part.
func ContainsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
