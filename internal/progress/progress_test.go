// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/netplus-lab/netplus/internal/db"
	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/testutil"
)

var fixedNow = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func newTracker() (*Tracker, *testutil.FakeStore) {
	fs := testutil.NewFakeStore()
	return New(fs, WithClock(func() time.Time { return fixedNow }), WithUser("student")), fs
}

func TestRecord_Validation(t *testing.T) {
	tr, fs := newTracker()
	ctx := context.Background()

	if _, err := tr.Record(ctx, model.Attempt{Module: "cooking", Score: 50}); !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("err = %v, want ErrUnknownModule", err)
	}
	for _, score := range []int{-1, 101} {
		if _, err := tr.Record(ctx, model.Attempt{Module: model.ModuleQuiz, Score: score}); !errors.Is(err, ErrInvalidScore) {
			t.Fatalf("score %d: err = %v, want ErrInvalidScore", score, err)
		}
	}

	a, err := tr.Record(ctx, model.Attempt{Module: model.ModuleTroubleshooting, ScenarioID: "apipa", Score: 85})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if a.ID != 1 || !a.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected attempt: %+v", a)
	}
	if diff := cmp.Diff([]string{ActionAttemptAdd}, fs.Actions()); diff != "" {
		t.Fatalf("audit actions mismatch (-want +got):\n%s", diff)
	}
	entries, _ := fs.AuditLog(ctx, 1)
	if !testutil.ContainsAll(entries[0].Details, "module=troubleshooting", "score=85", "scenario=apipa") || entries[0].Username != "student" {
		t.Fatalf("audit entry = %+v", entries[0])
	}
}

func TestSummary(t *testing.T) {
	tr, _ := newTracker()
	ctx := context.Background()
	for _, a := range []model.Attempt{
		{Module: model.ModuleSubnetting, Score: 60},
		{Module: model.ModuleSubnetting, Score: 80},
		{Module: model.ModuleQuiz, Score: 50},
	} {
		if _, err := tr.Record(ctx, a); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	s, err := tr.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.TotalAttempts != 3 || s.Percent != 25 {
		t.Fatalf("totals = %d attempts, %d%%; want 3, 25%%", s.TotalAttempts, s.Percent)
	}
	sub := s.Modules[0]
	if sub.Module != model.ModuleSubnetting || sub.Attempts != 2 || sub.Best != 80 || sub.Average != 70 || !sub.Completed {
		t.Fatalf("subnetting stats = %+v", sub)
	}
	if s.Modules[1].Attempts != 0 || s.Modules[1].LastAt != nil {
		t.Fatalf("vlsm stats = %+v", s.Modules[1])
	}
	if q := s.Modules[3]; q.Completed || q.Best != 50 {
		t.Fatalf("quiz stats = %+v", q)
	}
}

func TestReset(t *testing.T) {
	tr, fs := newTracker()
	ctx := context.Background()
	_, _ = tr.Record(ctx, model.Attempt{Module: model.ModuleSubnetting, Score: 90})
	_, _ = tr.Record(ctx, model.Attempt{Module: model.ModuleQuiz, Score: 90})

	if _, err := tr.Reset(ctx, "bogus"); !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("err = %v, want ErrUnknownModule", err)
	}
	n, err := tr.Reset(ctx, model.ModuleQuiz)
	if err != nil || n != 1 {
		t.Fatalf("Reset(quiz) = %d, %v", n, err)
	}
	n, err = tr.Reset(ctx, "")
	if err != nil || n != 1 {
		t.Fatalf("Reset(all) = %d, %v", n, err)
	}
	entries, _ := fs.AuditLog(ctx, 1)
	if entries[0].Action != ActionProgressReset || entries[0].Details != "module=all removed=1" {
		t.Fatalf("last audit = %+v", entries[0])
	}
}

func TestDesigns(t *testing.T) {
	tr, fs := newTracker()
	ctx := context.Background()
	plan, err := netcalc.AllocateVLSM(netcalc.MustParsePrefix("10.0.0.0/24"), []netcalc.Requirement{{Name: "LAN", Hosts: 50}})
	if err != nil {
		t.Fatalf("AllocateVLSM: %v", err)
	}

	if _, err := tr.SaveDesign(ctx, "  ", plan); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
	d, err := tr.SaveDesign(ctx, " campus ", plan)
	if err != nil {
		t.Fatalf("SaveDesign: %v", err)
	}
	if _, err := uuid.Parse(d.ID); err != nil {
		t.Fatalf("design id %q is not a UUID: %v", d.ID, err)
	}
	if d.Name != "campus" || d.Base != "10.0.0.0/24" {
		t.Fatalf("design = %+v", d)
	}
	if _, err := tr.SaveDesign(ctx, "campus", plan); !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("duplicate err = %v", err)
	}

	got, err := tr.Design(ctx, d.ID)
	if err != nil || got.Name != "campus" {
		t.Fatalf("Design = %+v, %v", got, err)
	}
	list, _ := tr.Designs(ctx)
	if len(list) != 1 {
		t.Fatalf("Designs len = %d", len(list))
	}
	if err := tr.DeleteDesign(ctx, "campus"); err != nil {
		t.Fatalf("DeleteDesign: %v", err)
	}
	if err := tr.DeleteDesign(ctx, "campus"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	want := []string{ActionDesignSave, ActionDesignDelete}
	if diff := cmp.Diff(want, fs.Actions()); diff != "" {
		t.Fatalf("audit actions mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	tr, fs := newTracker()
	fs.Err = testutil.ErrFake
	if _, err := tr.Summary(context.Background()); !errors.Is(err, testutil.ErrFake) {
		t.Fatalf("err = %v, want ErrFake", err)
	}
}
