// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package backup

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/netplus-lab/netplus/internal/db"
	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/testutil"
)

func seed(t *testing.T) *testutil.FakeStore {
	t.Helper()
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	if _, err := fs.AddAttempt(ctx, model.Attempt{Module: model.ModuleQuiz, Score: 75, CreatedAt: ts}); err != nil {
		t.Fatal(err)
	}
	plan, err := netcalc.AllocateVLSM(netcalc.MustParsePrefix("172.16.0.0/22"), []netcalc.Requirement{{Name: "A", Hosts: 300}})
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.SaveDesign(ctx, model.Design{ID: "x1", Name: "hq", Base: "172.16.0.0/22", Plan: plan, CreatedAt: ts}); err != nil {
		t.Fatal(err)
	}
	for _, action := range []string{"ATTEMPT_ADD", "DESIGN_SAVE"} {
		if err := fs.LogAction(ctx, model.AuditLogEntry{Timestamp: ts, Username: "u", Action: action}); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestWriteRead_RoundTrip(t *testing.T) {
	data, err := Export(context.Background(), seed(t))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if data.AuditLog[0].Action != "ATTEMPT_ADD" {
		t.Fatalf("audit log not oldest first: %+v", data.AuditLog)
	}

	var buf bytes.Buffer
	if err := Write(&buf, data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// zstd frame magic
	if !bytes.HasPrefix(buf.Bytes(), []byte{0x28, 0xb5, 0x2f, 0xfd}) {
		t.Fatalf("output is not a zstd frame")
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff(data, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_Garbage(t *testing.T) {
	if _, err := Read(bytes.NewBufferString("not zstd")); err == nil {
		t.Fatalf("expected error for non-zstd input")
	}
}

func TestImport_MergeSkipsDuplicateDesigns(t *testing.T) {
	ctx := context.Background()
	src := seed(t)
	data, _ := Export(ctx, src)

	dst := seed(t)
	st, err := Import(ctx, dst, data, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if diff := cmp.Diff(Stats{Attempts: 1, Designs: 0, Skipped: 1, Audit: 2}, st); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
	all, _ := dst.ListAttempts(ctx, "")
	if len(all) != 2 {
		t.Fatalf("attempts after merge = %d, want 2", len(all))
	}
}

func TestMigrate_ReplacesTarget(t *testing.T) {
	ctx := context.Background()
	src := seed(t)
	dst := seed(t)
	_, _ = dst.AddAttempt(ctx, model.Attempt{Module: model.ModuleVLSM, Score: 1})

	st, err := Migrate(ctx, src, dst)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if st.Designs != 1 || st.Attempts != 1 {
		t.Fatalf("stats = %+v", st)
	}
	want, _ := src.ListAttempts(ctx, "")
	got, _ := dst.ListAttempts(ctx, "")
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(model.Attempt{}, "ID")); diff != "" {
		t.Fatalf("attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestImport_RejectsNewerVersion(t *testing.T) {
	_, err := Import(context.Background(), testutil.NewFakeStore(), &Data{Version: FormatVersion + 1}, true)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestExport_StoreError(t *testing.T) {
	fs := testutil.NewFakeStore()
	fs.Err = testutil.ErrFake
	if _, err := Export(context.Background(), fs); !errors.Is(err, testutil.ErrFake) {
		t.Fatalf("err = %v, want ErrFake", err)
	}
}

func failingBackup() *Data {
	ts := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	return &Data{
		Version:  FormatVersion,
		Attempts: []model.Attempt{{Module: model.ModuleVLSM, Score: 10, CreatedAt: ts}},
		Designs: []model.Design{
			{ID: "d1", Name: "dup", Base: "10.0.0.0/24", CreatedAt: ts},
			{ID: "d2", Name: "dup", Base: "10.0.1.0/24", CreatedAt: ts},
		},
	}
}

func TestImport_FullRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	fs := seed(t)

	if _, err := Import(ctx, fs, failingBackup(), true); !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	attempts, _ := fs.ListAttempts(ctx, "")
	if len(attempts) != 1 || attempts[0].Score != 75 {
		t.Fatalf("attempts after failed restore = %+v", attempts)
	}
	if _, err := fs.GetDesign(ctx, "hq"); err != nil {
		t.Fatalf("design hq lost after failed restore: %v", err)
	}
}

func TestImport_FullRollsBackOnError_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := db.New("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.AddAttempt(ctx, model.Attempt{Module: model.ModuleQuiz, Score: 90}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveDesign(ctx, model.Design{ID: "k1", Name: "keep", Base: "192.168.0.0/24"}); err != nil {
		t.Fatal(err)
	}

	if _, err := Import(ctx, store, failingBackup(), true); !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}

	attempts, err := store.ListAttempts(ctx, "")
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(attempts) != 1 || attempts[0].Score != 90 {
		t.Fatalf("attempts after failed restore = %+v", attempts)
	}
	designs, err := store.ListDesigns(ctx)
	if err != nil {
		t.Fatalf("ListDesigns: %v", err)
	}
	if len(designs) != 1 || designs[0].Name != "keep" {
		t.Fatalf("designs after failed restore = %+v", designs)
	}
}

func TestImport_MergeSkipsDuplicatesWithinBackup(t *testing.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStore()
	st, err := Import(ctx, fs, failingBackup(), false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if st.Designs != 1 || st.Skipped != 1 {
		t.Fatalf("stats = %+v", st)
	}
}
