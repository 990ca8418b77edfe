// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/progress"
	"github.com/netplus-lab/netplus/internal/scoring"
	"github.com/netplus-lab/netplus/internal/troubleshoot"
)

// setupCLI isolates config discovery and points the database at a temp file.
func setupCLI(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	t.Chdir(tmp)
	dsn := filepath.Join(tmp, "netplus.db")
	t.Setenv("NETPLUS_DATABASE_DSN", dsn)
	return dsn
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, stdin, args...)
	if err != nil {
		t.Fatalf("netplus %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return v
}

func fixClock(t *testing.T) {
	t.Helper()
	fixed := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	orig := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = orig })
}

func TestSubnetCommand(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "", "subnet", "192.168.10.77/26")
	for _, want := range []string{"192.168.10.64/26", "255.255.255.192", "192.168.10.127", "192.168.10.65 - 192.168.10.126", "62"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "", "subnet", "10.1.2.3", "255.255.240.0", "--binary")
	if !strings.Contains(out, "10.1.0.0/20") || !strings.Contains(out, "11111111.11111111.11110000.00000000") {
		t.Errorf("mask form or binary rows missing:\n%s", out)
	}

	// A bare class B address gets /16.
	s := decodeJSON[netcalc.Subnet](t, mustRun(t, "", "-o", "json", "subnet", "172.16.5.4"))
	if s.Prefix != 16 || s.UsableHosts != 65534 {
		t.Fatalf("classful default: %+v", s)
	}

	if _, err := runCLI(t, "", "subnet", "300.1.1.1/24"); err == nil {
		t.Fatal("expected error for invalid address")
	}
}

func TestSplitCommand(t *testing.T) {
	setupCLI(t)

	subnets := decodeJSON[[]netcalc.Subnet](t, mustRun(t, "", "-o", "json", "split", "192.168.0.0/24", "--count", "6"))
	if len(subnets) != 8 || subnets[7].CIDR != "192.168.0.224/27" {
		t.Fatalf("split --count 6: %d subnets, last %+v", len(subnets), subnets[len(subnets)-1])
	}

	out := mustRun(t, "", "split", "10.0.0.0/16", "--prefix", "18")
	if !strings.Contains(out, "10.0.192.0/18") {
		t.Fatalf("missing last /18:\n%s", out)
	}

	if _, err := runCLI(t, "", "split", "10.0.0.0/16"); err == nil {
		t.Fatal("expected error without --count or --prefix")
	}
	if _, err := runCLI(t, "", "split", "10.0.0.0/16", "--count", "2", "--prefix", "17"); err == nil {
		t.Fatal("expected error with both flags")
	}
}

func TestSummarizeCommand(t *testing.T) {
	setupCLI(t)
	out := mustRun(t, "", "summarize", "10.1.4.0/24", "10.1.5.0/24", "10.1.6.0/24", "10.1.7.0/24")
	if strings.TrimSpace(out) != "10.1.4.0/22" {
		t.Fatalf("summary = %q", out)
	}
}

func TestVLSMSaveRecordsDesignAndAttempt(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "", "vlsm", "192.168.1.0/24", "sales:50,it:20,wan:2", "--save", "branch")
	for _, want := range []string{"sales", "192.168.1.0/26", "192.168.1.64/27", "192.168.1.96/30", "branch"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	designs := decodeJSON[[]model.Design](t, mustRun(t, "", "-o", "json", "designs", "list"))
	if len(designs) != 1 || designs[0].Name != "branch" || designs[0].Base != "192.168.1.0/24" {
		t.Fatalf("designs = %+v", designs)
	}

	shown := mustRun(t, "", "designs", "show", "branch")
	if !strings.Contains(shown, "192.168.1.96/30") {
		t.Fatalf("designs show:\n%s", shown)
	}

	sum := decodeJSON[progress.Summary](t, mustRun(t, "", "-o", "json", "progress", "show"))
	var vlsm progress.ModuleStats
	for _, m := range sum.Modules {
		if m.Module == model.ModuleVLSM {
			vlsm = m
		}
	}
	if vlsm.Attempts != 1 || vlsm.Best == 0 {
		t.Fatalf("vlsm stats = %+v", vlsm)
	}

	mustRun(t, "", "designs", "delete", "branch")
	if _, err := runCLI(t, "", "designs", "show", "branch"); err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestVLSMFromFile(t *testing.T) {
	dir := setupCLI(t)
	file := filepath.Join(filepath.Dir(dir), "plan.yaml")
	plan := "base: 10.0.0.0/24\nrequirements:\n  - name: lab\n    hosts: 100\n  - name: office\n    hosts: 60\n"
	if err := os.WriteFile(file, []byte(plan), 0o600); err != nil {
		t.Fatal(err)
	}
	res := decodeJSON[vlsmResult](t, mustRun(t, "", "-o", "json", "vlsm", "--file", file))
	if len(res.Plan.Allocations) != 2 || res.Plan.Allocations[0].Subnet.CIDR != "10.0.0.0/25" {
		t.Fatalf("plan = %+v", res.Plan)
	}
	if res.Design != nil {
		t.Fatal("design saved without --save")
	}

	if _, err := runCLI(t, "", "vlsm", "10.0.0.0/30", "a:100"); err == nil {
		t.Fatal("expected insufficient space error")
	}
}

func TestValidateCommand(t *testing.T) {
	setupCLI(t)

	out := mustRun(t, "", "validate", "mac", "00:1A:2B:3C:4D:5E")
	if !strings.Contains(out, "00:1A:2B:3C:4D:5E") {
		t.Fatalf("output:\n%s", out)
	}

	out, err := runCLI(t, "", "validate", "vlan", "10", "4095")
	if err == nil {
		t.Fatal("expected failure for VLAN 4095")
	}
	if !strings.Contains(out, "between 1 and 4094") {
		t.Fatalf("missing localized reason:\n%s", out)
	}

	if _, err := runCLI(t, "", "validate", "bogus", "x"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestDiagnoseCommand(t *testing.T) {
	setupCLI(t)

	res := decodeJSON[diagnoseResult](t, mustRun(t, "", "-o", "json", "diagnose",
		"--ip", "192.168.1.64", "--mask", "/26", "--gateway", "192.168.1.65", "--dns", "1.1.1.1"))
	if res.Healthy || res.Primary != troubleshoot.IssueNetworkAddress {
		t.Fatalf("diagnose = %+v", res)
	}

	healthy := decodeJSON[diagnoseResult](t, mustRun(t, "", "-o", "json", "diagnose",
		"--ip", "10.0.0.20", "--mask", "255.255.255.0", "--gateway", "10.0.0.1", "--dns", "10.0.0.1"))
	if !healthy.Healthy || len(healthy.Findings) != 0 {
		t.Fatalf("healthy host = %+v", healthy)
	}

	for _, tt := range []struct {
		dhcp bool
		want troubleshoot.Issue
	}{
		{true, troubleshoot.IssueAPIPA},
		{false, troubleshoot.IssueStaticLinkLocal},
	} {
		args := []string{"-o", "json", "diagnose", "--ip", "169.254.3.3", "--mask", "16", "--dns", "1.1.1.1"}
		if tt.dhcp {
			args = append(args, "--dhcp")
		}
		res := decodeJSON[diagnoseResult](t, mustRun(t, "", args...))
		if res.Primary != tt.want {
			t.Fatalf("diagnose dhcp=%v primary = %s, want %s", tt.dhcp, res.Primary, tt.want)
		}
	}
}

func TestTroubleshootList(t *testing.T) {
	setupCLI(t)
	list := decodeJSON[[]troubleshoot.Scenario](t, mustRun(t, "", "-o", "json", "troubleshoot", "list"))
	if len(list) != len(troubleshoot.Scenarios()) || list[0].ID != "apipa" {
		t.Fatalf("list = %+v", list)
	}
}

func TestTroubleshootPlayRecordsAttempt(t *testing.T) {
	setupCLI(t)
	fixClock(t)

	out := mustRun(t, "hint\n1\nnonsense\napipa\n", "troubleshoot", "play", "apipa")
	if !strings.Contains(out, "169.254.23.7") {
		t.Fatalf("host config not shown:\n%s", out)
	}

	sum := decodeJSON[progress.Summary](t, mustRun(t, "", "-o", "json", "progress", "show"))
	for _, m := range sum.Modules {
		if m.Module != model.ModuleTroubleshooting {
			continue
		}
		// 100 - 10 (hint) - 5 (wrong) + 20 (instant) is clamped to 100.
		if m.Attempts != 1 || m.Best != 100 || !m.Completed {
			t.Fatalf("troubleshooting stats = %+v", m)
		}
		return
	}
	t.Fatal("troubleshooting module missing from summary")
}

func TestTroubleshootGiveUpScoresZero(t *testing.T) {
	setupCLI(t)
	fixClock(t)

	mustRun(t, "quit\n", "troubleshoot", "play", "no-dns")
	sum := decodeJSON[progress.Summary](t, mustRun(t, "", "-o", "json", "progress", "show"))
	if sum.TotalAttempts != 1 || sum.Percent != 0 {
		t.Fatalf("summary = %+v", sum)
	}

	if _, err := runCLI(t, "", "troubleshoot", "play", "no-such-scenario"); err == nil {
		t.Fatal("expected unknown scenario error")
	}
}

func TestDrillScoresAnswers(t *testing.T) {
	setupCLI(t)
	fixClock(t)

	const seed = 42
	q := newDrillQuestion(rand.New(rand.NewPCG(seed, seed>>1)))
	answers := strings.Join([]string{
		q.Subnet.Network.String(),
		q.Subnet.Broadcast.String(),
		"0", // prefixes stop at /30, so never right
	}, "\n") + "\n"

	out := mustRun(t, answers, "drill", "--count", "1", "--seed", strconv.Itoa(seed))
	if !strings.Contains(out, q.Host.String()) || !strings.Contains(out, "2/3") {
		t.Fatalf("drill output:\n%s", out)
	}

	sum := decodeJSON[progress.Summary](t, mustRun(t, "", "-o", "json", "progress", "show"))
	for _, m := range sum.Modules {
		if m.Module == model.ModuleSubnetting && (m.Attempts != 1 || m.Best != 67) {
			t.Fatalf("subnetting stats = %+v", m)
		}
	}
}

func TestQuizScore(t *testing.T) {
	setupCLI(t)

	res := decodeJSON[scoring.QuizResult](t, mustRun(t, "", "-o", "json", "quiz-score", "52", "65", "--record"))
	if res.Scaled != 740 || !res.Passed {
		t.Fatalf("quiz = %+v", res)
	}
	sum := decodeJSON[progress.Summary](t, mustRun(t, "", "-o", "json", "progress", "show"))
	if sum.TotalAttempts != 1 {
		t.Fatalf("quiz attempt not recorded: %+v", sum)
	}

	if _, err := runCLI(t, "", "quiz-score", "1", "0"); err == nil {
		t.Fatal("expected error for zero questions")
	}
}

func TestProgressReset(t *testing.T) {
	setupCLI(t)
	mustRun(t, "", "quiz-score", "10", "10", "--record")

	out := mustRun(t, "n\n", "progress", "reset")
	if !strings.Contains(out, "Aborted") {
		t.Fatalf("reset without confirmation:\n%s", out)
	}
	mustRun(t, "", "progress", "reset", "quiz", "--yes")

	sum := decodeJSON[progress.Summary](t, mustRun(t, "", "-o", "json", "progress", "show"))
	if sum.TotalAttempts != 0 {
		t.Fatalf("attempts left after reset: %+v", sum)
	}

	if _, err := runCLI(t, "", "progress", "reset", "cooking", "--yes"); err == nil {
		t.Fatal("expected unknown module error")
	}
}

func TestBackupRestoreAndMigrate(t *testing.T) {
	dsn := setupCLI(t)
	dir := filepath.Dir(dsn)
	mustRun(t, "", "vlsm", "172.16.0.0/22", "a:200,b:100", "--save", "campus")
	mustRun(t, "", "quiz-score", "60", "65", "--record")

	mustRun(t, "", "backup", filepath.Join(dir, "snap.json"))
	file := filepath.Join(dir, "snap.json.zst")
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("backup file: %v", err)
	}

	other := filepath.Join(dir, "restored.db")
	mustRun(t, "", "--database.dsn", other, "restore", file, "--full", "--yes")
	designs := decodeJSON[[]model.Design](t, mustRun(t, "", "-o", "json", "--database.dsn", other, "designs", "list"))
	if len(designs) != 1 || designs[0].Name != "campus" {
		t.Fatalf("restored designs = %+v", designs)
	}

	// Merging the same backup again skips the existing design.
	out := mustRun(t, "", "-o", "json", "--database.dsn", other, "restore", file)
	if !strings.Contains(out, `"skipped": 1`) {
		t.Fatalf("merge stats:\n%s", out)
	}

	target := filepath.Join(dir, "migrated.db")
	mustRun(t, "", "migrate", "--to.dsn", target)
	sum := decodeJSON[progress.Summary](t, mustRun(t, "", "-o", "json", "--database.dsn", target, "progress", "show"))
	if sum.TotalAttempts != 2 {
		t.Fatalf("migrated attempts = %+v", sum)
	}

	if _, err := runCLI(t, "", "migrate", "--to.dsn", dsn); err == nil {
		t.Fatal("expected error when migrating onto itself")
	}
}

func TestAuditShowsActions(t *testing.T) {
	setupCLI(t)
	mustRun(t, "", "quiz-score", "1", "2", "--record")
	out := mustRun(t, "", "audit")
	if !strings.Contains(out, progress.ActionAttemptAdd) {
		t.Fatalf("audit:\n%s", out)
	}
}

func TestDBMaintain(t *testing.T) {
	setupCLI(t)
	mustRun(t, "", "progress", "show")
	out := mustRun(t, "", "db-maintain", "--timeout", "30")
	if !strings.Contains(out, "completed") {
		t.Fatalf("db-maintain:\n%s", out)
	}
}

func TestVersionAndDebug(t *testing.T) {
	setupCLI(t)
	out := mustRun(t, "", "version")
	if !strings.Contains(out, "version:") || !strings.Contains(out, "commit:") {
		t.Fatalf("version:\n%s", out)
	}

	t.Setenv("NETPLUS_LOG_LEVEL", "warn")
	out = mustRun(t, "", "debug", "--database.dsn", "postgres://u:secret@db/netplus")
	for _, want := range []string{"Config file used", "NETPLUS_LOG_LEVEL=warn", "database.dsn"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q", want)
		}
	}
	if strings.Contains(out, `"Dsn": "postgres://u:secret@db/netplus"`) {
		t.Error("password not redacted in effective settings")
	}
}

func TestRootWithoutTerminalPrintsHelp(t *testing.T) {
	setupCLI(t)
	orig := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	out := mustRun(t, "")
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("expected help:\n%s", out)
	}
}

func TestFirstRunWritesConfig(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	t.Chdir(tmp)
	mustRun(t, "", "summarize", "10.0.0.0/24", "10.0.1.0/24")

	matches, _ := filepath.Glob(filepath.Join(tmp, "*", "netplus.yaml"))
	if len(matches) == 0 {
		matches, _ = filepath.Glob(filepath.Join(tmp, "*", "*", "netplus.yaml"))
	}
	if len(matches) == 0 {
		t.Fatal("no config file written on first run")
	}
}

func TestConfigFlagMustExist(t *testing.T) {
	setupCLI(t)
	if _, err := runCLI(t, "", "--config", "/nonexistent/netplus.yaml", "summarize", "10.0.0.0/24"); err == nil {
		t.Fatal("expected error for missing --config file")
	}
}
