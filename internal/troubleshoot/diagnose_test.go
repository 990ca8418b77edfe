// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package troubleshoot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func issuesOf(fs []Finding) []Issue {
	var out []Issue
	for _, f := range fs {
		out = append(out, f.Issue)
	}
	return out
}

func TestDiagnoseHealthyHost(t *testing.T) {
	got := Diagnose(HostConfig{IP: "192.168.1.10", Mask: "255.255.255.0", Gateway: "192.168.1.1", DNS: []string{"192.168.1.1", "8.8.8.8"}})
	if len(got) != 0 {
		t.Fatalf("expected no findings, got %+v", got)
	}
	if Primary(got) != IssueNone {
		t.Fatalf("Primary of no findings = %s", Primary(got))
	}
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name string
		cfg  HostConfig
		want []Issue
	}{
		{
			name: "invalid ip and mask still checks dns",
			cfg:  HostConfig{IP: "10.0.0.256", Mask: "255.0.255.0", Gateway: "10.0.0.1"},
			want: []Issue{IssueInvalidIP, IssueInvalidMask, IssueDNSMissing},
		},
		{
			name: "apipa suppresses follow-on findings",
			cfg:  HostConfig{IP: "169.254.1.1", Mask: "255.255.0.0", DHCP: true},
			want: []Issue{IssueAPIPA},
		},
		{
			name: "static link-local address is a manual mistake",
			cfg:  HostConfig{IP: "169.254.1.1", Mask: "255.255.0.0", DNS: []string{"1.1.1.1"}},
			want: []Issue{IssueStaticLinkLocal, IssueGatewayMissing},
		},
		{
			name: "multicast host address",
			cfg:  HostConfig{IP: "224.0.0.5", Mask: "255.255.255.0", Gateway: "224.0.0.1", DNS: []string{"1.1.1.1"}},
			want: []Issue{IssueReservedIP},
		},
		{
			name: "loopback host address",
			cfg:  HostConfig{IP: "127.0.0.5", Mask: "255.0.0.0", Gateway: "127.0.0.1", DNS: []string{"1.1.1.1"}},
			want: []Issue{IssueReservedIP},
		},
		{
			name: "gateway invalid",
			cfg:  HostConfig{IP: "10.0.0.5", Mask: "24", Gateway: "10.0.0", DNS: []string{"10.0.0.1"}},
			want: []Issue{IssueGatewayInvalid},
		},
		{
			name: "network address with off-subnet gateway",
			cfg:  HostConfig{IP: "10.0.0.0", Mask: "255.255.255.0", Gateway: "10.0.1.1", DNS: []string{"10.0.0.53"}},
			want: []Issue{IssueNetworkAddress, IssueGatewayOffSubnet},
		},
		{
			name: "slash31 endpoints are usable",
			cfg:  HostConfig{IP: "10.0.0.0", Mask: "/31", Gateway: "10.0.0.1", DNS: []string{"10.9.9.9"}},
			want: nil,
		},
		{
			name: "invalid dns entries",
			cfg:  HostConfig{IP: "10.0.0.5", Mask: "/24", Gateway: "10.0.0.1", DNS: []string{"10.0.0.1", "dns.local", "224.0.0.1"}},
			want: []Issue{IssueDNSInvalid, IssueDNSInvalid},
		},
		{
			name: "loopback resolver allowed",
			cfg:  HostConfig{IP: "10.0.0.5", Mask: "/24", Gateway: "10.0.0.1", DNS: []string{"127.0.0.53"}},
			want: nil,
		},
		{
			name: "blank dns entries ignored",
			cfg:  HostConfig{IP: "10.0.0.5", Mask: "/24", Gateway: "10.0.0.1", DNS: []string{" ", ""}},
			want: []Issue{IssueDNSMissing},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, issuesOf(Diagnose(tt.cfg))); diff != "" {
				t.Fatalf("findings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrimaryPrefersErrors(t *testing.T) {
	fs := []Finding{
		{Issue: IssueDNSMissing, Severity: SeverityWarning},
		{Issue: IssueGatewayMissing, Severity: SeverityError},
	}
	if got := Primary(fs); got != IssueGatewayMissing {
		t.Fatalf("Primary = %s", got)
	}
}

func TestCatalogScenariosDiagnoseToExpectedIssue(t *testing.T) {
	seen := map[string]bool{}
	for _, sc := range Scenarios() {
		if seen[sc.ID] {
			t.Fatalf("duplicate scenario id %s", sc.ID)
		}
		seen[sc.ID] = true
		if got := Primary(Diagnose(sc.Host)); got != sc.Expected {
			t.Fatalf("scenario %s: primary issue %s, want %s", sc.ID, got, sc.Expected)
		}
		if len(sc.Hints()) == 0 {
			t.Fatalf("scenario %s has no hints", sc.ID)
		}
	}
}

func TestScenariosOrdered(t *testing.T) {
	s := Scenarios()
	for i := 1; i < len(s); i++ {
		if s[i-1].Difficulty > s[i].Difficulty {
			t.Fatalf("scenarios not ordered by difficulty at %d", i)
		}
	}
	if _, err := Lookup("apipa"); err != nil {
		t.Fatalf("Lookup(apipa): %v", err)
	}
	if _, err := Lookup("nope"); err == nil {
		t.Fatalf("expected error for unknown scenario")
	}
}
