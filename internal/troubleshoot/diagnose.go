// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package troubleshoot implements the IPv4 host troubleshooting simulator:
// a deterministic diagnosis of a host's addressing configuration, a catalog
// of practice scenarios and the session state machine that scores them.
package troubleshoot // import "github.com/netplus-lab/netplus/internal/troubleshoot"

import (
	"strings"

	"github.com/netplus-lab/netplus/internal/netcalc"
)

// Issue is a stable code for one class of misconfiguration.
type Issue string

const (
	IssueNone             Issue = "none"
	IssueInvalidIP        Issue = "invalid_ip"
	IssueInvalidMask      Issue = "invalid_mask"
	IssueAPIPA            Issue = "apipa"
	IssueReservedIP       Issue = "reserved_ip"
	IssueNetworkAddress   Issue = "network_address"
	IssueBroadcastAddress Issue = "broadcast_address"
	IssueGatewayMissing   Issue = "gateway_missing"
	IssueGatewayInvalid   Issue = "gateway_invalid"
	IssueGatewayIsHost    Issue = "gateway_is_host"
	IssueGatewayOffSubnet Issue = "gateway_off_subnet"
	IssueGatewayReserved  Issue = "gateway_reserved"
	IssueDNSMissing       Issue = "dns_missing"
	IssueDNSInvalid       Issue = "dns_invalid"
	IssueDuplicateIP      Issue = "duplicate_ip"
	IssueStaticLinkLocal  Issue = "static_link_local"
)

// Issues lists every diagnosable issue in check order.
func Issues() []Issue {
	return []Issue{
		IssueInvalidIP, IssueInvalidMask, IssueAPIPA, IssueReservedIP,
		IssueNetworkAddress, IssueBroadcastAddress,
		IssueGatewayMissing, IssueGatewayInvalid, IssueGatewayIsHost,
		IssueGatewayOffSubnet, IssueGatewayReserved,
		IssueDuplicateIP, IssueDNSMissing, IssueDNSInvalid,
		IssueStaticLinkLocal,
	}
}

// MessageID is the i18n key describing the issue.
func (i Issue) MessageID() string { return "issue." + string(i) }

// Severity ranks a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one detected problem.
type Finding struct {
	Issue    Issue    `json:"issue" yaml:"issue"`
	Severity Severity `json:"severity" yaml:"severity"`
	// Value is the offending setting, when there is one.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// HostConfig is the IPv4 configuration of one end host.
type HostConfig struct {
	IP      string   `json:"ip" yaml:"ip"`
	Mask    string   `json:"mask" yaml:"mask"`
	Gateway string   `json:"gateway" yaml:"gateway"`
	DNS     []string `json:"dns" yaml:"dns"`
	// DHCP marks the host as a DHCP client. It decides whether a
	// link-local address is a DHCP failure or a typed-in address.
	DHCP bool `json:"dhcp" yaml:"dhcp"`
	// Peers holds the addresses of other hosts on the same segment.
	Peers []string `json:"peers,omitempty" yaml:"peers,omitempty"`
}

// Diagnose checks cfg and returns every finding, most fundamental first. A
// correctly configured host yields no findings.
func Diagnose(cfg HostConfig) []Finding {
	var out []Finding
	add := func(i Issue, s Severity, v string) { out = append(out, Finding{Issue: i, Severity: s, Value: v}) }

	ip, ipErr := netcalc.ParseAddr(strings.TrimSpace(cfg.IP))
	bits, maskErr := netcalc.ParseMask(cfg.Mask)
	if ipErr != nil {
		add(IssueInvalidIP, SeverityError, cfg.IP)
	}
	if maskErr != nil {
		add(IssueInvalidMask, SeverityError, cfg.Mask)
	}
	if ipErr == nil && maskErr == nil {
		out = append(out, diagnoseAddressing(cfg, ip, bits)...)
		if len(out) > 0 && out[0].Issue == IssueAPIPA {
			return out
		}
	}
	out = append(out, diagnoseDNS(cfg)...)
	return out
}

func diagnoseAddressing(cfg HostConfig, ip netcalc.Addr, bits int) []Finding {
	var out []Finding
	add := func(i Issue, s Severity, v string) { out = append(out, Finding{Issue: i, Severity: s, Value: v}) }

	_, scope := netcalc.Classify(ip)
	if scope == netcalc.ScopeLinkLocal {
		if cfg.DHCP {
			// A self-assigned address means DHCP failed; every other
			// symptom follows from that.
			return []Finding{{Issue: IssueAPIPA, Severity: SeverityError, Value: cfg.IP}}
		}
		add(IssueStaticLinkLocal, SeverityError, cfg.IP)
	}
	if !netcalc.IsHostAssignable(ip) {
		add(IssueReservedIP, SeverityError, cfg.IP)
		return out
	}

	p := netcalc.Prefix{Addr: ip, Bits: bits}
	if bits <= 30 {
		if ip == p.Network() {
			add(IssueNetworkAddress, SeverityError, cfg.IP)
		}
		if ip == p.Broadcast() {
			add(IssueBroadcastAddress, SeverityError, cfg.IP)
		}
	}

	gwText := strings.TrimSpace(cfg.Gateway)
	switch gw, err := netcalc.ParseAddr(gwText); {
	case gwText == "":
		add(IssueGatewayMissing, SeverityError, "")
	case err != nil:
		add(IssueGatewayInvalid, SeverityError, cfg.Gateway)
	case gw == ip:
		add(IssueGatewayIsHost, SeverityError, cfg.Gateway)
	case !p.Contains(gw):
		add(IssueGatewayOffSubnet, SeverityError, cfg.Gateway)
	case bits <= 30 && (gw == p.Network() || gw == p.Broadcast()):
		add(IssueGatewayReserved, SeverityError, cfg.Gateway)
	}

	for _, peer := range cfg.Peers {
		if pa, err := netcalc.ParseAddr(strings.TrimSpace(peer)); err == nil && pa == ip {
			add(IssueDuplicateIP, SeverityError, cfg.IP)
			break
		}
	}
	return out
}

func diagnoseDNS(cfg HostConfig) []Finding {
	var out []Finding
	var servers []string
	for _, d := range cfg.DNS {
		if d = strings.TrimSpace(d); d != "" {
			servers = append(servers, d)
		}
	}
	if len(servers) == 0 {
		return []Finding{{Issue: IssueDNSMissing, Severity: SeverityWarning}}
	}
	for _, d := range servers {
		a, err := netcalc.ParseAddr(d)
		if err != nil || (!netcalc.IsHostAssignable(a) && a>>24 != 127) {
			out = append(out, Finding{Issue: IssueDNSInvalid, Severity: SeverityError, Value: d})
		}
	}
	return out
}

// Primary returns the issue a learner is expected to name: the first error,
// else the first warning, else IssueNone.
func Primary(findings []Finding) Issue {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return f.Issue
		}
	}
	if len(findings) > 0 {
		return findings[0].Issue
	}
	return IssueNone
}
