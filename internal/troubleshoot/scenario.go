// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package troubleshoot

import (
	"fmt"
	"sort"
)

// Scenario is one practice case: a broken host configuration and the issue
// the learner has to identify.
type Scenario struct {
	ID         string     `json:"id" yaml:"id"`
	TitleID    string     `json:"title_id" yaml:"title_id"`
	Difficulty int        `json:"difficulty" yaml:"difficulty"`
	Host       HostConfig `json:"host" yaml:"host"`
	Expected   Issue      `json:"expected" yaml:"expected"`
}

// Hints returns the i18n keys of the hints for the scenario, in reveal order.
func (s Scenario) Hints() []string {
	return hintsFor(s.Expected)
}

var catalog = []Scenario{
	{
		ID: "apipa", TitleID: "scenario.apipa", Difficulty: 1,
		Host:     HostConfig{IP: "169.254.23.7", Mask: "255.255.0.0", DHCP: true},
		Expected: IssueAPIPA,
	},
	{
		ID: "gateway-off-subnet", TitleID: "scenario.gateway_off_subnet", Difficulty: 2,
		Host:     HostConfig{IP: "192.168.10.45", Mask: "255.255.255.192", Gateway: "192.168.10.129", DNS: []string{"192.168.10.1"}},
		Expected: IssueGatewayOffSubnet,
	},
	{
		ID: "missing-gateway", TitleID: "scenario.missing_gateway", Difficulty: 1,
		Host:     HostConfig{IP: "10.20.30.40", Mask: "255.255.255.0", DNS: []string{"10.20.30.1"}},
		Expected: IssueGatewayMissing,
	},
	{
		ID: "broadcast-host", TitleID: "scenario.broadcast_host", Difficulty: 2,
		Host:     HostConfig{IP: "172.16.5.63", Mask: "255.255.255.224", Gateway: "172.16.5.33", DNS: []string{"172.16.0.10"}},
		Expected: IssueBroadcastAddress,
	},
	{
		ID: "network-host", TitleID: "scenario.network_host", Difficulty: 2,
		Host:     HostConfig{IP: "192.168.1.64", Mask: "/26", Gateway: "192.168.1.65", DNS: []string{"1.1.1.1"}},
		Expected: IssueNetworkAddress,
	},
	{
		ID: "bad-mask", TitleID: "scenario.bad_mask", Difficulty: 1,
		Host:     HostConfig{IP: "192.168.50.10", Mask: "255.255.0.255", Gateway: "192.168.50.1", DNS: []string{"192.168.50.1"}},
		Expected: IssueInvalidMask,
	},
	{
		ID: "no-dns", TitleID: "scenario.no_dns", Difficulty: 1,
		Host:     HostConfig{IP: "10.0.0.25", Mask: "255.255.255.0", Gateway: "10.0.0.1"},
		Expected: IssueDNSMissing,
	},
	{
		ID: "duplicate-ip", TitleID: "scenario.duplicate_ip", Difficulty: 3,
		Host: HostConfig{
			IP: "192.168.100.20", Mask: "255.255.255.0", Gateway: "192.168.100.1", DNS: []string{"192.168.100.1"},
			Peers: []string{"192.168.100.11", "192.168.100.20", "192.168.100.30"},
		},
		Expected: IssueDuplicateIP,
	},
	{
		ID: "gateway-is-host", TitleID: "scenario.gateway_is_host", Difficulty: 2,
		Host:     HostConfig{IP: "10.1.1.1", Mask: "255.255.255.0", Gateway: "10.1.1.1", DNS: []string{"8.8.8.8"}},
		Expected: IssueGatewayIsHost,
	},
	{
		ID: "typo-ip", TitleID: "scenario.typo_ip", Difficulty: 1,
		Host:     HostConfig{IP: "192.168.1.300", Mask: "255.255.255.0", Gateway: "192.168.1.1", DNS: []string{"192.168.1.1"}},
		Expected: IssueInvalidIP,
	},
	{
		ID: "slash30-link", TitleID: "scenario.slash30_link", Difficulty: 3,
		Host:     HostConfig{IP: "203.0.113.6", Mask: "255.255.255.252", Gateway: "203.0.113.7", DNS: []string{"203.0.113.53"}},
		Expected: IssueGatewayReserved,
	},
}

// Scenarios returns the built-in scenarios ordered by difficulty, then ID.
func Scenarios() []Scenario {
	out := make([]Scenario, len(catalog))
	copy(out, catalog)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Difficulty != out[j].Difficulty {
			return out[i].Difficulty < out[j].Difficulty
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Lookup returns the scenario with the given ID.
func Lookup(id string) (Scenario, error) {
	for _, s := range catalog {
		if s.ID == id {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
}

func hintsFor(i Issue) []string {
	switch i {
	case IssueInvalidIP, IssueReservedIP:
		return []string{"hint.check_ip", "hint.ip_octets"}
	case IssueInvalidMask:
		return []string{"hint.check_mask", "hint.mask_contiguous"}
	case IssueAPIPA, IssueStaticLinkLocal:
		return []string{"hint.check_ip", "hint.apipa_range"}
	case IssueNetworkAddress, IssueBroadcastAddress:
		return []string{"hint.check_ip", "hint.subnet_boundaries"}
	case IssueGatewayMissing, IssueGatewayInvalid, IssueGatewayIsHost, IssueGatewayOffSubnet, IssueGatewayReserved:
		return []string{"hint.check_gateway", "hint.gateway_same_subnet"}
	case IssueDNSMissing, IssueDNSInvalid:
		return []string{"hint.check_dns", "hint.dns_resolution"}
	case IssueDuplicateIP:
		return []string{"hint.check_peers", "hint.arp_conflict"}
	}
	return nil
}
