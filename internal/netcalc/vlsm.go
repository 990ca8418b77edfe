// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package netcalc

import (
	"fmt"
	"sort"
	"strings"
)

// Requirement is one named segment and the number of hosts it must hold.
type Requirement struct {
	Name  string `json:"name" yaml:"name"`
	Hosts int    `json:"hosts" yaml:"hosts"`
}

// Allocation is the subnet assigned to a requirement.
type Allocation struct {
	Requirement `yaml:",inline"`
	Subnet      Subnet `json:"subnet" yaml:"subnet"`
	// Wasted is the number of usable addresses left unused in the subnet.
	Wasted uint64 `json:"wasted" yaml:"wasted"`
}

// Plan is the result of a VLSM allocation.
type Plan struct {
	Base        Prefix       `json:"base" yaml:"base"`
	Allocations []Allocation `json:"allocations" yaml:"allocations"`
	// Unallocated lists the free space after the last allocation as
	// maximal aligned blocks.
	Unallocated    []Prefix `json:"unallocated" yaml:"unallocated"`
	TotalAddresses uint64   `json:"total_addresses" yaml:"total_addresses"`
	// UsedAddresses spans the base start to the end of the last block,
	// alignment gaps included.
	UsedAddresses uint64 `json:"used_addresses" yaml:"used_addresses"`
	RequiredHosts uint64 `json:"required_hosts" yaml:"required_hosts"`
	// Utilization is the share of the base network that was allocated, in percent.
	Utilization float64 `json:"utilization" yaml:"utilization"`
}

// AllocateVLSM carves subnets for reqs out of base using the classic
// largest-requirement-first greedy strategy. Requirements are sorted by host
// count, descending; ties keep their input order. Each block is aligned to its
// own size and placed at the lowest free offset.
func AllocateVLSM(base Prefix, reqs []Requirement) (Plan, error) {
	if err := checkRequirements(reqs); err != nil {
		return Plan{}, err
	}
	base = base.Masked()

	order := make([]Requirement, len(reqs))
	copy(order, reqs)
	sort.SliceStable(order, func(i, j int) bool { return order[i].Hosts > order[j].Hosts })

	start := uint64(base.Network())
	end := start + base.Size()
	cursor := start

	plan := Plan{Base: base, TotalAddresses: base.Size()}
	for _, r := range order {
		n, err := HostsToBits(r.Hosts)
		if err != nil {
			return Plan{}, fmt.Errorf("requirement %q: %w", r.Name, err)
		}
		size := uint64(1) << (32 - n)
		at := (cursor + size - 1) &^ (size - 1)
		if n < base.Bits || at+size > end {
			return Plan{}, fmt.Errorf("%w: %q needs a /%d (%d hosts) but %s has %d addresses left",
				ErrInsufficientSpace, r.Name, n, r.Hosts, base, end-cursor)
		}
		sn := Calculate(Prefix{Addr: Addr(at), Bits: n})
		plan.Allocations = append(plan.Allocations, Allocation{
			Requirement: r,
			Subnet:      sn,
			Wasted:      sn.UsableHosts - uint64(r.Hosts),
		})
		plan.RequiredHosts += uint64(r.Hosts)
		cursor = at + size
	}
	plan.UsedAddresses = cursor - start
	plan.Unallocated = rangeToPrefixes(cursor, end)
	plan.Utilization = float64(plan.UsedAddresses) / float64(plan.TotalAddresses) * 100
	return plan, nil
}

func checkRequirements(reqs []Requirement) error {
	if len(reqs) == 0 {
		return fmt.Errorf("%w: no requirements given", ErrInvalidRequirement)
	}
	seen := make(map[string]bool, len(reqs))
	for i, r := range reqs {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return fmt.Errorf("%w: requirement %d has no name", ErrInvalidRequirement, i+1)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidRequirement, name)
		}
		seen[key] = true
		if r.Hosts < 1 {
			return fmt.Errorf("%w: %q needs at least one host", ErrInvalidRequirement, name)
		}
	}
	return nil
}

// ParseRequirements parses a compact "name:hosts,name:hosts" list as typed
// on the command line or in the TUI.
func ParseRequirements(s string) ([]Requirement, error) {
	var out []Requirement
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, hosts, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q: expected name:hosts", ErrInvalidRequirement, field)
		}
		var n uint64
		hosts = strings.TrimSpace(hosts)
		if hosts == "" {
			return nil, fmt.Errorf("%w: %q: missing host count", ErrInvalidRequirement, field)
		}
		for _, c := range hosts {
			if c < '0' || c > '9' {
				return nil, fmt.Errorf("%w: %q: host count is not a number", ErrInvalidRequirement, field)
			}
			n = n*10 + uint64(c-'0')
			if n > MaxHosts {
				return nil, fmt.Errorf("%w: %q", ErrTooManyHosts, field)
			}
		}
		out = append(out, Requirement{Name: strings.TrimSpace(name), Hosts: int(n)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no requirements given", ErrInvalidRequirement)
	}
	return out, nil
}
