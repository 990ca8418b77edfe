// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package validation

import (
	"net/netip"
	"strings"

	"github.com/netplus-lab/netplus/internal/netcalc"
)

// IPv4 validates a dotted-quad IPv4 address.
func IPv4(s string) error {
	if s == "" {
		return fail("ipv4", "validation.empty", s)
	}
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return fail("ipv4", "validation.ipv4.format", s)
	}
	for _, p := range parts {
		if p == "" {
			return fail("ipv4", "validation.ipv4.format", s)
		}
		if len(p) > 1 && p[0] == '0' {
			return fail("ipv4", "validation.ipv4.leading_zero", s)
		}
		n, ok := parseUint(p, 3)
		if !ok {
			return fail("ipv4", "validation.ipv4.octet", s)
		}
		if n > 255 {
			return fail("ipv4", "validation.ipv4.octet_range", s)
		}
	}
	return nil
}

// IPv6 validates an IPv6 address in full, compressed or IPv4-embedded form.
// Zone identifiers are rejected.
func IPv6(s string) error {
	if s == "" {
		return fail("ipv6", "validation.empty", s)
	}
	if !strings.Contains(s, ":") {
		return fail("ipv6", "validation.ipv6.format", s)
	}
	a, err := netip.ParseAddr(s)
	if err != nil || !a.Is6() {
		return fail("ipv6", "validation.ipv6.format", s)
	}
	if a.Zone() != "" {
		return fail("ipv6", "validation.ipv6.zone", s)
	}
	return nil
}

// ExpandIPv6 returns the full eight-group form of s.
func ExpandIPv6(s string) (string, error) {
	if err := IPv6(s); err != nil {
		return "", err
	}
	return netip.MustParseAddr(s).StringExpanded(), nil
}

// CompressIPv6 returns the RFC 5952 canonical short form of s.
func CompressIPv6(s string) (string, error) {
	if err := IPv6(s); err != nil {
		return "", err
	}
	return netip.MustParseAddr(s).String(), nil
}

// CIDR validates IPv4 CIDR notation such as 10.0.0.0/8.
func CIDR(s string) error {
	if s == "" {
		return fail("cidr", "validation.empty", s)
	}
	addr, length, ok := strings.Cut(s, "/")
	if !ok {
		return fail("cidr", "validation.cidr.format", s)
	}
	if err := IPv4(addr); err != nil {
		return fail("cidr", "validation.cidr.address", s)
	}
	if n, ok := parseUint(length, 2); !ok || n > 32 {
		return fail("cidr", "validation.cidr.prefix_range", s)
	}
	return nil
}

// SubnetMask validates a dotted subnet mask; the one-bits must be contiguous.
func SubnetMask(s string) error {
	if s == "" {
		return fail("mask", "validation.empty", s)
	}
	if err := IPv4(s); err != nil {
		return fail("mask", "validation.mask.format", s)
	}
	if _, err := netcalc.MaskBits(netcalc.MustParseAddr(s)); err != nil {
		return fail("mask", "validation.mask.contiguous", s)
	}
	return nil
}

// PrefixLength validates a prefix length written as "24" or "/24".
func PrefixLength(s string) error {
	v := strings.TrimPrefix(s, "/")
	if v == "" {
		return fail("prefix", "validation.empty", s)
	}
	if n, ok := parseUint(v, 2); !ok || n > 32 {
		return fail("prefix", "validation.prefix.range", s)
	}
	return nil
}
