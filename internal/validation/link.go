// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package validation

import (
	"net"
	"strings"
)

// MAC validates a 48-bit MAC address in colon, hyphen or Cisco dotted form.
func MAC(s string) error {
	if s == "" {
		return fail("mac", "validation.empty", s)
	}
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return fail("mac", "validation.mac.format", s)
	}
	return nil
}

// NormalizeMAC returns s in lower-case colon-separated form.
func NormalizeMAC(s string) (string, error) {
	if err := MAC(s); err != nil {
		return "", err
	}
	hw, _ := net.ParseMAC(s)
	return hw.String(), nil
}

// maxHosts is the usable host count of a /1.
const maxHosts = 1<<31 - 2

// HostCount validates a required host count for subnet sizing.
func HostCount(s string) error {
	if s == "" {
		return fail("hosts", "validation.empty", s)
	}
	n, ok := parseUint(s, 10)
	if !ok || n < 1 || n > maxHosts {
		return fail("hosts", "validation.hosts.range", s)
	}
	return nil
}

// VLANID validates an 802.1Q VLAN ID. IDs 0 and 4095 are reserved.
func VLANID(s string) error {
	if s == "" {
		return fail("vlan", "validation.empty", s)
	}
	n, ok := parseUint(s, 4)
	if !ok || n < 1 || n > 4094 {
		return fail("vlan", "validation.vlan.range", s)
	}
	return nil
}

// Port validates a TCP/UDP port number.
func Port(s string) error {
	if s == "" {
		return fail("port", "validation.empty", s)
	}
	n, ok := parseUint(s, 5)
	if !ok || n < 1 || n > 65535 {
		return fail("port", "validation.port.range", s)
	}
	return nil
}

// Hostname validates an RFC 1123 host name.
func Hostname(s string) error {
	if s == "" {
		return fail("hostname", "validation.empty", s)
	}
	name := strings.TrimSuffix(s, ".")
	if len(name) > 253 {
		return fail("hostname", "validation.hostname.length", s)
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) == 0 || len(label) > 63 {
			return fail("hostname", "validation.hostname.label", s)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fail("hostname", "validation.hostname.label", s)
		}
		for _, c := range label {
			ok := c == '-' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
			if !ok {
				return fail("hostname", "validation.hostname.label", s)
			}
		}
	}
	return nil
}
