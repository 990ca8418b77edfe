// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package validation checks user-supplied network values: IPv4 and IPv6
// addresses, CIDR prefixes, subnet masks, MAC addresses, host counts, VLAN
// IDs, ports and hostnames.
//
// Validators return nil or an *Error carrying a stable message code. The
// human-readable text is resolved through internal/i18n.
package validation // import "github.com/netplus-lab/netplus/internal/validation"

import (
	"fmt"
	"sort"
	"strings"

	"github.com/netplus-lab/netplus/internal/i18n"
)

// Error describes why a value was rejected.
type Error struct {
	Field string // validator kind, e.g. "ipv4"
	Code  string // i18n message ID, e.g. "validation.ipv4.octet_range"
	Value string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message())
}

// Message returns the localized description without the field prefix.
func (e *Error) Message() string {
	return i18n.T(e.Code, e.Value)
}

func fail(field, code, value string) *Error {
	return &Error{Field: field, Code: code, Value: value}
}

// Func validates a single value.
type Func func(string) error

var validators = map[string]Func{
	"ipv4":     IPv4,
	"ipv6":     IPv6,
	"cidr":     CIDR,
	"mac":      MAC,
	"mask":     SubnetMask,
	"prefix":   PrefixLength,
	"hosts":    HostCount,
	"vlan":     VLANID,
	"port":     Port,
	"hostname": Hostname,
}

// Kinds lists the validator names accepted by ByKind, sorted.
func Kinds() []string {
	out := make([]string, 0, len(validators))
	for k := range validators {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ByKind runs the named validator against value.
func ByKind(kind, value string) error {
	fn, ok := validators[strings.ToLower(kind)]
	if !ok {
		return fail("kind", "validation.kind.unknown", kind)
	}
	return fn(value)
}

// parseUint parses a plain decimal number of at most maxDigits digits.
func parseUint(s string, maxDigits int) (uint64, bool) {
	if s == "" || len(s) > maxDigits {
		return 0, false
	}
	var n uint64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
	}
	return n, true
}
