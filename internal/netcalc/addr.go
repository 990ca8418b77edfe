// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package netcalc

import (
	"fmt"
	"strings"
)

// Addr is an IPv4 address in host byte order.
type Addr uint32

// ParseAddr parses a strict dotted-quad IPv4 address. Each octet must be a
// decimal number between 0 and 255 without leading zeros.
func ParseAddr(s string) (Addr, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("%w: %q: expected four octets", ErrInvalidAddress, s)
	}
	var a uint32
	for _, p := range parts {
		n, err := parseOctet(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, s, err)
		}
		a = a<<8 | uint32(n)
	}
	return Addr(a), nil
}

// MustParseAddr is like ParseAddr but panics on error. Intended for tests and
// package-level tables.
func MustParseAddr(s string) Addr {
	a, err := ParseAddr(s)
	if err != nil {
		panic(err)
	}
	return a
}

func parseOctet(p string) (int, error) {
	if p == "" {
		return 0, fmt.Errorf("empty octet")
	}
	if len(p) > 3 {
		return 0, fmt.Errorf("octet %q too long", p)
	}
	if len(p) > 1 && p[0] == '0' {
		return 0, fmt.Errorf("octet %q has a leading zero", p)
	}
	n := 0
	for _, c := range p {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("octet %q is not a number", p)
		}
		n = n*10 + int(c-'0')
	}
	if n > 255 {
		return 0, fmt.Errorf("octet %d out of range", n)
	}
	return n, nil
}

// Octets returns the four bytes of the address, most significant first.
func (a Addr) Octets() [4]byte {
	return [4]byte{byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a)}
}

// String renders the address in dotted-quad notation.
func (a Addr) String() string {
	o := a.Octets()
	return fmt.Sprintf("%d.%d.%d.%d", o[0], o[1], o[2], o[3])
}

// Binary renders the address as dotted binary octets, e.g.
// 11000000.10101000.00000001.00000001.
func (a Addr) Binary() string {
	o := a.Octets()
	return fmt.Sprintf("%08b.%08b.%08b.%08b", o[0], o[1], o[2], o[3])
}

// MarshalText implements encoding.TextMarshaler so addresses serialize as
// dotted quads in JSON and YAML.
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Addr) UnmarshalText(b []byte) error {
	v, err := ParseAddr(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
