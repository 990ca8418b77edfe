// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package netcalc

import (
	"fmt"
	"math/bits"
	"strings"
)

// Prefix is an IPv4 address together with a prefix length. The address may
// carry host bits; use Masked to obtain the network prefix.
type Prefix struct {
	Addr Addr
	Bits int
}

// PrefixMask returns the subnet mask for a prefix length. Lengths outside
// 0..32 are clamped.
func PrefixMask(n int) Addr {
	switch {
	case n <= 0:
		return 0
	case n >= 32:
		return Addr(^uint32(0))
	}
	return Addr(^uint32(0) << (32 - n))
}

// MaskBits returns the prefix length of a dotted subnet mask. Masks whose
// one-bits are not contiguous from the left are rejected.
func MaskBits(mask Addr) (int, error) {
	inv := ^uint32(mask)
	if inv&(inv+1) != 0 {
		return 0, fmt.Errorf("%w: %s is not contiguous", ErrInvalidMask, mask)
	}
	return 32 - bits.Len32(inv), nil
}

// ParsePrefix parses CIDR notation such as 192.168.1.0/24.
func ParsePrefix(s string) (Prefix, error) {
	addr, length, ok := strings.Cut(s, "/")
	if !ok {
		return Prefix{}, fmt.Errorf("%w: %q: missing prefix length", ErrInvalidPrefix, s)
	}
	a, err := ParseAddr(addr)
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %w", ErrInvalidPrefix, err)
	}
	n, err := parseBits(length)
	if err != nil {
		return Prefix{}, fmt.Errorf("%w: %q: %v", ErrInvalidPrefix, s, err)
	}
	return Prefix{Addr: a, Bits: n}, nil
}

// MustParsePrefix is like ParsePrefix but panics on error.
func MustParsePrefix(s string) Prefix {
	p, err := ParsePrefix(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseMask accepts a subnet mask written as a prefix length ("24" or "/24")
// or in dotted form ("255.255.255.0") and returns the prefix length.
func ParseMask(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "/")
	if strings.Contains(s, ".") {
		m, err := ParseAddr(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidMask, err)
		}
		return MaskBits(m)
	}
	n, err := parseBits(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidMask, s, err)
	}
	return n, nil
}

func parseBits(s string) (int, error) {
	if s == "" || len(s) > 2 {
		return 0, fmt.Errorf("prefix length %q must be 0-32", s)
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("prefix length %q is not a number", s)
		}
		n = n*10 + int(c-'0')
	}
	if n > 32 {
		return 0, fmt.Errorf("prefix length %d out of range", n)
	}
	return n, nil
}

// Mask returns the subnet mask of p.
func (p Prefix) Mask() Addr { return PrefixMask(p.Bits) }

// Masked returns p with its host bits cleared.
func (p Prefix) Masked() Prefix {
	return Prefix{Addr: p.Addr & p.Mask(), Bits: p.Bits}
}

// Size is the number of addresses covered by p.
func (p Prefix) Size() uint64 { return uint64(1) << (32 - p.Bits) }

// Network is the first address of p.
func (p Prefix) Network() Addr { return p.Addr & p.Mask() }

// Broadcast is the last address of p.
func (p Prefix) Broadcast() Addr { return p.Network() | ^p.Mask() }

// Contains reports whether a lies inside p.
func (p Prefix) Contains(a Addr) bool { return a&p.Mask() == p.Network() }

// Overlaps reports whether p and q share at least one address.
func (p Prefix) Overlaps(q Prefix) bool {
	return p.Contains(q.Network()) || q.Contains(p.Network())
}

// String renders p in CIDR notation using the address as stored.
func (p Prefix) String() string { return fmt.Sprintf("%s/%d", p.Addr, p.Bits) }

// MarshalText implements encoding.TextMarshaler.
func (p Prefix) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Prefix) UnmarshalText(b []byte) error {
	v, err := ParsePrefix(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Contains reports whether a lies inside p.
func Contains(p Prefix, a Addr) bool { return p.Contains(a) }

// Overlaps reports whether p and q share at least one address.
func Overlaps(p, q Prefix) bool { return p.Overlaps(q) }
