// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package netcalc

import (
	"fmt"
	"math/bits"
)

// MaxSubnets bounds the number of entries Split will return.
const MaxSubnets = 1 << 16

// MaxHosts is the usable host count of a /1, the largest block a
// requirement can be given.
const MaxHosts = 1<<31 - 2

// Subnet is the full calculation record for one IPv4 prefix.
type Subnet struct {
	CIDR           string `json:"cidr" yaml:"cidr"`
	Network        Addr   `json:"network" yaml:"network"`
	Broadcast      Addr   `json:"broadcast" yaml:"broadcast"`
	Mask           Addr   `json:"mask" yaml:"mask"`
	Wildcard       Addr   `json:"wildcard" yaml:"wildcard"`
	FirstHost      Addr   `json:"first_host" yaml:"first_host"`
	LastHost       Addr   `json:"last_host" yaml:"last_host"`
	Prefix         int    `json:"prefix" yaml:"prefix"`
	TotalAddresses uint64 `json:"total_addresses" yaml:"total_addresses"`
	UsableHosts    uint64 `json:"usable_hosts" yaml:"usable_hosts"`
	Class          Class  `json:"class" yaml:"class"`
	Scope          Scope  `json:"scope" yaml:"scope"`
}

// Calculate returns the subnet boundaries of p. Host bits in p are ignored.
//
// A /31 is a point-to-point link (RFC 3021): both addresses are usable. A /32
// describes a single host.
func Calculate(p Prefix) Subnet {
	p = p.Masked()
	net, bc := p.Network(), p.Broadcast()
	class, scope := Classify(net)
	s := Subnet{
		CIDR:           p.String(),
		Network:        net,
		Broadcast:      bc,
		Mask:           p.Mask(),
		Wildcard:       ^p.Mask(),
		Prefix:         p.Bits,
		TotalAddresses: p.Size(),
		Class:          class,
		Scope:          scope,
	}
	switch p.Bits {
	case 32:
		s.FirstHost, s.LastHost, s.UsableHosts = net, net, 1
	case 31:
		s.FirstHost, s.LastHost, s.UsableHosts = net, bc, 2
	default:
		s.FirstHost, s.LastHost, s.UsableHosts = net+1, bc-1, s.TotalAddresses-2
	}
	return s
}

// AsPrefix returns the network prefix the subnet describes.
func (s Subnet) AsPrefix() Prefix { return Prefix{Addr: s.Network, Bits: s.Prefix} }

// HostsToBits returns the longest prefix whose usable host count is at least
// hosts. Network and broadcast addresses are always reserved, so requests for
// one or two hosts yield a /30.
func HostsToBits(hosts int) (int, error) {
	if hosts < 1 {
		return 0, fmt.Errorf("%w: host count %d must be positive", ErrInvalidRequirement, hosts)
	}
	if uint64(hosts) > MaxHosts {
		return 0, fmt.Errorf("%w: %d hosts (max %d)", ErrTooManyHosts, hosts, MaxHosts)
	}
	hostBits := bits.Len64(uint64(hosts) + 1)
	if hostBits < 2 {
		hostBits = 2
	}
	return 32 - hostBits, nil
}

// Split divides p into every subnet of length newBits, in address order.
func Split(p Prefix, newBits int) ([]Subnet, error) {
	p = p.Masked()
	if newBits < p.Bits || newBits > 32 {
		return nil, fmt.Errorf("%w: cannot split /%d into /%d", ErrInvalidPrefix, p.Bits, newBits)
	}
	count := uint64(1) << (newBits - p.Bits)
	if count > MaxSubnets {
		return nil, fmt.Errorf("%w: splitting /%d into /%d yields %d subnets (max %d)",
			ErrTooManySubnets, p.Bits, newBits, count, MaxSubnets)
	}
	step := uint64(1) << (32 - newBits)
	out := make([]Subnet, 0, count)
	for i := uint64(0); i < count; i++ {
		out = append(out, Calculate(Prefix{Addr: Addr(uint64(p.Network()) + i*step), Bits: newBits}))
	}
	return out, nil
}

// SplitCount divides p into the fewest equal subnets that give at least n
// subnets.
func SplitCount(p Prefix, n int) ([]Subnet, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: subnet count %d must be positive", ErrInvalidRequirement, n)
	}
	extra := bits.Len64(uint64(n) - 1)
	if p.Bits+extra > 32 {
		return nil, fmt.Errorf("%w: /%d cannot hold %d subnets", ErrInsufficientSpace, p.Bits, n)
	}
	return Split(p, p.Bits+extra)
}

// Summarize returns the smallest single prefix covering every input prefix.
func Summarize(prefixes []Prefix) (Prefix, error) {
	if len(prefixes) == 0 {
		return Prefix{}, fmt.Errorf("%w: nothing to summarize", ErrInvalidPrefix)
	}
	lo, hi := prefixes[0].Network(), prefixes[0].Broadcast()
	minBits := prefixes[0].Bits
	for _, p := range prefixes[1:] {
		if n := p.Network(); n < lo {
			lo = n
		}
		if b := p.Broadcast(); b > hi {
			hi = b
		}
		if p.Bits < minBits {
			minBits = p.Bits
		}
	}
	common := bits.LeadingZeros32(uint32(lo ^ hi))
	if common > minBits {
		common = minBits
	}
	return Prefix{Addr: lo, Bits: common}.Masked(), nil
}

// rangeToPrefixes decomposes the half-open range [lo, hi) into the minimal
// list of aligned CIDR blocks.
func rangeToPrefixes(lo, hi uint64) []Prefix {
	var out []Prefix
	for lo < hi {
		size := uint64(1) << 32
		if lo != 0 {
			size = lo & -lo
		}
		for size > hi-lo {
			size >>= 1
		}
		out = append(out, Prefix{Addr: Addr(lo), Bits: 32 - bits.Len64(size-1)})
		lo += size
	}
	return out
}
