// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package netcalc

// Class is the historical classful network class of an address.
type Class string

const (
	ClassA Class = "A"
	ClassB Class = "B"
	ClassC Class = "C"
	ClassD Class = "D" // multicast
	ClassE Class = "E" // experimental
)

// Scope describes how an address may be used.
type Scope string

const (
	ScopePublic        Scope = "public"
	ScopePrivate       Scope = "private"
	ScopeShared        Scope = "shared"
	ScopeLoopback      Scope = "loopback"
	ScopeLinkLocal     Scope = "link-local"
	ScopeMulticast     Scope = "multicast"
	ScopeDocumentation Scope = "documentation"
	ScopeReserved      Scope = "reserved"
	ScopeUnspecified   Scope = "unspecified"
	ScopeBroadcast     Scope = "broadcast"
)

type scopeRange struct {
	prefix Prefix
	scope  Scope
}

// Order matters: the first matching range wins.
var scopeRanges = []scopeRange{
	{MustParsePrefix("0.0.0.0/32"), ScopeUnspecified},
	{MustParsePrefix("255.255.255.255/32"), ScopeBroadcast},
	{MustParsePrefix("0.0.0.0/8"), ScopeReserved},
	{MustParsePrefix("10.0.0.0/8"), ScopePrivate},
	{MustParsePrefix("100.64.0.0/10"), ScopeShared},
	{MustParsePrefix("127.0.0.0/8"), ScopeLoopback},
	{MustParsePrefix("169.254.0.0/16"), ScopeLinkLocal},
	{MustParsePrefix("172.16.0.0/12"), ScopePrivate},
	{MustParsePrefix("192.0.2.0/24"), ScopeDocumentation},
	{MustParsePrefix("192.168.0.0/16"), ScopePrivate},
	{MustParsePrefix("198.51.100.0/24"), ScopeDocumentation},
	{MustParsePrefix("203.0.113.0/24"), ScopeDocumentation},
	{MustParsePrefix("224.0.0.0/4"), ScopeMulticast},
	{MustParsePrefix("240.0.0.0/4"), ScopeReserved},
}

// ClassOf returns the classful network class of a by its leading bits.
func ClassOf(a Addr) Class {
	switch first := a >> 24; {
	case first < 128:
		return ClassA
	case first < 192:
		return ClassB
	case first < 224:
		return ClassC
	case first < 240:
		return ClassD
	default:
		return ClassE
	}
}

// DefaultBits returns the classful default prefix length (8, 16 or 24) of a,
// or 0 for class D and E.
func DefaultBits(a Addr) int {
	switch ClassOf(a) {
	case ClassA:
		return 8
	case ClassB:
		return 16
	case ClassC:
		return 24
	}
	return 0
}

// Classify returns the class and usage scope of a.
func Classify(a Addr) (Class, Scope) {
	for _, r := range scopeRanges {
		if r.prefix.Contains(a) {
			return ClassOf(a), r.scope
		}
	}
	return ClassOf(a), ScopePublic
}

// IsPrivate reports whether a is in RFC 1918 space.
func IsPrivate(a Addr) bool {
	_, s := Classify(a)
	return s == ScopePrivate
}

// IsHostAssignable reports whether a may be configured on an ordinary host
// interface. Loopback, multicast, reserved, unspecified and limited
// broadcast addresses are not.
func IsHostAssignable(a Addr) bool {
	switch _, s := Classify(a); s {
	case ScopeLoopback, ScopeMulticast, ScopeReserved, ScopeUnspecified, ScopeBroadcast:
		return false
	}
	return true
}
