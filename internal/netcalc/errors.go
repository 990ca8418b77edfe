// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package netcalc

import "errors"

var (
	// ErrInvalidAddress is returned for input that is not a dotted-quad IPv4 address.
	ErrInvalidAddress = errors.New("invalid IPv4 address")
	// ErrInvalidPrefix is returned for malformed CIDR notation or prefix lengths.
	ErrInvalidPrefix = errors.New("invalid CIDR prefix")
	// ErrInvalidMask is returned for masks that are malformed or not contiguous.
	ErrInvalidMask = errors.New("invalid subnet mask")
	// ErrTooManyHosts is returned when a host count cannot fit in IPv4.
	ErrTooManyHosts = errors.New("host count exceeds IPv4 address space")
	// ErrTooManySubnets is returned when a split would produce more than MaxSubnets entries.
	ErrTooManySubnets = errors.New("too many subnets")
	// ErrInsufficientSpace is returned when a VLSM plan does not fit its base network.
	ErrInsufficientSpace = errors.New("insufficient address space")
	// ErrInvalidRequirement is returned for empty, duplicate or non-positive requirements.
	ErrInvalidRequirement = errors.New("invalid subnet requirement")
)
