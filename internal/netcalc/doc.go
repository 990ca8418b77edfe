// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package netcalc implements IPv4 subnet arithmetic for NetPlus: address and
// prefix parsing, subnet boundary calculation, equal splits, summarization
// and Variable Length Subnet Masking (VLSM) allocation.
//
// Addresses are held as 32-bit integers. Every function is pure and safe for
// concurrent use.
package netcalc // import "github.com/netplus-lab/netplus/internal/netcalc"
