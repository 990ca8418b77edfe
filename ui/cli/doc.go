// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli implements the netplus command tree. Commands resolve their
// settings through internal/config in PersistentPreRunE and open the
// database only when they need it.
package cli // import "github.com/netplus-lab/netplus/ui/cli"
