// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for NetPlus.
//
// Usage:
//
//	go run . [flags]
//	./netplus [flags]
//
// Without a subcommand the interactive TUI starts. See --help for options.
package main

import (
	"os"

	"github.com/netplus-lab/netplus/internal/logging"
	"github.com/netplus-lab/netplus/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("netplus: %v", err)
		os.Exit(1)
	}
}
