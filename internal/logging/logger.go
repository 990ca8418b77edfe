// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package logging wraps charmbracelet/log with printf-style helpers.
package logging // import "github.com/netplus-lab/netplus/internal/logging"

import (
	"fmt"
	"io"
	"os"
	"strings"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. It writes to stderr so that command
// output on stdout stays machine readable.
var L = clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "netplus"})

// SetLevel parses level ("debug", "info", "warn", "error") and applies it.
// Unknown levels leave the logger at info and return an error.
func SetLevel(level string) error {
	lvl, err := clog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		L.SetLevel(clog.InfoLevel)
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	L.SetLevel(lvl)
	return nil
}

// SetOutput redirects the package logger, keeping its level.
func SetOutput(w io.Writer) {
	lvl := L.GetLevel()
	L = clog.NewWithOptions(w, clog.Options{Prefix: "netplus", Level: lvl})
}

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...any) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...any) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...any) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...any) {
	L.Error(fmt.Sprintf(format, v...))
}
