// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/netplus-lab/netplus/internal/i18n"
)

// renderResultBlock builds a vertical block of an already localized
// primary line, optional warnings and an error.
func renderResultBlock(primary string, warnings []string, err error) string {
	var parts []string
	if primary != "" {
		parts = append(parts, primary)
	}
	if len(warnings) > 0 {
		parts = append(parts, "", specialStyle.Render(i18n.T("tui.warnings")))
		for _, w := range warnings {
			parts = append(parts, "  "+w)
		}
	}
	if err != nil {
		parts = append(parts, "", errorStyle.Render(i18n.T("tui.error", err)))
	}
	return strings.Join(parts, "\n")
}

// formatLabelPadding pads label to labelWidth and appends value.
func formatLabelPadding(label, value string, labelWidth int) string {
	if len(label) >= labelWidth {
		return label + " " + value
	}
	return label + strings.Repeat(" ", labelWidth-len(label)) + " " + value
}

// renderPairs aligns label/value rows on the longest label.
func renderPairs(rows [][2]string) string {
	w := 0
	for _, r := range rows {
		if len(r[0]) > w {
			w = len(r[0])
		}
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, formatLabelPadding(r[0], r[1], w))
	}
	return strings.Join(lines, "\n")
}

func pct(f float64) string { return fmt.Sprintf("%.1f%%", f) }
