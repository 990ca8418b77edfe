// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package report renders results as localized plain text shared by the CLI
// and the TUI.
package report // import "github.com/netplus-lab/netplus/internal/report"

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/troubleshoot"
)

// NewTable returns the tab writer used for every aligned table.
func NewTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WritePlan writes the allocation table of p, followed by the free space
// when any is left.
func WritePlan(w io.Writer, p netcalc.Plan) error {
	tw := NewTable(w)
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		i18n.T("vlsm.col.name"), i18n.T("vlsm.col.hosts"), i18n.T("vlsm.col.subnet"),
		i18n.T("vlsm.col.range"), i18n.T("vlsm.col.usable"), i18n.T("vlsm.col.wasted"))
	for _, a := range p.Allocations {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s - %s\t%d\t%d\n",
			a.Name, a.Hosts, a.Subnet.CIDR, a.Subnet.FirstHost, a.Subnet.LastHost, a.Subnet.UsableHosts, a.Wasted)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(p.Unallocated) == 0 {
		return nil
	}
	free := make([]string, 0, len(p.Unallocated))
	for _, u := range p.Unallocated {
		free = append(free, u.String())
	}
	_, err := fmt.Fprintln(w, "\n"+i18n.T("vlsm.unallocated", strings.Join(free, ", ")))
	return err
}

// HostRows lists the settings of h as label/value pairs. Empty settings
// show as "-".
func HostRows(h troubleshoot.HostConfig) [][2]string {
	dash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	mode := i18n.T("troubleshoot.static")
	if h.DHCP {
		mode = "DHCP"
	}
	rows := [][2]string{
		{i18n.T("troubleshoot.ip"), dash(h.IP)},
		{i18n.T("troubleshoot.mask"), dash(h.Mask)},
		{i18n.T("troubleshoot.gateway"), dash(h.Gateway)},
		{i18n.T("troubleshoot.dns"), dash(strings.Join(h.DNS, ", "))},
		{i18n.T("troubleshoot.mode"), mode},
	}
	if len(h.Peers) > 0 {
		rows = append(rows, [2]string{i18n.T("troubleshoot.peers"), strings.Join(h.Peers, ", ")})
	}
	return rows
}
