// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/netcalc"
)

// subnetModel calculates a subnet from an address and a mask or prefix.
type subnetModel struct {
	form   form
	result *netcalc.Subnet
	addr   netcalc.Addr
	status string
	err    error
}

func newSubnetModel() *subnetModel {
	return &subnetModel{form: newForm(i18n.T("subnet.calculate"),
		fieldSpec{prompt: i18n.T("subnet.address"), placeholder: "192.168.1.77/26"},
		fieldSpec{prompt: i18n.T("subnet.mask"), placeholder: "255.255.255.192 | /26"},
	)}
}

// parsePrefixInput accepts "a.b.c.d/n" in the address field, or an address
// plus a mask or prefix length in the mask field.
func parsePrefixInput(addr, mask string) (netcalc.Prefix, error) {
	if strings.Contains(addr, "/") && mask == "" {
		return netcalc.ParsePrefix(addr)
	}
	a, err := netcalc.ParseAddr(addr)
	if err != nil {
		return netcalc.Prefix{}, err
	}
	if mask == "" {
		return netcalc.Prefix{Addr: a, Bits: netcalc.DefaultBits(a)}, nil
	}
	bits, err := netcalc.ParseMask(mask)
	if err != nil {
		return netcalc.Prefix{}, err
	}
	return netcalc.Prefix{Addr: a, Bits: bits}, nil
}

func (m *subnetModel) Update(msg tea.Msg) (view, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return m, backToMenu
		case "ctrl+y":
			if m.result != nil {
				m.status = copyStatus(formatSubnet(*m.result))
			}
			return m, nil
		}
	}
	cmd, submitted := m.form.update(msg)
	if submitted {
		p, err := parsePrefixInput(m.form.value(0), m.form.value(1))
		m.err, m.status = err, ""
		if err != nil {
			m.result = nil
			return m, nil
		}
		s := netcalc.Calculate(p)
		m.result, m.addr = &s, p.Addr
	}
	return m, cmd
}

func copyStatus(text string) string {
	if err := copyToClipboard(text); err != nil {
		return i18n.T("tui.copy_failed", err)
	}
	return i18n.T("tui.copied")
}

// formatSubnet renders the subnet facts as aligned plain text.
func formatSubnet(s netcalc.Subnet) string {
	return renderPairs([][2]string{
		{i18n.T("subnet.network"), s.CIDR},
		{i18n.T("subnet.netmask"), s.Mask.String()},
		{i18n.T("subnet.wildcard"), s.Wildcard.String()},
		{i18n.T("subnet.broadcast"), s.Broadcast.String()},
		{i18n.T("subnet.host_range"), fmt.Sprintf("%s - %s", s.FirstHost, s.LastHost)},
		{i18n.T("subnet.total"), fmt.Sprint(s.TotalAddresses)},
		{i18n.T("subnet.usable"), fmt.Sprint(s.UsableHosts)},
		{i18n.T("subnet.class"), fmt.Sprintf("%s (%s)", s.Class, s.Scope)},
	})
}

func (m *subnetModel) View(width, _ int) string {
	parts := []string{mainTitleStyle.Render(i18n.T("menu.subnet_calculator")), m.form.view()}
	if m.err != nil {
		parts = append(parts, "", errorStyle.Render(m.err.Error()))
	}
	if m.result != nil {
		bin := renderPairs([][2]string{
			{i18n.T("subnet.address_bin"), m.addr.Binary()},
			{i18n.T("subnet.mask_bin"), m.result.Mask.Binary()},
		})
		parts = append(parts, "", paneStyle.Render(formatSubnet(*m.result)+"\n\n"+helpStyle.Render(bin)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, parts...),
		renderFooter(i18n.T("subnet.help"), width, statusLine(m.status)),
	)
}

func statusLine(s string) string {
	if s == "" {
		return ""
	}
	return statusMessageStyle.Render(s)
}
