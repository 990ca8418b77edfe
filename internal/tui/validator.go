// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/validation"
)

// validatorModel checks a value against the selected validator on every
// keystroke. Left and right switch the validator.
type validatorModel struct {
	kinds []string
	kind  int
	input textinput.Model
}

func newValidatorModel() *validatorModel {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 255
	in.Width = 50
	in.Cursor.Style = focusedStyle
	in.Focus()
	return &validatorModel{kinds: validation.Kinds(), input: in}
}

func (m *validatorModel) Update(msg tea.Msg) (view, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return m, backToMenu
		case "left", "shift+tab":
			m.kind = (m.kind + len(m.kinds) - 1) % len(m.kinds)
			return m, nil
		case "right", "tab":
			m.kind = (m.kind + 1) % len(m.kinds)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// verdict returns the rendered result line for the current input.
func (m *validatorModel) verdict() string {
	value := m.input.Value()
	if value == "" {
		return helpStyle.Render(i18n.T("validator.empty_hint"))
	}
	err := validation.ByKind(m.kinds[m.kind], value)
	if err == nil {
		return successStyle.Render("✔ " + i18n.T("validator.valid"))
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return errorStyle.Render("✘ " + verr.Message())
	}
	return errorStyle.Render("✘ " + err.Error())
}

func (m *validatorModel) View(width, _ int) string {
	tabs := make([]string, len(m.kinds))
	for i, k := range m.kinds {
		if i == m.kind {
			tabs[i] = activeButtonStyle.MarginTop(0).Padding(0, 1).Render(k)
		} else {
			tabs[i] = helpStyle.Padding(0, 1).Render(k)
		}
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		m.input.View(),
		"",
		m.verdict(),
	)
	extra := ""
	if m.kinds[m.kind] == "ipv6" && validation.IPv6(m.input.Value()) == nil {
		if full, err := validation.ExpandIPv6(m.input.Value()); err == nil {
			extra = helpStyle.Render(strings.Join([]string{
				i18n.T("validator.expanded", full),
				i18n.T("validator.compressed", mustCompress(full)),
			}, "\n"))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		mainTitleStyle.Render(i18n.T("menu.validator")),
		paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body, extra)),
		renderFooter(i18n.T("validator.help"), width, ""),
	)
}

func mustCompress(s string) string {
	c, err := validation.CompressIPv6(s)
	if err != nil {
		return s
	}
	return c
}
