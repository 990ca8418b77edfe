// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/progress"
)

type progressLoadedMsg struct {
	summary progress.Summary
	err     error
}

type progressResetMsg struct {
	removed int64
	err     error
}

// progressModel shows per-module statistics. "r" asks to reset all
// progress and "y" confirms.
type progressModel struct {
	tracker    Tracker
	summary    progress.Summary
	loaded     bool
	confirming bool
	status     string
	err        error
}

func newProgressModel(t Tracker) *progressModel {
	return &progressModel{tracker: t}
}

func (m *progressModel) load() tea.Cmd {
	t := m.tracker
	if t == nil {
		return nil
	}
	return func() tea.Msg {
		s, err := t.Summary(context.Background())
		return progressLoadedMsg{summary: s, err: err}
	}
}

func (m *progressModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case progressLoadedMsg:
		m.summary, m.err, m.loaded = msg.summary, msg.err, true
	case progressResetMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = i18n.T("progress.reset_done", msg.removed)
		return m, m.load()
	case tea.KeyMsg:
		if m.confirming {
			m.confirming = false
			if msg.String() != "y" || m.tracker == nil {
				return m, nil
			}
			t := m.tracker
			return m, func() tea.Msg {
				n, err := t.Reset(context.Background(), "")
				return progressResetMsg{removed: n, err: err}
			}
		}
		switch msg.String() {
		case "esc", "q":
			return m, backToMenu
		case "r":
			m.confirming = m.tracker != nil
		}
	}
	return m, nil
}

func formatSummary(s progress.Summary) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		i18n.T("progress.col.module"), i18n.T("progress.col.attempts"), i18n.T("progress.col.best"),
		i18n.T("progress.col.average"), i18n.T("progress.col.completed"))
	for _, st := range s.Modules {
		done := i18n.T("progress.no")
		if st.Completed {
			done = i18n.T("progress.yes")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%s\n", i18n.T("module."+string(st.Module)), st.Attempts, st.Best, st.Average, done)
	}
	_ = tw.Flush()
	return b.String()
}

func (m *progressModel) View(width, _ int) string {
	var body string
	switch {
	case m.tracker == nil:
		body = helpStyle.Render(i18n.T("dashboard.no_storage"))
	case !m.loaded:
		body = helpStyle.Render(i18n.T("tui.loading"))
	default:
		body = formatSummary(m.summary) + "\n" + i18n.T("dashboard.overall", m.summary.Percent, m.summary.TotalAttempts)
	}
	parts := []string{mainTitleStyle.Render(i18n.T("menu.progress")), paneStyle.Render(body)}
	if m.confirming {
		parts = append(parts, specialStyle.Render(i18n.T("progress.confirm_reset")))
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render(i18n.T("tui.error", m.err)))
	}
	parts = append(parts, renderFooter(i18n.T("progress.help"), width, statusLine(m.status)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
