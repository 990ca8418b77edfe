// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/report"
	"github.com/netplus-lab/netplus/internal/scoring"
)

type designSavedMsg struct {
	design model.Design
	err    error
}

// vlsmModel plans a VLSM allocation and optionally saves it.
type vlsmModel struct {
	tracker Tracker
	form    form
	plan    *netcalc.Plan
	score   scoring.DesignResult
	status  string
	err     error
}

func newVLSMModel(t Tracker) *vlsmModel {
	return &vlsmModel{tracker: t, form: newForm(i18n.T("vlsm.plan"),
		fieldSpec{prompt: i18n.T("vlsm.base"), placeholder: "192.168.10.0/24"},
		fieldSpec{prompt: i18n.T("vlsm.requirements"), placeholder: "Eng:100, Sales:50, WAN:2", limit: 512},
		fieldSpec{prompt: i18n.T("vlsm.name"), placeholder: "branch-office"},
	)}
}

func (m *vlsmModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case designSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = i18n.T("vlsm.saved", msg.design.Name)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, backToMenu
		case "ctrl+y":
			if m.plan != nil {
				m.status = copyStatus(formatPlan(*m.plan))
			}
			return m, nil
		case "ctrl+s":
			return m, m.save()
		}
	}
	cmd, submitted := m.form.update(msg)
	if submitted {
		m.compute()
	}
	return m, cmd
}

func (m *vlsmModel) compute() {
	m.plan, m.status, m.err = nil, "", nil
	base, err := netcalc.ParsePrefix(m.form.value(0))
	if err != nil {
		m.err = err
		return
	}
	reqs, err := netcalc.ParseRequirements(m.form.value(1))
	if err != nil {
		m.err = err
		return
	}
	plan, err := netcalc.AllocateVLSM(base, reqs)
	if err != nil {
		m.err = err
		return
	}
	m.plan, m.score = &plan, scoring.Design(plan)
}

// save stores the design and records a VLSM attempt scored by efficiency.
func (m *vlsmModel) save() tea.Cmd {
	if m.plan == nil {
		return nil
	}
	if m.tracker == nil {
		m.err = fmt.Errorf("%s", i18n.T("dashboard.no_storage"))
		return nil
	}
	t, plan, name, score := m.tracker, *m.plan, m.form.value(2), m.score.Score
	return func() tea.Msg {
		ctx := context.Background()
		d, err := t.SaveDesign(ctx, name, plan)
		if err != nil {
			return designSavedMsg{err: err}
		}
		_, err = t.Record(ctx, model.Attempt{Module: model.ModuleVLSM, ScenarioID: d.ID, Score: score})
		return designSavedMsg{design: d, err: err}
	}
}

// formatPlan renders the allocations as a tab-aligned table.
func formatPlan(p netcalc.Plan) string {
	var b strings.Builder
	_ = report.WritePlan(&b, p)
	return b.String()
}

func (m *vlsmModel) View(width, _ int) string {
	parts := []string{mainTitleStyle.Render(i18n.T("menu.vlsm_designer")), m.form.view()}
	if m.err != nil {
		parts = append(parts, "", errorStyle.Render(m.err.Error()))
	}
	if m.plan != nil {
		summary := i18n.T("vlsm.summary", pct(m.plan.Utilization), pct(m.score.Efficiency), m.score.Grade)
		parts = append(parts, "", paneStyle.Render(formatPlan(*m.plan)+"\n"+successStyle.Render(summary)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, parts...),
		renderFooter(i18n.T("vlsm.help"), width, statusLine(m.status)),
	)
}
