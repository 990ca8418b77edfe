// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/report"
	"github.com/netplus-lab/netplus/internal/scoring"
	"github.com/netplus-lab/netplus/internal/troubleshoot"
)

type attemptRecordedMsg struct{ err error }

// troubleshootModel lets the learner pick a scenario, then name the issue.
type troubleshootModel struct {
	tracker   Tracker
	now       func() time.Time
	scenarios []troubleshoot.Scenario
	issues    []troubleshoot.Issue
	cursor    int
	session   *troubleshoot.Session
	hints     []string
	feedback  string
	result    *scoring.Result
	err       error
}

func newTroubleshootModel(t Tracker) *troubleshootModel {
	return &troubleshootModel{
		tracker:   t,
		now:       time.Now,
		scenarios: troubleshoot.Scenarios(),
		issues:    troubleshoot.Issues(),
	}
}

func (m *troubleshootModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case attemptRecordedMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		if m.session == nil {
			return m.updatePicker(msg)
		}
		return m.updateSession(msg)
	}
	return m, nil
}

func (m *troubleshootModel) updatePicker(k tea.KeyMsg) (view, tea.Cmd) {
	switch k.String() {
	case "esc", "q":
		return m, backToMenu
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenarios)-1 {
			m.cursor++
		}
	case "enter":
		m.session = troubleshoot.NewSession(m.scenarios[m.cursor], m.now)
		m.cursor, m.hints, m.feedback, m.result, m.err = 0, nil, "", nil, nil
	}
	return m, nil
}

func (m *troubleshootModel) updateSession(k tea.KeyMsg) (view, tea.Cmd) {
	switch k.String() {
	case "esc", "q":
		if m.session.Closed() {
			m.session, m.cursor = nil, 0
			return m, nil
		}
		// Leaving an open session counts as giving up.
		return m, m.finish()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.issues)-1 {
			m.cursor++
		}
	case "h":
		if id, ok := m.session.Hint(); ok {
			m.hints = append(m.hints, i18n.T(id))
		} else {
			m.feedback = i18n.T("troubleshoot.no_more_hints")
		}
	case "enter":
		if m.session.Closed() {
			return m, nil
		}
		ok, err := m.session.Answer(m.issues[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		if !ok {
			m.feedback = i18n.T("troubleshoot.wrong")
			return m, nil
		}
		m.feedback = i18n.T("troubleshoot.correct")
		return m, m.finish()
	}
	return m, nil
}

// finish scores the session and records the attempt.
func (m *troubleshootModel) finish() tea.Cmd {
	res := m.session.Finish()
	m.result = &res
	if m.tracker == nil {
		return nil
	}
	a := m.session.Attempt()
	rec := model.Attempt{
		Module:       model.ModuleTroubleshooting,
		ScenarioID:   m.session.Scenario.ID,
		Score:        res.Score,
		Hints:        a.Hints,
		WrongAnswers: a.WrongAnswers,
		DurationMs:   a.Elapsed.Milliseconds(),
	}
	t := m.tracker
	return func() tea.Msg {
		_, err := t.Record(context.Background(), rec)
		return attemptRecordedMsg{err: err}
	}
}

func (m *troubleshootModel) View(width, _ int) string {
	title := mainTitleStyle.Render(i18n.T("menu.troubleshooting"))
	if m.session == nil {
		items := []string{paneTitleStyle.Render(i18n.T("troubleshoot.pick")), ""}
		for i, sc := range m.scenarios {
			line := fmt.Sprintf("%s  %s", strings.Repeat("★", sc.Difficulty)+strings.Repeat("☆", 3-sc.Difficulty), i18n.T(sc.TitleID))
			if i == m.cursor {
				items = append(items, selectedItemStyle.Render("▸ "+line))
			} else {
				items = append(items, itemStyle.Render("  "+line))
			}
		}
		return lipgloss.JoinVertical(lipgloss.Left, title,
			paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
			renderFooter(i18n.T("troubleshoot.pick_help"), width, ""))
	}

	sc := m.session.Scenario
	left := []string{paneTitleStyle.Render(i18n.T(sc.TitleID)), "", renderPairs(report.HostRows(sc.Host))}
	if len(m.hints) > 0 {
		left = append(left, "", paneTitleStyle.Render(i18n.T("troubleshoot.hints")))
		for _, h := range m.hints {
			left = append(left, specialStyle.Render("• "+h))
		}
	}

	right := []string{paneTitleStyle.Render(i18n.T("troubleshoot.question")), ""}
	for i, is := range m.issues {
		line := i18n.T(is.MessageID())
		if i == m.cursor && !m.session.Closed() {
			right = append(right, selectedItemStyle.Render("▸ "+line))
		} else {
			right = append(right, itemStyle.Render("  "+line))
		}
	}

	var bottom []string
	if m.feedback != "" {
		bottom = append(bottom, m.feedback)
	}
	if m.result != nil {
		bottom = append(bottom, successStyle.Render(i18n.T("troubleshoot.result", m.result.Score, m.result.Grade, m.result.TimeBonus, m.result.Penalty)))
		if !m.session.Solved() {
			bottom = append(bottom, i18n.T("troubleshoot.answer_was", i18n.T(sc.Expected.MessageID())))
		}
	}
	block := renderResultBlock(strings.Join(bottom, "\n"), nil, m.err)

	return lipgloss.JoinVertical(lipgloss.Left, title,
		lipgloss.JoinHorizontal(lipgloss.Top,
			paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, left...)),
			paneStyle.MarginLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, right...)),
		),
		block,
		renderFooter(i18n.T("troubleshoot.help"), width, ""))
}
