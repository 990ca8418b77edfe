// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui is the interactive terminal front end. The top-level model
// routes key and window messages to the active view.
package tui // import "github.com/netplus-lab/netplus/internal/tui"

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netplus-lab/netplus/internal/i18n"
	"github.com/netplus-lab/netplus/internal/model"
	"github.com/netplus-lab/netplus/internal/netcalc"
	"github.com/netplus-lab/netplus/internal/progress"
)

// Tracker is the progress surface the TUI uses.
type Tracker interface {
	Summary(ctx context.Context) (progress.Summary, error)
	Record(ctx context.Context, a model.Attempt) (model.Attempt, error)
	SaveDesign(ctx context.Context, name string, plan netcalc.Plan) (model.Design, error)
	Reset(ctx context.Context, module model.Module) (int64, error)
}

// Options wires the TUI to its collaborators.
type Options struct {
	Tracker Tracker
	// SaveLanguage persists a language choice. Optional.
	SaveLanguage func(lang string) error
}

// copyToClipboard is swapped in tests.
var copyToClipboard = clipboard.WriteAll

type viewState int

const (
	menuView viewState = iota
	subnetView
	vlsmView
	validatorView
	troubleshootView
	progressView
	languageView
)

// menuEntries maps menu rows to views in display order.
var menuEntries = []struct {
	key   string
	state viewState
}{
	{"menu.subnet_calculator", subnetView},
	{"menu.vlsm_designer", vlsmView},
	{"menu.validator", validatorView},
	{"menu.troubleshooting", troubleshootView},
	{"menu.progress", progressView},
	{"menu.language", languageView},
}

type dashboardMsg struct {
	summary progress.Summary
	err     error
}

type languageChangedMsg struct{}

// view is implemented by every sub-view.
type view interface {
	Update(msg tea.Msg) (view, tea.Cmd)
	View(width, height int) string
}

type mainModel struct {
	opts      Options
	state     viewState
	cursor    int
	active    view
	dashboard progress.Summary
	width     int
	height    int
	err       error
}

func newMainModel(opts Options) mainModel {
	return mainModel{opts: opts, state: menuView}
}

func (m mainModel) Init() tea.Cmd {
	return m.refreshDashboard()
}

func (m mainModel) refreshDashboard() tea.Cmd {
	t := m.opts.Tracker
	if t == nil {
		return nil
	}
	return func() tea.Msg {
		s, err := t.Summary(context.Background())
		return dashboardMsg{summary: s, err: err}
	}
}

func (m mainModel) open(state viewState) (mainModel, tea.Cmd) {
	m.state = state
	var cmd tea.Cmd
	switch state {
	case subnetView:
		m.active = newSubnetModel()
	case vlsmView:
		m.active = newVLSMModel(m.opts.Tracker)
	case validatorView:
		m.active = newValidatorModel()
	case troubleshootView:
		m.active = newTroubleshootModel(m.opts.Tracker)
	case progressView:
		pm := newProgressModel(m.opts.Tracker)
		m.active, cmd = pm, pm.load()
	case languageView:
		m.active = newLanguageModel(m.opts.SaveLanguage)
	}
	return m, cmd
}

func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case dashboardMsg:
		m.dashboard, m.err = msg.summary, msg.err
		return m, nil
	case languageChangedMsg:
		// Rebuild so every label is rendered in the new language.
		nm := newMainModel(m.opts)
		nm.width, nm.height = m.width, m.height
		return nm, nm.Init()
	case backToMenuMsg:
		m.state, m.active = menuView, nil
		return m, m.refreshDashboard()
	}

	if m.state != menuView && m.active != nil {
		var cmd tea.Cmd
		m.active, cmd = m.active.Update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(menuEntries)-1 {
				m.cursor++
			}
		case "enter":
			return m.open(menuEntries[m.cursor].state)
		case "L":
			return m.open(languageView)
		default:
			// Digits jump straight to a menu entry.
			if n, err := strconv.Atoi(k.String()); err == nil && n >= 1 && n <= len(menuEntries) {
				m.cursor = n - 1
				return m.open(menuEntries[n-1].state)
			}
		}
	}
	return m, nil
}

func (m mainModel) View() string {
	if m.state != menuView && m.active != nil {
		return m.active.View(m.width, m.height)
	}
	return m.menuView()
}

func (m mainModel) menuView() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		mainTitleStyle.Render(i18n.T("dashboard.title")),
		helpStyle.Render(i18n.T("dashboard.subtitle")),
	)

	items := []string{paneTitleStyle.Render(i18n.T("menu.navigation")), ""}
	for i, e := range menuEntries {
		line := fmt.Sprintf("%d %s", i+1, i18n.T(e.key))
		if i == m.cursor {
			items = append(items, selectedItemStyle.Render("▸ "+line))
		} else {
			items = append(items, itemStyle.Render("  "+line))
		}
	}
	menuPane := paneStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, items...))

	dash := []string{paneTitleStyle.Render(i18n.T("dashboard.progress")), ""}
	if m.err != nil {
		dash = append(dash, errorStyle.Render(i18n.T("tui.error", m.err)))
	} else if m.opts.Tracker == nil {
		dash = append(dash, helpStyle.Render(i18n.T("dashboard.no_storage")))
	} else {
		dash = append(dash, renderProgressRows(m.dashboard), "",
			i18n.T("dashboard.overall", m.dashboard.Percent, m.dashboard.TotalAttempts))
	}
	dashPane := paneStyle.MarginLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, dash...))

	body := lipgloss.JoinHorizontal(lipgloss.Top, menuPane, dashPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, renderFooter(i18n.T("dashboard.footer"), m.width, ""))
}

func renderProgressRows(s progress.Summary) string {
	rows := make([][2]string, 0, len(s.Modules))
	for _, st := range s.Modules {
		mark := helpStyle.Render("○")
		if st.Completed {
			mark = successStyle.Render("●")
		}
		rows = append(rows, [2]string{
			i18n.T("module."+string(st.Module)),
			fmt.Sprintf("%s %s", mark, i18n.T("dashboard.module_stats", st.Attempts, st.Best)),
		})
	}
	return renderPairs(rows)
}

// languageModel lists the embedded locales.
type languageModel struct {
	choices map[string]string
	keys    []string
	cursor  int
	save    func(string) error
	err     error
}

func newLanguageModel(save func(string) error) *languageModel {
	choices := i18n.GetAvailableLocales()
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := &languageModel{choices: choices, keys: keys, save: save}
	for i, k := range keys {
		if k == i18n.GetLang() {
			m.cursor = i
		}
	}
	return m
}

func (m *languageModel) Update(msg tea.Msg) (view, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "q", "esc":
		return m, backToMenu
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case "enter":
		lang := m.keys[m.cursor]
		i18n.SetLang(lang)
		if m.save != nil {
			if err := m.save(lang); err != nil {
				m.err = err
				return m, nil
			}
		}
		return m, func() tea.Msg { return languageChangedMsg{} }
	}
	return m, nil
}

func (m *languageModel) View(width, _ int) string {
	items := []string{titleStyle.Render(i18n.T("language.select")), ""}
	for i, code := range m.keys {
		if i == m.cursor {
			items = append(items, selectedItemStyle.Render("▸ "+m.choices[code]))
		} else {
			items = append(items, itemStyle.Render("  "+m.choices[code]))
		}
	}
	if m.err != nil {
		items = append(items, "", errorStyle.Render(i18n.T("tui.error", m.err)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		mainTitleStyle.Render(i18n.T("menu.language")),
		paneStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
		renderFooter(i18n.T("language.help"), width, ""),
	)
}

// Run starts the Bubble Tea program in the alternate screen.
func Run(opts Options) error {
	if _, err := tea.NewProgram(newMainModel(opts), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
