// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// backToMenuMsg asks the router to return to the main menu.
type backToMenuMsg struct{}

func backToMenu() tea.Msg { return backToMenuMsg{} }

// fieldSpec describes one text input of a form.
type fieldSpec struct {
	prompt      string
	placeholder string
	limit       int
}

// form is a column of text inputs followed by a submit button. focusIndex
// == len(inputs) means the button has focus.
type form struct {
	inputs     []textinput.Model
	focusIndex int
	submit     string
}

func newForm(submit string, fields ...fieldSpec) form {
	f := form{inputs: make([]textinput.Model, len(fields)), submit: submit}
	width := 0
	for _, fs := range fields {
		if l := lipgloss.Width(fs.prompt); l > width {
			width = l
		}
	}
	for i, fs := range fields {
		t := textinput.New()
		t.Cursor.Style = focusedStyle
		t.CharLimit = fs.limit
		if t.CharLimit == 0 {
			t.CharLimit = 64
		}
		t.Width = 40
		t.Prompt = fs.prompt + strings.Repeat(" ", width-lipgloss.Width(fs.prompt)+1)
		t.Placeholder = fs.placeholder
		f.inputs[i] = t
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
		f.inputs[0].TextStyle = focusedStyle
	}
	return f
}

func (f form) value(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

func (f form) onSubmit() bool { return f.focusIndex == len(f.inputs) }

// move shifts focus by delta, wrapping around the button.
func (f *form) move(delta int) tea.Cmd {
	n := len(f.inputs) + 1
	f.focusIndex = ((f.focusIndex+delta)%n + n) % n
	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		if i == f.focusIndex {
			cmds[i] = f.inputs[i].Focus()
			f.inputs[i].TextStyle = focusedStyle
			continue
		}
		f.inputs[i].Blur()
		f.inputs[i].TextStyle = lipgloss.NewStyle()
	}
	return tea.Batch(cmds...)
}

// update handles focus keys and forwards everything else to the inputs.
// submitted reports an enter on the button.
func (f *form) update(msg tea.Msg) (cmd tea.Cmd, submitted bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			return f.move(1), false
		case "shift+tab", "up":
			return f.move(-1), false
		case "enter":
			if f.onSubmit() {
				return nil, true
			}
			return f.move(1), false
		}
	}
	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		f.inputs[i], cmds[i] = f.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...), false
}

func (f form) view() string {
	lines := make([]string, 0, len(f.inputs)+1)
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	btn := buttonStyle.Render(f.submit)
	if f.onSubmit() {
		btn = activeButtonStyle.Render(f.submit)
	}
	lines = append(lines, btn)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
