// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/toeirei/vaultmaster/internal/account"
	"github.com/toeirei/vaultmaster/internal/i18n"
	"github.com/toeirei/vaultmaster/internal/model"
)

// formModel is a small vertical form: labelled text inputs, enter to advance,
// enter on the last field to submit. Sign up and login share it and differ
// only in the submit handler.
type formModel struct {
	title  string
	inputs []textinput.Model
	labels []string
	focus  int
	submit func(values []string) (model.Response, bool)
}

func newTextField(labelID string, secret bool) (textinput.Model, string) {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 128
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in, i18n.T(labelID)
}

func newSignupForm(svc *account.Service) formModel {
	user, userLabel := newTextField("tui.field.username", false)
	pass, passLabel := newTextField("tui.field.password", true)
	f := formModel{
		title:  i18n.T("tui.tab.signup"),
		inputs: []textinput.Model{user, pass},
		labels: []string{userLabel, passLabel},
		submit: func(values []string) (model.Response, bool) {
			return svc.SignUp(values[0], values[1]), false
		},
	}
	f.inputs[0].Focus()
	return f
}

func newLoginForm(svc *account.Service) formModel {
	user, userLabel := newTextField("tui.field.username", false)
	pass, passLabel := newTextField("tui.field.password", true)
	f := formModel{
		title:  i18n.T("tui.tab.login"),
		inputs: []textinput.Model{user, pass},
		labels: []string{userLabel, passLabel},
		submit: func(values []string) (model.Response, bool) {
			resp := svc.Login(values[0], values[1])
			return resp, resp.Validity
		},
	}
	f.inputs[0].Focus()
	return f
}

func (f formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if f.focus < len(f.inputs)-1 {
				return f.setFocus(f.focus + 1), nil
			}
			values := make([]string, len(f.inputs))
			for i, in := range f.inputs {
				values[i] = in.Value()
			}
			resp, loggedIn := f.submit(values)
			if resp.Validity {
				f = f.reset()
			}
			return f, func() tea.Msg {
				if loggedIn {
					return loggedInMsg{}
				}
				return statusMsg{resp: resp}
			}
		case "up":
			if f.focus > 0 {
				return f.setFocus(f.focus - 1), nil
			}
		case "down":
			if f.focus < len(f.inputs)-1 {
				return f.setFocus(f.focus + 1), nil
			}
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f formModel) setFocus(i int) formModel {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
	return f
}

func (f formModel) reset() formModel {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	return f.setFocus(0)
}

func (f formModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n")
	for i, in := range f.inputs {
		b.WriteString(labelStyle.Render(f.labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(i18n.T("tui.help.form")))
	return b.String()
}
