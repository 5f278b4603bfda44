// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui is the interactive terminal shell. It presents the account
// service as a set of tabs (welcome, sign up, login, notepad, credential
// manager) driven by a single bubbletea program.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/toeirei/vaultmaster/internal/account"
	"github.com/toeirei/vaultmaster/internal/i18n"
	"github.com/toeirei/vaultmaster/internal/model"
)

type tab int

const (
	tabWelcome tab = iota
	tabSignup
	tabLogin
	tabNotepad
	tabVault
	tabCount
)

func (t tab) title() string {
	switch t {
	case tabWelcome:
		return i18n.T("tui.tab.welcome")
	case tabSignup:
		return i18n.T("tui.tab.signup")
	case tabLogin:
		return i18n.T("tui.tab.login")
	case tabNotepad:
		return i18n.T("tui.tab.notepad")
	case tabVault:
		return i18n.T("tui.tab.vault")
	}
	return ""
}

// statusMsg carries a service verdict to the status line.
type statusMsg struct {
	resp model.Response
}

// loggedInMsg is emitted after a successful login so the root model can
// switch to the vault tab.
type loggedInMsg struct{}

// Model is the root bubbletea model.
type Model struct {
	svc    *account.Service
	active tab
	width  int
	height int
	status model.Response

	signup  formModel
	login   formModel
	notepad notepadModel
	vault   vaultModel
}

// New assembles the root model over an account service.
func New(svc *account.Service) Model {
	return Model{
		svc:     svc,
		signup:  newSignupForm(svc),
		login:   newLoginForm(svc),
		notepad: newNotepad(),
		vault:   newVault(svc),
	}
}

// Run starts the interactive program and blocks until the user quits.
func Run(svc *account.Service) error {
	_, err := tea.NewProgram(New(svc), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.notepad.setSize(msg.Width, msg.Height)
		return m, nil

	case statusMsg:
		m.status = msg.resp
		return m, nil

	case loggedInMsg:
		m.switchTo(tabVault)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.switchTo((m.active + 1) % tabCount)
			return m, nil
		case "shift+tab":
			m.switchTo((m.active + tabCount - 1) % tabCount)
			return m, nil
		case "q":
			// Text-entry views own their keys; everywhere else q quits.
			if m.active == tabWelcome || (m.active == tabVault && m.vault.mode == vaultList) {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	switch m.active {
	case tabSignup:
		m.signup, cmd = m.signup.Update(msg)
	case tabLogin:
		m.login, cmd = m.login.Update(msg)
	case tabNotepad:
		m.notepad, cmd = m.notepad.Update(msg)
	case tabVault:
		m.vault, cmd = m.vault.Update(msg)
	}
	return m, cmd
}

// switchTo activates a tab and clears stale status output.
func (m *Model) switchTo(t tab) {
	m.active = t
	m.status = model.Response{}
	if t == tabVault {
		m.vault.refresh()
	}
}

func (m Model) View() string {
	var b strings.Builder

	titles := make([]string, 0, tabCount)
	for t := tab(0); t < tabCount; t++ {
		style := tabStyle
		if t == m.active {
			style = activeTabStyle
		}
		titles = append(titles, style.Render(t.title()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, titles...))
	b.WriteString("\n")

	var body string
	switch m.active {
	case tabWelcome:
		body = titleStyle.Render("Vaultmaster") + "\n" + i18n.T("tui.welcome.body")
	case tabSignup:
		body = m.signup.View()
	case tabLogin:
		body = m.login.View()
	case tabNotepad:
		body = m.notepad.View()
	case tabVault:
		body = m.vault.View()
	}
	b.WriteString(bodyStyle.Render(body))
	b.WriteString("\n")

	if m.status.Message != "" {
		style := statusErrStyle
		if m.status.Validity {
			style = statusOKStyle
		}
		b.WriteString(style.Render(m.status.Message))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(i18n.T("tui.help.tabs")))
	return b.String()
}
