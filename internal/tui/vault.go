// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/toeirei/vaultmaster/internal/account"
	"github.com/toeirei/vaultmaster/internal/i18n"
	"github.com/toeirei/vaultmaster/internal/model"
)

type vaultMode int

const (
	vaultList vaultMode = iota
	vaultAdd
	vaultEdit
)

// vaultModel is the credential manager tab: a list of decrypted entries with
// clipboard yanking, plus an inline add/edit form.
type vaultModel struct {
	svc     *account.Service
	mode    vaultMode
	entries []model.VaultEntry
	cursor  int

	inputs []textinput.Model
	labels []string
	focus  int
}

func newVault(svc *account.Service) vaultModel {
	app, appLabel := newTextField("tui.field.app_name", false)
	user, userLabel := newTextField("tui.field.app_username", false)
	pass, passLabel := newTextField("tui.field.app_secret", true)
	return vaultModel{
		svc:    svc,
		inputs: []textinput.Model{app, user, pass},
		labels: []string{appLabel, userLabel, passLabel},
	}
}

// refresh reloads the entry list from the service. Called when the tab is
// activated and after every mutation.
func (v *vaultModel) refresh() {
	entries, resp := v.svc.VaultEntries()
	if !resp.Validity {
		v.entries = nil
		return
	}
	v.entries = entries
	if v.cursor >= len(v.entries) {
		v.cursor = max(0, len(v.entries)-1)
	}
}

func (v vaultModel) Update(msg tea.Msg) (vaultModel, tea.Cmd) {
	if v.svc.Session() == nil {
		return v, nil
	}
	if v.mode == vaultList {
		return v.updateList(msg)
	}
	return v.updateForm(msg)
}

func (v vaultModel) updateList(msg tea.Msg) (vaultModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.entries)-1 {
			v.cursor++
		}
	case "a":
		return v.openForm(vaultAdd, "", "", ""), nil
	case "e":
		if e, ok := v.selected(); ok {
			return v.openForm(vaultEdit, e.AppName, e.AppUsername, e.AppSecret), nil
		}
	case "d":
		if e, ok := v.selected(); ok {
			resp := v.svc.VaultDelete(e.AppName)
			v.refresh()
			return v, status(resp)
		}
	case "u":
		if e, ok := v.selected(); ok {
			return v, v.yank(e.AppUsername, "tui.vault.yanked_username")
		}
	case "y":
		if e, ok := v.selected(); ok {
			return v, v.yank(e.AppSecret, "tui.vault.yanked_password")
		}
	}
	return v, nil
}

func (v vaultModel) updateForm(msg tea.Msg) (vaultModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			v.mode = vaultList
			return v, nil
		case "enter":
			if v.focus < len(v.inputs)-1 {
				return v.setFocus(v.focus + 1), nil
			}
			app := v.inputs[0].Value()
			user := v.inputs[1].Value()
			pass := v.inputs[2].Value()
			var resp model.Response
			if v.mode == vaultAdd {
				resp = v.svc.VaultPut(app, user, pass)
			} else {
				resp = v.svc.VaultUpdate(app, user, pass)
			}
			if resp.Validity {
				v.mode = vaultList
				v.refresh()
			}
			return v, status(resp)
		case "up":
			if v.focus > 0 {
				return v.setFocus(v.focus - 1), nil
			}
		case "down":
			if v.focus < len(v.inputs)-1 {
				return v.setFocus(v.focus + 1), nil
			}
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

func (v vaultModel) openForm(mode vaultMode, app, user, pass string) vaultModel {
	v.mode = mode
	v.inputs[0].SetValue(app)
	v.inputs[1].SetValue(user)
	v.inputs[2].SetValue(pass)
	// The app name keys an existing entry; lock it while editing.
	if mode == vaultEdit {
		return v.setFocus(1)
	}
	return v.setFocus(0)
}

func (v vaultModel) setFocus(i int) vaultModel {
	v.inputs[v.focus].Blur()
	v.focus = i
	v.inputs[v.focus].Focus()
	return v
}

func (v vaultModel) selected() (model.VaultEntry, bool) {
	if len(v.entries) == 0 {
		return model.VaultEntry{}, false
	}
	return v.entries[v.cursor], true
}

func (v vaultModel) yank(text, okMessageID string) tea.Cmd {
	if err := clipboard.WriteAll(text); err != nil {
		return status(model.Response{Validity: false, Message: i18n.T("account.internal_error")})
	}
	return status(model.Response{Validity: true, Message: i18n.T(okMessageID)})
}

func status(resp model.Response) tea.Cmd {
	return func() tea.Msg { return statusMsg{resp: resp} }
}

func (v vaultModel) View() string {
	if v.svc.Session() == nil {
		return titleStyle.Render(i18n.T("tui.tab.vault")) + "\n" + i18n.T("tui.vault.locked")
	}
	if v.mode != vaultList {
		return v.viewForm()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("tui.tab.vault")))
	b.WriteString("\n")
	if len(v.entries) == 0 {
		b.WriteString(i18n.T("tui.vault.empty"))
	}
	for i, e := range v.entries {
		line := fmt.Sprintf("%-24s %s", e.AppName, e.AppUsername)
		if i == v.cursor {
			line = selectedRowStyle.Render("» " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(i18n.T("tui.help.vault")))
	return b.String()
}

func (v vaultModel) viewForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("tui.tab.vault")))
	b.WriteString("\n")
	for i, in := range v.inputs {
		b.WriteString(labelStyle.Render(v.labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(i18n.T("tui.help.form")))
	return b.String()
}
