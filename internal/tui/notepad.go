// Copyright (c) 2025 ToeiRei
// Vaultmaster - local account and credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/toeirei/vaultmaster/internal/i18n"
)

// notepadModel is a free-form scratchpad. Its content lives only in memory
// for the lifetime of the program; nothing typed here is ever persisted.
type notepadModel struct {
	area textarea.Model
}

func newNotepad() notepadModel {
	area := textarea.New()
	area.Placeholder = i18n.T("tui.tab.notepad")
	area.Focus()
	return notepadModel{area: area}
}

func (n *notepadModel) setSize(width, height int) {
	if width > 8 {
		n.area.SetWidth(width - 8)
	}
	if height > 10 {
		n.area.SetHeight(height - 10)
	}
}

func (n notepadModel) Update(msg tea.Msg) (notepadModel, tea.Cmd) {
	var cmd tea.Cmd
	n.area, cmd = n.area.Update(msg)
	return n, cmd
}

func (n notepadModel) View() string {
	return titleStyle.Render(i18n.T("tui.tab.notepad")) + "\n" + n.area.View()
}
