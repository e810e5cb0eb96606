package chat

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// handleKey routes key presses. Enter is a program-wide listener: while the
// panel is mounted it submits the draft no matter which component has focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.Unmount(), tea.Quit
	case tea.KeyEsc:
		if m.viewMode == FilePickerView {
			m.viewMode = ChatView
			return m, nil
		}
		return m.Unmount(), tea.Quit
	case tea.KeyCtrlO:
		m.viewMode = FilePickerView
		return m, m.filepicker.Init()
	case tea.KeyCtrlU:
		return m.UploadFile()
	}

	var cmds []tea.Cmd

	if m.keysAttached && msg.Type == tea.KeyEnter && !msg.Alt {
		var cmd tea.Cmd
		m, cmd = m.SubmitQuestion(m.textarea.Value())
		cmds = append(cmds, cmd)
		if m.viewMode == ChatView {
			return m, tea.Batch(cmds...)
		}
	}

	if m.viewMode == FilePickerView {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		cmds = append(cmds, cmd)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m = m.SelectFile(path)
			m.viewMode = ChatView
		} else if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
			m.uiLog.Warn("file type not offered for upload", zap.String("path", path))
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}
