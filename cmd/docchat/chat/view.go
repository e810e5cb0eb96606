package chat

import (
	"path/filepath"
	"strings"

	"docchat/cmd/docchat/ui"
	"docchat/internal/transcript"

	"github.com/charmbracelet/lipgloss"
)

const (
	title         = "Document Analysis Chatbot"
	uploadedLabel = "File uploaded successfully! ✔"
	helpLine      = "enter send · alt+enter newline · ctrl+o choose file · ctrl+u upload · esc quit"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	col := m.layout.ColumnWidth()

	if m.viewMode == FilePickerView {
		header := m.styles.Title.Width(col).Render("Select a file to upload")
		body := lipgloss.JoinVertical(lipgloss.Left,
			header,
			m.filepicker.View(),
			m.styles.Footer.Render("enter select · esc back"),
		)
		return m.center(body)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Width(col).Render(title),
		"",
		m.viewport.View(),
		m.styles.Input.Render(m.textarea.View()),
		m.renderUploadRow(),
		m.styles.Footer.Render(helpLine),
	)
	return m.center(body)
}

func (m Model) center(s string) string {
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

// renderTranscript lays questions out on the right and answers on the left.
func (m Model) renderTranscript() string {
	col := m.layout.ColumnWidth()
	bubble := m.layout.BubbleWidth()

	var sb strings.Builder
	for _, e := range m.transcript.Entries() {
		switch e.Role {
		case transcript.RoleQuestion:
			style := m.styles.Question
			if w := lipgloss.Width(e.Text) + style.GetHorizontalFrameSize(); w < bubble {
				style = style.Width(w)
			} else {
				style = style.Width(bubble)
			}
			sb.WriteString(lipgloss.PlaceHorizontal(col, lipgloss.Right, style.Render(e.Text)))
		default:
			key := ui.ComputeKey(e.Text, bubble, m.styles.Theme.IsDark)
			rendered := m.rendered.GetOrCompute(key, func() string {
				return m.safeRenderMarkdown(e.Text)
			})
			sb.WriteString(lipgloss.PlaceHorizontal(col, lipgloss.Left, m.styles.Answer.Render(rendered)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return strings.Trim(rendered, "\n")
		}
	}
	return content
}

func (m Model) renderUploadRow() string {
	file := m.styles.Muted.Render("no file selected")
	if m.selectedFile != "" {
		file = m.styles.FileName.Render(filepath.Base(m.selectedFile))
	}

	parts := []string{"File: " + file}
	if m.uploadSuccess {
		parts = append(parts, m.styles.Success.Render(uploadedLabel))
	}
	if m.inFlight > 0 {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, "  ")
}
