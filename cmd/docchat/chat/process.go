package chat

import (
	"docchat/internal/api"
	"docchat/internal/transcript"

	tea "github.com/charmbracelet/bubbletea"
)

// askCmd sends one question. The call is bound to the panel lifetime and
// carries the question's entry ID as its request ID.
func (m Model) askCmd(q transcript.Entry) tea.Cmd {
	ctx, backend := m.lifetime, m.backend
	return func() tea.Msg {
		answer, err := backend.Ask(api.WithRequestID(ctx, q.ID), q.Text)
		return answerMsg{questionID: q.ID, answer: answer, err: err}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	ctx, backend := m.lifetime, m.backend
	return func() tea.Msg {
		resp, err := backend.AddDocument(ctx, path)
		return uploadDoneMsg{path: path, resp: resp, err: err}
	}
}

// flashResetCmd turns the upload marker off after flashDelay. Each successful
// upload schedules its own reset; an earlier reset is not pushed back by a
// later upload. The wait ends early, without a message, at unmount.
func (m Model) flashResetCmd() tea.Cmd {
	ctx, d, newTimer := m.lifetime, m.flashDelay, m.newTimer
	return func() tea.Msg {
		c, stop := newTimer(d)
		defer stop()
		select {
		case <-c:
			return uploadFlashExpiredMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
