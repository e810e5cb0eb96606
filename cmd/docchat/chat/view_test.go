package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func plainView(m Model) string {
	return ansi.Strip(m.View())
}

func TestView_InitializingBeforeSize(t *testing.T) {
	m := New(Config{Backend: newFakeBackend(), StartDir: t.TempDir()})
	defer m.Unmount()

	assert.Equal(t, "Initializing...", m.View())
}

func TestView_ChatLayout(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())

	out := plainView(m)

	assert.Contains(t, out, title)
	assert.Contains(t, out, placeholder)
	assert.Contains(t, out, "File: no file selected")
	assert.NotContains(t, out, uploadedLabel)
}

func TestView_ShowsQuestionAndAnswer(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())

	m, cmd := m.SubmitQuestion("What is X?")
	m, _ = deliver(t, m, cmd)

	out := plainView(m)
	assert.Contains(t, out, "What is X?")
	assert.Contains(t, out, "answer:")
	assert.Less(t, strings.Index(out, "What is X?"), strings.Index(out, "answer:"))
}

func TestView_QuestionsRightAnswersLeft(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())

	m, cmd := m.SubmitQuestion("hi")
	m, _ = deliver(t, m, cmd)

	transcript := ansi.Strip(m.renderTranscript())
	var questionCol, answerCol int = -1, -1
	for _, line := range strings.Split(transcript, "\n") {
		if i := strings.Index(line, "hi"); i >= 0 && questionCol < 0 && !strings.Contains(line, "answer") {
			questionCol = i
		}
		if i := strings.Index(line, "answer:"); i >= 0 {
			answerCol = i
		}
	}
	assert.Greater(t, questionCol, answerCol)
	assert.GreaterOrEqual(t, answerCol, 0)
}

func TestView_SelectedFileAndMarker(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend(), withInitialFile("/srv/docs/handbook.pdf"))

	out := plainView(m)
	assert.Contains(t, out, "File: handbook.pdf")
	assert.NotContains(t, out, "/srv/docs")

	m = update(t, m, uploadDoneMsg{path: "/srv/docs/handbook.pdf"})
	assert.Contains(t, plainView(m), uploadedLabel)

	m = update(t, m, uploadFlashExpiredMsg{})
	assert.NotContains(t, plainView(m), uploadedLabel)
}

func TestView_FilePicker(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})

	out := plainView(m)
	assert.Contains(t, out, "Select a file to upload")
	assert.NotContains(t, out, title)
}

func TestSafeRenderMarkdown_FallsBackWithoutRenderer(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())
	m.renderer = nil

	assert.Equal(t, "**bold**", m.safeRenderMarkdown("**bold**"))
	assert.Equal(t, "", m.safeRenderMarkdown(""))
}

func TestView_AnswersRenderedOnce(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())

	m, cmd := m.SubmitQuestion("cache me")
	m, _ = deliver(t, m, cmd)
	_, missesBefore := m.rendered.Stats()

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	hits, misses := m.rendered.Stats()
	assert.Equal(t, missesBefore, misses)
	assert.Positive(t, hits)
}
