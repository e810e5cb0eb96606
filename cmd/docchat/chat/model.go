// Package chat provides the interactive document chat panel.
// The panel keeps a transcript of questions and answers, a draft, one selected
// file and a short-lived upload marker, and talks to the backend through
// tea.Cmds so the update loop never blocks.
package chat

import (
	"context"
	"os"
	"strings"
	"time"

	"docchat/cmd/docchat/ui"
	"docchat/internal/logging"
	"docchat/internal/transcript"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

const (
	defaultUploadFlash = 3 * time.Second
	placeholder        = "Ask me anything..."
	renderCacheSize    = 256
)

// Model is the chat panel.
type Model struct {
	// UI Components
	textarea   textarea.Model
	viewport   viewport.Model
	filepicker filepicker.Model
	spinner    spinner.Model
	styles     ui.Styles
	renderer   *glamour.TermRenderer
	rendered   *ui.RenderCache
	layout     ui.LayoutConfig

	viewMode ViewMode
	width    int
	height   int
	ready    bool

	// Panel state
	transcript    *transcript.Transcript
	selectedFile  string
	uploadSuccess bool
	inFlight      int

	// Lifecycle. keysAttached is the global Enter listener; lifetime bounds
	// every request and timer the panel starts.
	keysAttached bool
	lifetime     context.Context
	cancel       context.CancelFunc

	backend    Backend
	flashDelay time.Duration
	newTimer   timerFunc

	apiLog    *zap.Logger
	uploadLog *zap.Logger
	uiLog     *zap.Logger
}

// New creates a chat panel.
func New(cfg Config) Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(ui.InputLines)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(cfg.Styles.Spinner),
	)

	fp := filepicker.New()
	fp.AllowedTypes = cfg.Extensions
	fp.CurrentDirectory = cfg.StartDir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		}
	}

	flash := cfg.UploadFlash
	if flash <= 0 {
		flash = defaultUploadFlash
	}

	apiLog, uploadLog, uiLog := logging.Get(logging.CategoryAPI), logging.Get(logging.CategoryUpload), logging.Get(logging.CategoryUI)
	if cfg.Logger != nil {
		apiLog = cfg.Logger.Named(string(logging.CategoryAPI))
		uploadLog = cfg.Logger.Named(string(logging.CategoryUpload))
		uiLog = cfg.Logger.Named(string(logging.CategoryUI))
	}

	layout := ui.NewLayoutConfig(80, 24)
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		textarea:     ta,
		viewport:     viewport.New(layout.ColumnWidth(), layout.TranscriptHeight()),
		filepicker:   fp,
		spinner:      sp,
		styles:       cfg.Styles,
		rendered:     ui.NewRenderCache(renderCacheSize),
		layout:       layout,
		viewMode:     ChatView,
		transcript:   transcript.New(),
		selectedFile: cfg.InitialFile,
		lifetime:     ctx,
		cancel:       cancel,
		backend:      cfg.Backend,
		flashDelay:   flash,
		newTimer:     realTimer,
		apiLog:       apiLog,
		uploadLog:    uploadLog,
		uiLog:        uiLog,
	}
	m.renderer = m.newRenderer()
	return m
}

// Init initializes the chat panel
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		func() tea.Msg { return mountMsg{} },
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height)
		return m, nil

	case mountMsg:
		m.keysAttached = m.lifetime.Err() == nil
		m.uiLog.Debug("panel mounted")
		return m, nil

	case answerMsg:
		return m.handleAnswer(msg), nil

	case uploadDoneMsg:
		return m.handleUploadDone(msg)

	case uploadFlashExpiredMsg:
		m.uploadSuccess = false
		return m, nil

	case spinner.TickMsg:
		if m.inFlight > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Directory listings and other component messages.
	if m.viewMode == FilePickerView {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// =============================================================================
// PANEL OPERATIONS
// =============================================================================

// SubmitQuestion appends text as a question, clears the draft and sends it to
// the backend. Whitespace-only text does nothing.
func (m Model) SubmitQuestion(text string) (Model, tea.Cmd) {
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	entry := m.transcript.AddQuestion(text)
	m.textarea.Reset()
	m.refreshTranscript()

	m.inFlight++
	return m, tea.Batch(m.askCmd(entry), m.spinner.Tick)
}

// UploadFile sends the selected file to the backend. Without a selection the
// failure is logged and nothing is sent.
func (m Model) UploadFile() (Model, tea.Cmd) {
	if m.selectedFile == "" {
		m.uploadLog.Error("Error uploading file", zap.Error(ErrNoFileSelected))
		return m, nil
	}

	m.inFlight++
	return m, tea.Batch(m.uploadCmd(m.selectedFile), m.spinner.Tick)
}

// SelectFile replaces the file chosen for upload.
func (m Model) SelectFile(path string) Model {
	m.selectedFile = path
	m.uiLog.Debug("file selected", zap.String("path", path))
	return m
}

// SetDraft replaces the unsent input.
func (m Model) SetDraft(text string) Model {
	m.textarea.SetValue(text)
	return m
}

// Draft returns the unsent input.
func (m Model) Draft() string {
	return m.textarea.Value()
}

// Transcript returns the entries in append order.
func (m Model) Transcript() []transcript.Entry {
	return m.transcript.Entries()
}

// SelectedFile returns the file chosen for upload, or "".
func (m Model) SelectedFile() string {
	return m.selectedFile
}

// UploadSucceeded reports whether the upload marker is on.
func (m Model) UploadSucceeded() bool {
	return m.uploadSuccess
}

// Unmount detaches the Enter listener and cancels every request and timer the
// panel started. Results that arrive afterwards are dropped. Safe to call
// more than once.
func (m Model) Unmount() Model {
	if m.keysAttached {
		m.uiLog.Debug("panel unmounted")
	}
	m.keysAttached = false
	m.cancel()
	return m
}

func (m Model) closed() bool {
	return m.lifetime.Err() != nil
}

// =============================================================================
// RESULT HANDLING
// =============================================================================

func (m Model) handleAnswer(msg answerMsg) Model {
	m.inFlight = max(m.inFlight-1, 0)
	if m.closed() {
		m.apiLog.Debug("dropping answer after unmount", zap.String("request_id", msg.questionID))
		return m
	}
	if msg.err != nil {
		m.apiLog.Error("Error querying",
			zap.String("request_id", msg.questionID),
			zap.Error(msg.err),
		)
		return m
	}

	m.transcript.AddAnswer(msg.questionID, msg.answer)
	m.refreshTranscript()
	return m
}

func (m Model) handleUploadDone(msg uploadDoneMsg) (Model, tea.Cmd) {
	m.inFlight = max(m.inFlight-1, 0)
	if m.closed() {
		m.uploadLog.Debug("dropping upload result after unmount", zap.String("path", msg.path))
		return m, nil
	}
	if msg.err != nil {
		m.uploadLog.Error("Error uploading file",
			zap.String("path", msg.path),
			zap.Error(msg.err),
		)
		return m, nil
	}

	m.uploadLog.Info("file uploaded",
		zap.String("path", msg.path),
		zap.String("message", msg.resp.Message),
	)
	m.uploadSuccess = true
	return m, m.flashResetCmd()
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) resize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width = width
	m.height = height
	m.layout = ui.NewLayoutConfig(width, height)

	col := m.layout.ColumnWidth()
	m.viewport.Width = col
	m.viewport.Height = m.layout.TranscriptHeight()
	m.textarea.SetWidth(col - 2)
	m.filepicker.Height = m.layout.TranscriptHeight()
	m.ready = true

	m.renderer = m.newRenderer()
	m.refreshTranscript()
	return m
}

func (m Model) newRenderer() *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.styles.Theme.GlamourStyle()),
		glamour.WithWordWrap(m.layout.BubbleWidth()),
	)
	if err != nil {
		m.uiLog.Warn("markdown renderer unavailable", zap.Error(err))
		return nil
	}
	return r
}

// refreshTranscript re-renders the transcript and scrolls to the bottom.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
