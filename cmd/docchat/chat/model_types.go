package chat

import (
	"context"
	"errors"
	"time"

	"docchat/cmd/docchat/ui"
	"docchat/internal/api"

	"go.uber.org/zap"
)

// ErrNoFileSelected is logged when an upload is requested before a file was chosen.
var ErrNoFileSelected = errors.New("no file selected")

// Backend is what the panel needs from the question-answering service.
type Backend interface {
	Ask(ctx context.Context, question string) (string, error)
	AddDocument(ctx context.Context, path string) (api.UploadResponse, error)
}

// Config holds configuration for initializing the chat panel.
type Config struct {
	Backend Backend
	Styles  ui.Styles

	// UploadFlash is how long the upload marker stays on. Defaults to 3s.
	UploadFlash time.Duration

	// Extensions restricts the file picker. Empty shows every file.
	Extensions []string
	// StartDir is where the file picker opens. Defaults to the working directory.
	StartDir string
	// InitialFile preselects a file for upload.
	InitialFile string

	// Logger overrides the categorized operator loggers (tests).
	Logger *zap.Logger
}

// ViewMode determines which component is focused/active
type ViewMode int

const (
	ChatView ViewMode = iota
	FilePickerView
)

// timerFunc starts a single-shot timer and returns its channel and stop func.
type timerFunc func(d time.Duration) (<-chan time.Time, func() bool)

func realTimer(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// =============================================================================
// MESSAGES
// =============================================================================

// mountMsg attaches the Enter listener once the program is running.
type mountMsg struct{}

// answerMsg carries the outcome of one /query call.
type answerMsg struct {
	questionID string
	answer     string
	err        error
}

// uploadDoneMsg carries the outcome of one /addDocuments call.
type uploadDoneMsg struct {
	path string
	resp api.UploadResponse
	err  error
}

// uploadFlashExpiredMsg turns the upload marker off.
type uploadFlashExpiredMsg struct{}
