// Package chat provides test utilities for panel testing.
// This file contains fakes, fixtures, and helpers for testing the chat package.
package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"docchat/cmd/docchat/ui"
	"docchat/internal/api"
	"docchat/internal/api/apitest"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

// fakeBackend records calls and lets a test decide how each one ends.
type fakeBackend struct {
	mu       sync.Mutex
	askFn    func(ctx context.Context, q string) (string, error)
	uploadFn func(ctx context.Context, path string) (api.UploadResponse, error)
	asked    chan string
	uploaded chan string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		asked:    make(chan string, 16),
		uploaded: make(chan string, 16),
	}
}

func (f *fakeBackend) Ask(ctx context.Context, q string) (string, error) {
	f.asked <- q
	f.mu.Lock()
	fn := f.askFn
	f.mu.Unlock()
	if fn == nil {
		return "answer: " + q, nil
	}
	return fn(ctx, q)
}

func (f *fakeBackend) AddDocument(ctx context.Context, path string) (api.UploadResponse, error) {
	f.uploaded <- path
	f.mu.Lock()
	fn := f.uploadFn
	f.mu.Unlock()
	if fn == nil {
		return api.UploadResponse{Message: "Document added successfully"}, nil
	}
	return fn(ctx, path)
}

func (f *fakeBackend) waitAsked(t *testing.T) string {
	t.Helper()
	select {
	case q := <-f.asked:
		return q
	case <-time.After(2 * time.Second):
		t.Fatal("backend was never asked")
		return ""
	}
}

// =============================================================================
// FAKE TIMER
// =============================================================================

// fakeTimer hands out one shared channel the test fires by hand.
type fakeTimer struct {
	started chan time.Duration
	c       chan time.Time
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{
		started: make(chan time.Duration, 4),
		c:       make(chan time.Time, 4),
	}
}

func (f *fakeTimer) start(d time.Duration) (<-chan time.Time, func() bool) {
	f.started <- d
	return f.c, func() bool { return true }
}

func (f *fakeTimer) fire() {
	f.c <- time.Now()
}

func (f *fakeTimer) waitStarted(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-f.started:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("flash timer was never started")
		return 0
	}
}

// =============================================================================
// MODEL HELPERS
// =============================================================================

type testOption func(*Config)

func withInitialFile(path string) testOption {
	return func(c *Config) { c.InitialFile = path }
}

// newTestModel returns a mounted, sized panel and the log it writes to.
func newTestModel(t *testing.T, backend Backend, opts ...testOption) (Model, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	cfg := Config{
		Backend:  backend,
		Styles:   ui.NewStyles(ui.LightTheme()),
		StartDir: t.TempDir(),
		Logger:   zap.New(core),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := New(cfg)
	t.Cleanup(func() { m.Unmount() })

	m = update(t, m, mountMsg{})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, logs
}

// newHTTPTestModel wires the panel to a fake backend over real HTTP.
func newHTTPTestModel(t *testing.T, opts ...testOption) (Model, *apitest.Backend, *observer.ObservedLogs) {
	t.Helper()
	backend := apitest.NewBackend(t)
	m, logs := newTestModel(t, api.NewClient(backend.URL()), opts...)
	return m, backend, logs
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := updateCmd(t, m, msg)
	return next
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return result, cmd
}

// execCmd runs cmd and returns the messages it produces, flattening batches.
func execCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, execCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// deliver runs cmd and feeds its backend results into the model. It returns
// the follow-up commands those results produced.
func deliver(t *testing.T, m Model, cmd tea.Cmd) (Model, []tea.Cmd) {
	t.Helper()
	var follow []tea.Cmd
	for _, msg := range execCmd(cmd) {
		switch msg.(type) {
		case answerMsg, uploadDoneMsg:
			var next tea.Cmd
			m, next = updateCmd(t, m, msg)
			if next != nil {
				follow = append(follow, next)
			}
		}
	}
	return m, follow
}

func errorMessages(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.FilterLevelExact(zapcore.ErrorLevel).All() {
		out = append(out, e.Message)
	}
	return out
}
