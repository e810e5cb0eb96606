package main

import (
	"docchat/cmd/docchat/chat"
	"docchat/cmd/docchat/ui"
	"docchat/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// runInteractive runs the chat panel until the user quits.
func runInteractive(opts *rootOptions) error {
	cfg := opts.cfg
	log := logging.Get(logging.CategoryBoot)

	model := chat.New(chat.Config{
		Backend:     opts.client(),
		Styles:      ui.NewStyles(ui.ThemeByName(cfg.Theme)),
		UploadFlash: cfg.GetUploadFlash(),
		Extensions:  cfg.Documents.Extensions,
		InitialFile: opts.file,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	log.Info("starting panel", zap.String("backend", cfg.BackendURL))
	final, err := p.Run()
	// Copies of the model share one lifetime, so unmounting any of them
	// cancels what the panel started.
	if m, ok := final.(chat.Model); ok {
		model = m
	}
	_ = model.Unmount()
	return err
}
