package main

import (
	"fmt"
	"strings"

	"docchat/cmd/docchat/ui"
	"docchat/internal/api"
	"docchat/internal/logging"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var plain bool
	var width int

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question and print the answer",
		Long: `Sends a single question to the backend and prints the answer.

Answers are rendered as markdown unless --plain is given.

Example:
  docchat ask "What does the handbook say about remote work?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			question := strings.Join(args, " ")
			id := uuid.NewString()
			log := logging.Get(logging.CategoryAPI)

			answer, err := opts.client().Ask(api.WithRequestID(ctx, id), question)
			if err != nil {
				log.Error("Error querying", zap.String("request_id", id), zap.Error(err))
				return fmt.Errorf("query failed: %w", err)
			}
			log.Debug("answer received", zap.String("request_id", id), zap.Int("bytes", len(answer)))

			if !plain {
				answer = renderMarkdown(answer, ui.ThemeByName(opts.cfg.Theme), width)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the answer without markdown rendering")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for rendered answers")
	return cmd
}

// renderMarkdown renders md for the terminal, falling back to the raw text.
func renderMarkdown(md string, theme ui.Theme, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
