package main

import (
	"fmt"

	"docchat/internal/logging"
	"docchat/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Upload documents as they appear in a directory",
		Long: `Watches a directory and uploads supported documents whenever they are
created or modified. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			w, err := watch.New(args[0], opts.client(), watch.Options{
				Debounce: opts.cfg.GetWatchDebounce(),
				Filter:   opts.cfg.IsSupportedDocument,
				Logger:   logging.Get(logging.CategoryWatch),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (ctrl+c to stop)\n", args[0])
			if err := w.Run(ctx); err != nil {
				return err
			}

			s := w.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d, failed %d\n", s.Uploaded, s.Failed)
			return nil
		},
	}
}
