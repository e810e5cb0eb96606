package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"docchat/internal/config"
	"docchat/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newUploadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [path...]",
		Short: "Upload documents to the backend",
		Long: `Uploads each file to the backend. Directories are expanded to the
supported documents they contain (see documents.extensions).

Up to documents.max_concurrent_uploads uploads run at once. Every file is
attempted; the command fails if any upload failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			paths, err := collectDocuments(opts.cfg, args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No supported documents found.")
				return nil
			}

			client := opts.client()
			log := logging.Get(logging.CategoryUpload)

			var (
				mu       sync.Mutex
				failures []error
			)
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(opts.cfg.GetMaxConcurrentUploads())

			for _, path := range paths {
				path := path
				g.Go(func() error {
					resp, err := client.AddDocument(gctx, path)

					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						log.Error("Error uploading file", zap.String("path", path), zap.Error(err))
						failures = append(failures, fmt.Errorf("%s: %w", path, err))
						fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s\n", path)
						return nil
					}
					log.Info("file uploaded", zap.String("path", path), zap.String("message", resp.Message))
					fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", path)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if len(failures) > 0 {
				return fmt.Errorf("%d of %d uploads failed: %w", len(failures), len(paths), errors.Join(failures...))
			}
			return nil
		},
	}
}

// collectDocuments resolves args to files. Explicit files are always kept;
// directories contribute only supported documents.
func collectDocuments(cfg *config.Config, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot upload %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && cfg.IsSupportedDocument(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
		}
	}
	return paths, nil
}
