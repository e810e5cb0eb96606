package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"docchat/internal/api"
	"docchat/internal/config"
	"docchat/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions holds the global flags and what PersistentPreRunE resolves from them.
type rootOptions struct {
	configPath string
	backendURL string
	file       string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "docchat",
		Short: "Ask questions about your documents",
		Long: `docchat is a terminal chat panel for a document question-answering backend.

Ask questions and read the answers as a running transcript, pick a local
file and upload it so the backend can answer from it.

Run without arguments to start the interactive panel.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The panel owns the terminal, so only CLI commands log to stderr.
			return opts.setup(cmd, cmd != cmd.Root())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.CloseAll()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "Path to config file")
	rootCmd.PersistentFlags().StringVar(&opts.backendURL, "backend", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&opts.file, "file", "f", "", "Preselect a file for upload")

	rootCmd.AddCommand(
		newAskCmd(opts),
		newUploadCmd(opts),
		newWatchCmd(opts),
	)
	return rootCmd
}

// setup resolves config (file, then environment, then flags) and starts logging.
func (o *rootOptions) setup(cmd *cobra.Command, stderr bool) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("backend") {
		cfg.BackendURL = o.backendURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.Initialize(cfg.Logging, logging.Options{Verbose: o.verbose, Stderr: stderr})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	o.cfg = cfg
	o.logger = logger
	logging.Get(logging.CategoryBoot).Debug("config resolved",
		zap.String("config", o.configPath),
		zap.String("backend", cfg.BackendURL),
	)
	return nil
}

func (o *rootOptions) client() *api.Client {
	return api.NewClient(o.cfg.BackendURL,
		api.WithQueryTimeout(o.cfg.GetRequestTimeout()),
		api.WithUploadTimeout(o.cfg.GetUploadTimeout()),
	)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
