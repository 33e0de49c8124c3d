package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	apppkg "github.com/kk-code-lab/vimview/internal/app"
	"github.com/kk-code-lab/vimview/internal/config"
	"github.com/kk-code-lab/vimview/internal/logging"
)

var version = "dev"

// runOptions are the parsed command-line inputs.
type runOptions struct {
	configPath string
	debug      bool
	directory  string
}

// runViewer is swapped out in tests so the command can be exercised without
// a terminal.
var runViewer = run

func newRootCmd() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "vimview [directory]",
		Short: "Keyboard-driven terminal image browser",
		Long: `vimview browses the images of one directory at a time with single-key
commands for navigation, filtering, trashing, renaming and moving files.

Without a directory it starts on the home screen.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.directory = args[0]
			}
			return runViewer(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.config/vimview/config.json)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log debug details to the log file")
	return cmd
}

func run(opts runOptions) error {
	if opts.configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locate config: %w", err)
		}
		opts.configPath = path
	}

	closer := setupLogging(opts.debug)
	defer func() {
		_ = closer.Close()
	}()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		// Load always returns a usable config; problems are only logged.
		logging.LogError("load config", err)
	}

	// Set UTF-8 as fallback encoding so non-ASCII file names display
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	app, err := apppkg.NewApplication(apppkg.Options{
		Config:     cfg,
		ConfigPath: opts.configPath,
		Directory:  opts.directory,
	})
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	logging.WithOp("start").WithField("path", opts.directory).Info("viewer started")
	app.Run()
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func setupLogging(debug bool) io.Closer {
	path, err := config.LogPath()
	if err != nil {
		return nopCloser{}
	}
	closer, err := logging.Setup(path, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return nopCloser{}
	}
	return closer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
