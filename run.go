package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"pkt.systems/pslog"

	"github.com/miosa/osa-vlist/app"
	"github.com/miosa/osa-vlist/config"
	"github.com/miosa/osa-vlist/style"
)

type runOptions struct {
	configPath string
	logFile    string
	theme      string
	markdown   bool
	preload    int
}

// bind registers the run flags on cmd. The root command shares them so a
// bare invocation starts the demo.
func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.logFile, "log-file", "", "write logs to this file; the terminal belongs to the UI")
	cmd.Flags().StringVar(&o.theme, "theme", "", "override the configured theme (auto, dark, light, catppuccin, tokyo-night)")
	cmd.Flags().BoolVar(&o.markdown, "markdown", false, "render entries as markdown")
	cmd.Flags().IntVar(&o.preload, "preload", 0, "append this many entries at startup")
}

func newRunCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the feed demo (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd.Context(), *opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runFeed(ctx context.Context, opts runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.theme != "" {
		cfg.Theme = opts.theme
	}
	if opts.markdown {
		cfg.Markdown = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := openLog(opts.logFile, cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	ctx = pslog.ContextWithLogger(ctx, logger)

	theme := cfg.Theme
	if theme == config.ThemeAuto {
		// Detect the terminal background before any rendering.
		theme = "light"
		if lipgloss.HasDarkBackground(os.Stdin, os.Stdout) {
			theme = "dark"
		}
	}
	style.SetTheme(theme)

	path := opts.configPath
	if path == "" {
		path, _ = config.DefaultConfigPath()
	}
	m, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: path,
		Version:    version,
		Preload:    opts.preload,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	logger.Info("feed demo starting", "theme", theme, "config", path, "interval_ms", cfg.Feed.IntervalMS)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run: %w", err)
	}
	logger.Info("feed demo stopped")
	return nil
}

// openLog returns the logger the UI writes to. Without a log file, or with
// log_level off, logs are discarded so nothing draws over the frame.
func openLog(path string, cfg config.Config) (pslog.Logger, func(), error) {
	level, on := cfg.Level()
	if path == "" || !on {
		return pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured, NoColor: true, MinLevel: pslog.ErrorLevel}), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("log: create dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("log: open %s: %w", path, err)
	}
	logger := pslog.NewWithOptions(f, pslog.Options{Mode: pslog.ModeStructured, NoColor: true, MinLevel: level})
	return logger, func() { _ = f.Close() }, nil
}

func newInitCmd(opts *runOptions) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Save(opts.configPath, config.DefaultConfig(), overwrite)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	cmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing config file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "osa-vlist %s\n", version)
			return err
		},
	}
}
