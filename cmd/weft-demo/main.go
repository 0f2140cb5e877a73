// Command weft-demo is an interactive tour of the weft collection
// controls: a TreeView over a project layout, a virtualized ListView,
// and a ComboBox, all hosted in a TabNavigator.
//
// Usage:
//
//	go run ./cmd/weft-demo
//
// Navigation: Left/Right switch tabs, Up/Down move the selection inside
// the active tab, Space toggles tree branches, Enter triggers or commits,
// q or Ctrl+C quits.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/weftui/weft/pkg/term"
)

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "weft-demo [flags]",
		Short: "Interactive demo of the weft collection controls",
		Long: `weft-demo hosts a TreeView, ListView and ComboBox inside a
TabNavigator on the current terminal. It reads an optional weft.toml
from the working directory (or any parent up to the repo root) for
row counts and popup sizing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&cfg.LogFile, "log-file", "", "Write logs to this file instead of discarding them")
	rootCmd.Flags().IntVar(&cfg.Rows, "rows", 0, "Number of generated list rows (overrides weft.toml)")

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	// The terminal owns stderr while the demo runs, so logs go to a file
	// or nowhere.
	logOut := io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: level,
	})))

	cwd, _ := os.Getwd()
	if path, fileCfg, err := FindConfig(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	} else if fileCfg != nil {
		slog.Debug("loaded config", "path", path)
		cfg.apply(fileCfg)
	}
	cfg.defaults()

	screen := term.NewScreen(term.NewProcessTerminal())
	app := newApp(cfg)
	screen.SetRoot(app)
	screen.SetFocus(app.tabs)

	done := make(chan struct{}, 1)
	screen.OnKey = func(ev uv.KeyPressEvent) bool {
		key := uv.Key(ev)
		if key.Code == 'q' || (key.Code == 'c' && key.Mod == uv.ModCtrl) {
			select {
			case done <- struct{}{}:
			default:
			}
			return true
		}
		return false
	}

	if err := screen.Start(); err != nil {
		return err
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
	screen.Stop()
	return nil
}
