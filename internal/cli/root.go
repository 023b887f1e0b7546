// Package cli wires configuration, the board session and the front ends
// into the taskboard command.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/bridge"
	"github.com/nhle/taskboard/internal/model"
)

// eventBuffer is how many board events the terminal UI may lag behind
// before it falls back to a full reload.
const eventBuffer = 256

// Flags holds the persistent command-line flags.
type Flags struct {
	ConfigPath string
	DBPath     string
}

// NewRootCmd builds the taskboard command tree.
func NewRootCmd() *cobra.Command {
	f := &Flags{}

	cmd := &cobra.Command{
		Use:          "taskboard",
		Short:        "A local task board with drag-and-drop lists",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  taskboard

  # Serve the board to a browser on localhost
  taskboard serve --addr 127.0.0.1:3001

  # Print the board
  taskboard show
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), f)
		},
	}

	cmd.PersistentFlags().StringVar(&f.ConfigPath, "config", envOr("TASKBOARD_CONFIG", model.DefaultConfigPath()), "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&f.DBPath, "db", "", "Path to the board database (overrides database.path)")

	cmd.AddCommand(newServeCmd(f))
	cmd.AddCommand(newShowCmd(f))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(f *Flags) (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	if f.DBPath != "" {
		cfg.Database.Path = f.DBPath
	}
	return cfg, nil
}

// openSession opens the configured database, creating its directory.
func openSession(ctx context.Context, cfg *model.AppConfig, opts ...board.Option) (*board.Session, model.Board, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, model.Board{}, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}
	return board.Open(ctx, cfg.Database.Path, opts...)
}

func runTUI(ctx context.Context, f *Flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.File, "taskboard")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	events := bridge.NewChannel(eventBuffer)
	defer events.Close()

	s, _, err := openSession(ctx, cfg,
		board.WithBridge(events),
		board.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Display.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	m := app.New(s, events, *cfg, f.ConfigPath)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
