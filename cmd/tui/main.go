// Command tui plays hot-seat tic-tac-toe in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaminalder/time-travel-tic-tac-toe/internal/config"
	"github.com/jaminalder/time-travel-tic-tac-toe/internal/domain"
	"github.com/jaminalder/time-travel-tic-tac-toe/internal/logging"
	"github.com/jaminalder/time-travel-tic-tac-toe/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (env only when empty)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// stdout belongs to the UI; logs go to a file or nowhere
	var out io.Writer = io.Discard
	if conf.TUI.LogFile != "" {
		f, err := os.OpenFile(conf.TUI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := logging.New(out, conf.LogLevel)

	p := tea.NewProgram(tui.New(domain.New(), logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited", "error", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
