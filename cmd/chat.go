package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"

	"github.com/wishkeep/wishkeep/internal/config"
	"github.com/wishkeep/wishkeep/internal/log"
	"github.com/wishkeep/wishkeep/internal/tui"
)

// runChat starts the interactive terminal client against a running server.
// Chat mode needs only the server URL and a token; database and model
// configuration stay on the server side.
func runChat(logger log.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.ServerURL == "" {
		return errors.New("chat requires server_url in config.yaml or WISHKEEP_SERVER_URL")
	}
	if cfg.ChatToken == "" {
		return errors.New("chat requires chat_token in config.yaml or WISHKEEP_TOKEN")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := tui.NewClient(cfg.ServerURL, cfg.ChatToken)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	model, err := tui.New(ctx, client)
	if err != nil {
		return fmt.Errorf("creating TUI: %w", err)
	}

	logger.Debug("starting chat", "server", cfg.ServerURL)

	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI exited: %w", err)
	}
	return nil
}
