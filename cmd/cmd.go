// Package cmd provides CLI commands for wishkeep.
//
// Commands:
//   - serve: HTTP API server with SSE streaming
//   - chat: interactive terminal chat against a running server
//   - migrate: apply database migrations and exit
//
// Signal handling and graceful shutdown are implemented for all commands via
// context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/wishkeep/wishkeep/internal/log"
)

// Execute is the main entry point for the wishkeep CLI.
func Execute() error {
	logger := log.New(log.Config{
		Level: logLevel(),
		JSON:  os.Getenv("WISHKEEP_LOG_JSON") != "",
	})

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe(logger)
	case "chat":
		return runChat(logger)
	case "migrate":
		return runMigrate(logger)
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// logLevel reads the log level from the environment. DEBUG (any value)
// enables debug logging.
func logLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("Wishkeep - conversational wishlist tracker")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  wishkeep serve [addr]  Start the HTTP API server")
	fmt.Println("  wishkeep chat          Chat with a running server")
	fmt.Println("  wishkeep migrate       Apply database migrations and exit")
	fmt.Println("  wishkeep --version     Show version information")
	fmt.Println("  wishkeep --help        Show this help")
	fmt.Println()
	fmt.Println("Chat commands (in interactive mode):")
	fmt.Println("  /help                  Show available commands")
	fmt.Println("  /clear                 Clear the conversation")
	fmt.Println("  /exit, /quit           Exit")
	fmt.Println()
	fmt.Println("Shortcuts:")
	fmt.Println("  Ctrl+D                 Exit")
	fmt.Println("  Ctrl+C                 Cancel current turn or clear input")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  GEMINI_API_KEY         Required for serve: Gemini API key")
	fmt.Println("  WISHKEEP_SERVER_URL    Chat: server base URL")
	fmt.Println("  WISHKEEP_TOKEN         Chat: API token")
	fmt.Println("  DEBUG                  Optional: enable debug logging")
}
