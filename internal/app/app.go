// Package app wires the application together: configuration, database pool,
// Genkit, the wishlist store, the tool kit, and the dispatcher. Commands call
// Setup once and read what they need from the returned App.
package app

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wishkeep/wishkeep/internal/assistant"
	"github.com/wishkeep/wishkeep/internal/config"
	"github.com/wishkeep/wishkeep/internal/log"
	"github.com/wishkeep/wishkeep/internal/wishlist"
)

// App is the application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit     *genkit.Genkit
	Pool       *pgxpool.Pool
	Store      *wishlist.Store
	Tools      []ai.ToolRef
	Dispatcher *assistant.Dispatcher
}

// Close releases everything Setup acquired. Safe to call on a partially
// initialized App.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
		if a.Logger != nil {
			a.Logger.Info("database pool closed")
		}
	}
}
