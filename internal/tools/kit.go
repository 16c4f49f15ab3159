package tools

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"

	"github.com/wishkeep/wishkeep/internal/log"
	"github.com/wishkeep/wishkeep/internal/wishlist"
)

// Store defines the wishlist operations the kit needs.
// Interfaces are defined by the consumer, not the provider; *wishlist.Store
// satisfies this.
type Store interface {
	InsertItem(ctx context.Context, item wishlist.Item) (wishlist.Item, error)
	QueryItems(ctx context.Context, ownerID string, f wishlist.Filter) ([]wishlist.Item, error)
	UpdateItemStatus(ctx context.Context, ownerID string, id uuid.UUID, status wishlist.Status) (wishlist.Item, error)
	ListCategories(ctx context.Context) ([]wishlist.Category, error)
}

// KitConfig holds all required dependencies for Kit.
type KitConfig struct {
	Store Store

	// DuplicateThreshold is the minimum title similarity for an existing
	// todo item to block a createItem call.
	DuplicateThreshold float64

	// ResolveThreshold is the minimum similarity for toggleItem to accept
	// a fuzzy title match.
	ResolveThreshold float64

	Logger log.Logger
}

func (cfg *KitConfig) validate() error {
	if cfg.Store == nil {
		return fmt.Errorf("KitConfig.Store is required")
	}
	if cfg.DuplicateThreshold <= 0 || cfg.DuplicateThreshold > 1 {
		return fmt.Errorf("KitConfig.DuplicateThreshold must be in (0, 1], got %v", cfg.DuplicateThreshold)
	}
	if cfg.ResolveThreshold <= 0 || cfg.ResolveThreshold > 1 {
		return fmt.Errorf("KitConfig.ResolveThreshold must be in (0, 1], got %v", cfg.ResolveThreshold)
	}
	if cfg.Logger == nil {
		return fmt.Errorf("KitConfig.Logger is required")
	}
	return nil
}

// Kit provides the wishlist tools for the assistant.
type Kit struct {
	store        Store
	dupThreshold float64
	resThreshold float64
	logger       log.Logger
}

// NewKit creates a tool kit with all required dependencies.
func NewKit(cfg KitConfig) (*Kit, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Kit{
		store:        cfg.Store,
		dupThreshold: cfg.DuplicateThreshold,
		resThreshold: cfg.ResolveThreshold,
		logger:       cfg.Logger.With("component", "tools"),
	}, nil
}

// Register registers all kit tools with Genkit and returns their refs for
// use with ai.WithTools. Handlers are wrapped with WithEvents so executions
// surface as frames on streaming turns.
func (k *Kit) Register(g *genkit.Genkit) ([]ai.ToolRef, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required (cannot be nil)")
	}

	createTool := genkit.DefineTool(g, "createItem",
		"Add a new item to the user's wishlist. "+
			"Requires a title and a categoryId from the category directory. "+
			"Optional fields: description, location, url, targetDate (YYYY-MM-DD), "+
			"priority (low/medium/high), and a personal note. "+
			"If a very similar item already exists in the same category the call "+
			"returns success=false with the similar titles; ask the user to confirm "+
			"before retrying.",
		WithEvents("createItem", k.CreateItem))

	queryTool := genkit.DefineTool(g, "queryItems",
		"List items from the user's wishlist. "+
			"All filters are optional: categoryId narrows to one category, status "+
			"is 'todo' or 'done' (defaults to todo), query is a free-text filter "+
			"matched against title, description, and location, and limit caps the "+
			"result count (default 50). Results are newest first. An empty list is "+
			"a normal outcome, not an error.",
		WithEvents("queryItems", k.QueryItems))

	toggleTool := genkit.DefineTool(g, "toggleItem",
		"Mark a wishlist item done, or back to todo. "+
			"Pass the item as the user referred to it in 'identifier'; it is "+
			"fuzzy-matched against stored titles, so partial names work. "+
			"Set newStatus explicitly to 'todo' or 'done', or omit it to flip the "+
			"item's current status.",
		WithEvents("toggleItem", k.ToggleItem))

	k.logger.Info("registered wishlist tools", "count", 3)
	return []ai.ToolRef{createTool, queryTool, toggleTool}, nil
}
