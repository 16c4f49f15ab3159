package tools

import (
	"strings"

	"github.com/firebase/genkit/go/ai"

	"github.com/wishkeep/wishkeep/internal/similarity"
	"github.com/wishkeep/wishkeep/internal/wishlist"
)

// resolveScanLimit caps how many existing items are loaded when matching
// titles for duplicate detection and fuzzy resolution.
const resolveScanLimit int32 = 1000

// CreateItem handles the createItem tool. Before inserting it checks the
// owner's open items in the same category for near-duplicate titles; any hit
// refuses the insert and returns the similar titles so the model can ask the
// user to confirm.
func (k *Kit) CreateItem(tctx *ai.ToolContext, in CreateItemInput) (Result, error) {
	ctx := tctx.Context

	ownerID := OwnerIDFromContext(ctx)
	if ownerID == "" {
		return failure(nil, "no authenticated owner in request",
			"I could not determine whose wishlist to add to."), nil
	}

	if err := in.validate(); err != nil {
		return failure(nil, err.Error(), "That request was missing something: %v.", err), nil
	}

	existing, err := k.store.QueryItems(ctx, ownerID, wishlist.Filter{
		CategoryID: in.CategoryID,
		Status:     wishlist.StatusTodo,
		Limit:      resolveScanLimit,
	})
	if err != nil {
		k.logger.Error("duplicate check failed", "owner_id", ownerID, "error", err)
		return failure(nil, "store unavailable",
			"I could not check the wishlist right now. Please try again."), nil
	}

	titles := make([]string, len(existing))
	byTitle := make(map[string]wishlist.Item, len(existing))
	for i, item := range existing {
		titles[i] = item.Title
		byTitle[item.Title] = item
	}

	if similar := similarity.AllAboveThreshold(in.Title, titles, k.dupThreshold); len(similar) > 0 {
		similarItems := make([]wishlist.Item, len(similar))
		for i, title := range similar {
			similarItems[i] = byTitle[title]
		}
		k.logger.Debug("duplicate guard triggered",
			"owner_id", ownerID, "title", in.Title, "matches", len(similar))
		return failure(
			map[string]any{"similarItems": similarItems},
			"similar items already exist",
			"You already have similar items in this category: %s. Do you still want to add %q?",
			strings.Join(similar, ", "), in.Title,
		), nil
	}

	item, err := k.store.InsertItem(ctx, wishlist.Item{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		CategoryID:  in.CategoryID,
		Status:      wishlist.StatusTodo,
		Description: in.Description,
		Location:    in.Location,
		URL:         in.URL,
		TargetDate:  in.targetDate(),
		Priority:    wishlist.Priority(in.Priority),
		Note:        in.Note,
	})
	if err != nil {
		k.logger.Error("insert failed", "owner_id", ownerID, "error", err)
		return failure(nil, "store unavailable",
			"I could not save the item right now. Please try again."), nil
	}

	return success(
		map[string]any{"itemId": item.ID, "item": item},
		"Added %q to the wishlist.", item.Title,
	), nil
}
