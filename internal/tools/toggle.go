package tools

import (
	"github.com/firebase/genkit/go/ai"

	"github.com/wishkeep/wishkeep/internal/similarity"
	"github.com/wishkeep/wishkeep/internal/wishlist"
)

// ToggleItem handles the toggleItem tool. The identifier the user typed is
// fuzzy-matched against every stored title for the owner; the single best
// match above the resolve threshold wins. Without an explicit newStatus the
// matched item's status is flipped.
func (k *Kit) ToggleItem(tctx *ai.ToolContext, in ToggleItemInput) (Result, error) {
	ctx := tctx.Context

	ownerID := OwnerIDFromContext(ctx)
	if ownerID == "" {
		return failure(nil, "no authenticated owner in request",
			"I could not determine whose wishlist to update."), nil
	}

	if err := in.validate(); err != nil {
		return failure(nil, err.Error(), "That request was missing something: %v.", err), nil
	}

	// All statuses: the user may be reopening a done item.
	items, err := k.store.QueryItems(ctx, ownerID, wishlist.Filter{Limit: resolveScanLimit})
	if err != nil {
		k.logger.Error("item fetch failed", "owner_id", ownerID, "error", err)
		return failure(nil, "store unavailable",
			"I could not read the wishlist right now. Please try again."), nil
	}

	titles := make([]string, len(items))
	byTitle := make(map[string]wishlist.Item, len(items))
	for i, item := range items {
		titles[i] = item.Title
		// First seen wins on duplicate titles, matching BestMatch's
		// tie-keeping over the same order.
		if _, ok := byTitle[item.Title]; !ok {
			byTitle[item.Title] = item
		}
	}

	matchTitle, ok := similarity.BestMatch(in.Identifier, titles, k.resThreshold)
	if !ok {
		k.logger.Debug("no fuzzy match", "owner_id", ownerID, "identifier", in.Identifier)
		return failure(nil, "no matching item",
			"I could not find anything on the wishlist matching %q.", in.Identifier), nil
	}
	matched := byTitle[matchTitle]

	target := matched.Status.Toggled()
	if in.NewStatus != "" {
		target = wishlist.Status(in.NewStatus)
	}

	updated, err := k.store.UpdateItemStatus(ctx, ownerID, matched.ID, target)
	if err != nil {
		k.logger.Error("status update failed",
			"owner_id", ownerID, "item_id", matched.ID, "error", err)
		return failure(nil, "store unavailable",
			"I could not update %q right now. Please try again.", matched.Title), nil
	}

	verb := "reopened"
	if updated.Status == wishlist.StatusDone {
		verb = "marked done"
	}
	return success(
		map[string]any{
			"itemId":    updated.ID,
			"newStatus": updated.Status,
			"title":     updated.Title,
		},
		"%s: %q.", verb, updated.Title,
	), nil
}
