package tools

import (
	"github.com/firebase/genkit/go/ai"

	"github.com/wishkeep/wishkeep/internal/wishlist"
)

// QueryItems handles the queryItems tool. An empty result set is a success:
// the model should tell the user the list is empty, not report a failure.
func (k *Kit) QueryItems(tctx *ai.ToolContext, in QueryItemsInput) (Result, error) {
	ctx := tctx.Context

	ownerID := OwnerIDFromContext(ctx)
	if ownerID == "" {
		return failure(nil, "no authenticated owner in request",
			"I could not determine whose wishlist to look at."), nil
	}

	if err := in.validate(); err != nil {
		return failure(nil, err.Error(), "That request was missing something: %v.", err), nil
	}

	status := wishlist.Status(in.Status)
	if status == "" {
		status = wishlist.StatusTodo
	}
	limit := in.Limit
	if limit == 0 {
		limit = wishlist.DefaultQueryLimit
	}

	items, err := k.store.QueryItems(ctx, ownerID, wishlist.Filter{
		CategoryID: in.CategoryID,
		Status:     status,
		Search:     in.Query,
		Limit:      limit,
	})
	if err != nil {
		k.logger.Error("query failed", "owner_id", ownerID, "error", err)
		return failure(nil, "store unavailable",
			"I could not read the wishlist right now. Please try again."), nil
	}

	data := map[string]any{
		"items": items,
		"count": len(items),
	}
	if len(items) == 0 {
		return success(data, "Nothing on the list matches that yet."), nil
	}
	return success(data, "Found %d item(s).", len(items)), nil
}
