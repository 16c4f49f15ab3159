package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/wishkeep/wishkeep/internal/wishlist"
)

// dateLayout is the wire format for target dates.
const dateLayout = "2006-01-02"

// CreateItemInput defines input for the createItem tool.
type CreateItemInput struct {
	Title       string `json:"title" jsonschema_description:"The item title, e.g. a book name or restaurant name"`
	CategoryID  string `json:"categoryId" jsonschema_description:"Category ID from the category directory, e.g. 'books' or 'restaurants'"`
	Description string `json:"description,omitempty" jsonschema_description:"Optional free-form description"`
	Location    string `json:"location,omitempty" jsonschema_description:"Optional place, e.g. a city or neighborhood"`
	URL         string `json:"url,omitempty" jsonschema_description:"Optional related link"`
	TargetDate  string `json:"targetDate,omitempty" jsonschema_description:"Optional target date in YYYY-MM-DD format"`
	Priority    string `json:"priority,omitempty" jsonschema_description:"Optional priority: low, medium, or high"`
	Note        string `json:"note,omitempty" jsonschema_description:"Optional personal note"`
}

// validate checks the input before any store access.
func (in *CreateItemInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return fmt.Errorf("categoryId is required")
	}
	if !wishlist.Priority(in.Priority).Valid() {
		return fmt.Errorf("priority must be low, medium, or high, got %q", in.Priority)
	}
	if in.TargetDate != "" {
		if _, err := time.Parse(dateLayout, in.TargetDate); err != nil {
			return fmt.Errorf("targetDate must be in YYYY-MM-DD format, got %q", in.TargetDate)
		}
	}
	return nil
}

// targetDate returns the parsed target date, or nil when unset.
// validate must have passed first.
func (in *CreateItemInput) targetDate() *time.Time {
	if in.TargetDate == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, in.TargetDate)
	if err != nil {
		return nil
	}
	return &t
}

// QueryItemsInput defines input for the queryItems tool.
type QueryItemsInput struct {
	CategoryID string `json:"categoryId,omitempty" jsonschema_description:"Optional category ID to filter by"`
	Status     string `json:"status,omitempty" jsonschema_description:"Optional status filter: todo or done (default: todo)"`
	Query      string `json:"query,omitempty" jsonschema_description:"Optional free-text filter matched against title, description, and location"`
	Limit      int32  `json:"limit,omitempty" jsonschema_description:"Maximum items to return (default: 50)"`
}

func (in *QueryItemsInput) validate() error {
	if in.Status != "" && !wishlist.Status(in.Status).Valid() {
		return fmt.Errorf("status must be todo or done, got %q", in.Status)
	}
	if in.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", in.Limit)
	}
	return nil
}

// ToggleItemInput defines input for the toggleItem tool.
type ToggleItemInput struct {
	Identifier string `json:"identifier" jsonschema_description:"The item to toggle, as the user referred to it; fuzzy-matched against stored titles"`
	NewStatus  string `json:"newStatus,omitempty" jsonschema_description:"Optional explicit target status: todo or done. Omit to flip the current status"`
}

func (in *ToggleItemInput) validate() error {
	if strings.TrimSpace(in.Identifier) == "" {
		return fmt.Errorf("identifier is required")
	}
	if in.NewStatus != "" && !wishlist.Status(in.NewStatus).Valid() {
		return fmt.Errorf("newStatus must be todo or done, got %q", in.NewStatus)
	}
	return nil
}
