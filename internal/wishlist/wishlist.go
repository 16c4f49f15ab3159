// Package wishlist provides PostgreSQL-backed persistence for wishlist items
// and the fixed category directory.
//
// All item operations are owner-scoped: the owner ID appears in every WHERE
// clause, so one user's items are structurally unreachable from another
// user's requests.
package wishlist

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrItemNotFound indicates no item matched the given ID for the owner.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidStatus indicates a status value outside todo/done.
	ErrInvalidStatus = errors.New("invalid item status")

	// ErrInvalidCategory indicates a category ID missing from the directory.
	ErrInvalidCategory = errors.New("invalid category")
)

// Status is the lifecycle state of a wishlist item.
type Status string

const (
	StatusTodo Status = "todo"
	StatusDone Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusDone
}

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusDone {
		return StatusTodo
	}
	return StatusDone
}

// Priority is the optional urgency marker on an item. Empty means unset.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority (including unset).
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Item is a single wishlist entry.
type Item struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	CategoryID  string     `json:"categoryId"`
	Status      Status     `json:"status"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	URL         string     `json:"url,omitempty"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Note        string     `json:"note,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Category is one entry of the fixed category directory.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Filter narrows a QueryItems call. Zero values mean "no constraint" except
// Limit, which callers should set; the store clamps non-positive limits to
// DefaultQueryLimit.
type Filter struct {
	// CategoryID restricts results to one category.
	CategoryID string

	// Status restricts results to one status. Empty means any status.
	Status Status

	// Search is a case-insensitive substring matched against title,
	// description, and location.
	Search string

	// Limit caps the number of returned items.
	Limit int32
}

// DefaultQueryLimit is used when a filter carries no positive limit.
const DefaultQueryLimit int32 = 50
