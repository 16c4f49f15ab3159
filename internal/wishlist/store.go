package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/wishkeep/wishkeep/internal/log"
)

// Querier is the subset of pgx operations the store needs. It is satisfied
// by *pgxpool.Pool and by pgx.Tx; interfaces are defined by the consumer,
// not the provider.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store manages wishlist persistence with a PostgreSQL backend.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	db     Querier
	logger log.Logger
}

// NewStore creates a Store on top of an open connection pool.
func NewStore(db Querier, logger log.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With("component", "wishlist"),
	}
}

const itemColumns = `id, owner_id, title, category_id, status, description,
	location, url, target_date, priority, note, created_at, updated_at`

// InsertItem stores a new item and returns it with its generated ID and
// timestamps. The item's OwnerID, Title, and CategoryID must be set; Status
// defaults to todo when empty.
func (s *Store) InsertItem(ctx context.Context, item Item) (Item, error) {
	if item.Status == "" {
		item.Status = StatusTodo
	}
	if !item.Status.Valid() {
		return Item{}, fmt.Errorf("%w: %q", ErrInvalidStatus, item.Status)
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO items (owner_id, title, category_id, status, description,
			location, url, target_date, priority, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+itemColumns,
		item.OwnerID, item.Title, item.CategoryID, item.Status,
		item.Description, item.Location, item.URL,
		targetDateToPgDate(item.TargetDate), item.Priority, item.Note,
	)

	inserted, err := scanItem(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return Item{}, fmt.Errorf("%w: %q", ErrInvalidCategory, item.CategoryID)
		}
		return Item{}, fmt.Errorf("failed to insert item: %w", err)
	}

	s.logger.Debug("inserted item",
		"item_id", inserted.ID, "owner_id", inserted.OwnerID, "category", inserted.CategoryID)
	return inserted, nil
}

// QueryItems returns the owner's items matching the filter, newest first.
func (s *Store) QueryItems(ctx context.Context, ownerID string, f Filter) ([]Item, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	var (
		where = []string{"owner_id = $1"}
		args  = []any{ownerID}
	)
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, f.Status)
		}
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s FROM items
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d`,
		itemColumns, strings.Join(where, " AND "), len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	s.logger.Debug("queried items", "owner_id", ownerID, "count", len(items))
	return items, nil
}

// UpdateItemStatus sets the status of the owner's item and returns the
// updated row. Returns ErrItemNotFound when the item does not exist or
// belongs to another owner.
func (s *Store) UpdateItemStatus(ctx context.Context, ownerID string, id uuid.UUID, status Status) (Item, error) {
	if !status.Valid() {
		return Item{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	row := s.db.QueryRow(ctx, `
		UPDATE items
		SET status = $1, updated_at = now()
		WHERE id = $2 AND owner_id = $3
		RETURNING `+itemColumns,
		status, uuidToPgUUID(id), ownerID,
	)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		return Item{}, fmt.Errorf("failed to update item status: %w", err)
	}

	s.logger.Debug("updated item status", "item_id", id, "owner_id", ownerID, "status", status)
	return item, nil
}

// ListCategories returns the category directory ordered for display.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name FROM categories ORDER BY display_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return categories, nil
}

// scanItem reads one item row in itemColumns order.
func scanItem(row pgx.Row) (Item, error) {
	var (
		item       Item
		id         pgtype.UUID
		targetDate pgtype.Date
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &item.OwnerID, &item.Title, &item.CategoryID, &item.Status,
		&item.Description, &item.Location, &item.URL, &targetDate,
		&item.Priority, &item.Note, &createdAt, &updatedAt,
	)
	if err != nil {
		return Item{}, err
	}

	item.ID = pgUUIDToUUID(id)
	if targetDate.Valid {
		t := targetDate.Time
		item.TargetDate = &t
	}
	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time
	return item, nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// uuidToPgUUID converts uuid.UUID to pgtype.UUID.
func uuidToPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{
		Bytes: id,
		Valid: true,
	}
}

// pgUUIDToUUID converts pgtype.UUID to uuid.UUID.
func pgUUIDToUUID(pgUUID pgtype.UUID) uuid.UUID {
	if !pgUUID.Valid {
		return uuid.Nil
	}
	return pgUUID.Bytes
}

func targetDateToPgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}
