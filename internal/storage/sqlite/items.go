package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/storage"
)

const itemColumns = "id, list_id, title, amount, status, created_at, updated_at"

func scanItem(row interface{ Scan(...any) error }) (*models.ListItem, error) {
	item := &models.ListItem{}
	err := row.Scan(
		&item.ID,
		&item.ListID,
		&item.Title,
		&item.Amount,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// listItems loads all items of a list ordered by creation.
func listItems(ctx context.Context, q querier, listID int64) ([]*models.ListItem, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM list_items WHERE list_id = ? ORDER BY id", listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	items := []*models.ListItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

// CreateListItem adds an open item to a list.
func (s *SQLiteStore) CreateListItem(ctx context.Context, listID int64, fields storage.ItemFields) (*models.ListItem, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM lists WHERE id = ?)", listID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check list: %w", err)
	}
	if !exists {
		return nil, storage.NotFound("list", listID)
	}

	ts := now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO list_items (list_id, title, amount, status, created_at, updated_at) VALUES (?, ?, ?, 0, ?, ?)",
		listID, fields.Title, fields.Amount, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}

	itemID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read item id: %w", err)
	}

	return &models.ListItem{
		ID:        itemID,
		ListID:    listID,
		Title:     fields.Title,
		Amount:    fields.Amount,
		Status:    false,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

// UpdateListItem applies a partial update to an item scoped by its
// parent list.
func (s *SQLiteStore) UpdateListItem(ctx context.Context, listID, itemID int64, upd storage.ItemUpdate) (*models.ListItem, error) {
	sets := []string{"updated_at = ?"}
	args := []any{now()}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *upd.Amount)
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	args = append(args, itemID, listID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE list_items SET "+strings.Join(sets, ", ")+" WHERE id = ? AND list_id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, storage.NotFound("list item", itemID)
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM list_items WHERE id = ?", itemID)
	item, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get updated item: %w", err)
	}
	return item, nil
}

// DeleteListItem removes an item and returns the pre-delete snapshot.
func (s *SQLiteStore) DeleteListItem(ctx context.Context, listID, itemID int64) (*models.ListItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM list_items WHERE id = ? AND list_id = ?", itemID, listID)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, storage.NotFound("list item", itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM list_items WHERE id = ?", itemID); err != nil {
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return item, nil
}

// CountListItems returns the number of items on a list.
func (s *SQLiteStore) CountListItems(ctx context.Context, listID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM list_items WHERE list_id = ?", listID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
