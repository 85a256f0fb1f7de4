package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/storage"
)

// GetListAccess returns the owning user id and member user ids of a
// list, the minimal projection the authorization check needs.
func (s *SQLiteStore) GetListAccess(ctx context.Context, listID int64) (int64, []int64, error) {
	var ownerID int64
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id FROM lists WHERE id = ?", listID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 0, nil, storage.NotFound("list", listID)
	}
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get list owner: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM memberships WHERE list_id = ?", listID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get list members: %w", err)
	}
	defer rows.Close()

	var memberIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		memberIDs = append(memberIDs, id)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("error iterating members: %w", err)
	}
	return ownerID, memberIDs, nil
}

// CreateList persists a list together with its initial items and
// memberships in one transaction.
func (s *SQLiteStore) CreateList(ctx context.Context, ownerID int64, fields storage.ListFields, items []storage.ItemFields, memberIDs []int64) (*models.List, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO lists (title, description, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		fields.Title, fields.Description, ownerID, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to insert list: %w", err)
	}
	listID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read list id: %w", err)
	}

	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO list_items (list_id, title, amount, status, created_at, updated_at) VALUES (?, ?, ?, 0, ?, ?)",
			listID, item.Title, item.Amount, ts, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to insert item: %w", err)
		}
	}

	for _, userID := range memberIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO memberships (list_id, user_id, created_at) VALUES (?, ?, ?)",
			listID, userID, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to insert membership: %w", err)
		}
	}

	list, err := getList(ctx, tx, listID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return list, nil
}

// GetList retrieves a list with its full nested projection.
func (s *SQLiteStore) GetList(ctx context.Context, listID int64) (*models.List, error) {
	return getList(ctx, s.db, listID)
}

// getList loads the full projection (owner, members, items) through
// the given querier so it works inside and outside transactions.
func getList(ctx context.Context, q querier, listID int64) (*models.List, error) {
	list := &models.List{Owner: &models.User{}}
	err := q.QueryRowContext(ctx, `
		SELECT l.id, l.title, l.description, l.user_id, l.created_at, l.updated_at,
		       u.id, u.email, u.username, u.first_name, u.last_name, u.created_at, u.updated_at
		FROM lists l
		JOIN users u ON u.id = l.user_id
		WHERE l.id = ?`, listID,
	).Scan(
		&list.ID, &list.Title, &list.Description, &list.OwnerID, &list.CreatedAt, &list.UpdatedAt,
		&list.Owner.ID, &list.Owner.Email, &list.Owner.Username, &list.Owner.FirstName,
		&list.Owner.LastName, &list.Owner.CreatedAt, &list.Owner.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.NotFound("list", listID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	members, err := listMembers(ctx, q, listID)
	if err != nil {
		return nil, err
	}
	list.Members = members

	items, err := listItems(ctx, q, listID)
	if err != nil {
		return nil, err
	}
	list.Items = items

	return list, nil
}

// UpdateList applies a partial update and returns the full updated
// projection.
func (s *SQLiteStore) UpdateList(ctx context.Context, listID int64, upd storage.ListUpdate) (*models.List, error) {
	sets := []string{"updated_at = ?"}
	args := []any{now()}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	args = append(args, listID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE lists SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, storage.NotFound("list", listID)
	}

	return getList(ctx, s.db, listID)
}

// DeleteList removes a list (items and memberships cascade) and
// returns the pre-delete snapshot.
func (s *SQLiteStore) DeleteList(ctx context.Context, listID int64) (*models.List, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	list, err := getList(ctx, tx, listID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", listID); err != nil {
		return nil, fmt.Errorf("failed to delete list: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return list, nil
}

// buildListPredicate translates a ListQuery into a WHERE clause over
// the lists table (aliased l) and its arguments.
func buildListPredicate(q storage.ListQuery) (string, []any) {
	var conds []string
	var args []any

	switch q.Scope {
	case storage.ScopeOwned:
		conds = append(conds, "l.user_id = ?")
		args = append(args, q.UserID)
	case storage.ScopeMember:
		conds = append(conds, "EXISTS (SELECT 1 FROM memberships m WHERE m.list_id = l.id AND m.user_id = ?)")
		args = append(args, q.UserID)
	case storage.ScopeAccessor:
		conds = append(conds, "(l.user_id = ? OR EXISTS (SELECT 1 FROM memberships m WHERE m.list_id = l.id AND m.user_id = ?))")
		args = append(args, q.UserID, q.UserID)
	}

	switch q.Activity {
	case storage.ActivityActive:
		conds = append(conds, "EXISTS (SELECT 1 FROM list_items i WHERE i.list_id = l.id AND i.status = 0)")
	case storage.ActivityHistory:
		conds = append(conds, "NOT EXISTS (SELECT 1 FROM list_items i WHERE i.list_id = l.id AND i.status = 0)")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// CountAndListLists returns the total match count and the matching
// lists ordered by creation time descending. Count and page rows run
// inside one transaction so they reflect the same snapshot.
func (s *SQLiteStore) CountAndListLists(ctx context.Context, q storage.ListQuery) (int, []*models.List, error) {
	where, args := buildListPredicate(q)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM lists l"+where, args...).Scan(&count); err != nil {
		return 0, nil, fmt.Errorf("failed to count lists: %w", err)
	}

	pageQuery := "SELECT l.id FROM lists l" + where + " ORDER BY l.created_at DESC, l.id DESC"
	pageArgs := args
	if q.Page != nil {
		pageQuery += " LIMIT ? OFFSET ?"
		pageArgs = append(append([]any{}, args...), q.Page.Limit, q.Page.Offset())
	}

	rows, err := tx.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list lists: %w", err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, nil, fmt.Errorf("failed to scan list id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("error iterating lists: %w", err)
	}

	lists := make([]*models.List, 0, len(ids))
	for _, id := range ids {
		list, err := getList(ctx, tx, id)
		if err != nil {
			return 0, nil, err
		}
		lists = append(lists, list)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return count, lists, nil
}
