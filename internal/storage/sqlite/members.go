package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/storage"
)

const memberColumns = "u.id, u.email, u.username, u.first_name, u.last_name, u.created_at, u.updated_at"

// listMembers loads the public projections of a list's members.
func listMembers(ctx context.Context, q querier, listID int64) ([]*models.User, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+memberColumns+`
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.list_id = ?
		ORDER BY u.id`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []*models.User{}
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Username,
			&user.FirstName,
			&user.LastName,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}

// AddMembers inserts membership pairs, skipping duplicates through the
// composite primary key. Two concurrent adds of the same pair resolve
// to one row without an error.
func (s *SQLiteStore) AddMembers(ctx context.Context, listID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	for _, userID := range userIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO memberships (list_id, user_id, created_at) VALUES (?, ?, ?)",
			listID, userID, ts)
		if err != nil {
			return fmt.Errorf("failed to insert membership: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership by its composite key and returns
// the removed member's public projection.
func (s *SQLiteStore) RemoveMember(ctx context.Context, listID, userID int64) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	user := &models.User{}
	err = tx.QueryRowContext(ctx, `
		SELECT `+memberColumns+`
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.list_id = ? AND m.user_id = ?`, listID, userID,
	).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.NotFound("membership", fmt.Sprintf("%d/%d", listID, userID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM memberships WHERE list_id = ? AND user_id = ?", listID, userID); err != nil {
		return nil, fmt.Errorf("failed to delete membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return user, nil
}

// ListMembers returns the public projections of a list's members.
func (s *SQLiteStore) ListMembers(ctx context.Context, listID int64) ([]*models.User, error) {
	return listMembers(ctx, s.db, listID)
}
