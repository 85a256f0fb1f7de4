package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/storage"
)

const userColumns = "id, email, username, first_name, last_name, password_hash, role, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user and populates its ID and timestamps.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, username, first_name, last_name, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Email,
		user.Username,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil // user not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil // user not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetUsersByIDs retrieves multiple users by their IDs. Users that don't
// exist are omitted from the result.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	users := make(map[int64]*models.User)
	if len(ids) == 0 {
		return users, nil
	}

	query := "SELECT " + userColumns + " FROM users WHERE id IN (" + placeholders(len(ids)) + ")"
	rows, err := s.db.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// CountAndListUsers returns the total match count and one page of
// public user projections. Both queries run inside one transaction so
// count and rows reflect the same snapshot.
func (s *SQLiteStore) CountAndListUsers(ctx context.Context, q storage.UserQuery) (int, []*models.User, error) {
	var conds []string
	var args []any

	if q.Search != "" {
		conds = append(conds,
			"(email LIKE '%' || ? || '%' OR username LIKE '%' || ? || '%' OR first_name LIKE '%' || ? || '%' OR last_name LIKE '%' || ? || '%')")
		args = append(args, q.Search, q.Search, q.Search, q.Search)
	}
	if len(q.ExcludeIDs) > 0 {
		conds = append(conds, "id NOT IN ("+placeholders(len(q.ExcludeIDs))+")")
		args = append(args, int64Args(q.ExcludeIDs)...)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&count); err != nil {
		return 0, nil, fmt.Errorf("failed to count users: %w", err)
	}

	pageArgs := append(append([]any{}, args...), q.Page.Limit, q.Page.Offset())
	rows, err := tx.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users"+where+" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		pageArgs...)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user.Public())
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("error iterating users: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return count, users, nil
}
