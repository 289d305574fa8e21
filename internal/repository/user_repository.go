package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelterops/facility-checkins/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, username, password_hash, scope, active, created_at, updated_at"

// GetByUsername fetches a user by exact username (case-sensitive).
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? COLLATE utf8mb4_bin LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Scope, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Scope, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns users matching an optional username wildcard, newest last.
func (r *UserRepo) List(ctx context.Context, username string, limit, offset int) ([]model.User, error) {
	q := "SELECT " + userCols + " FROM users"
	var args []any
	if username != "" {
		q += " WHERE username LIKE ?"
		args = append(args, "%"+username+"%")
	}
	q += " ORDER BY username LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Scope, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create inserts a user with an already-hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash, scope string, active bool) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, scope, active) VALUES (?,?,?,?)",
		username, passwordHash, scope, active)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update mutates the administrator-editable fields (scope, active flag and
// optionally the password hash when non-empty).
func (r *UserRepo) Update(ctx context.Context, id uint64, scope string, active bool, passwordHash string) error {
	var err error
	if passwordHash != "" {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET scope=?, active=?, password_hash=? WHERE id=?",
			scope, active, passwordHash, id)
	} else {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE users SET scope=?, active=? WHERE id=?",
			scope, active, id)
	}
	return err
}

// Delete removes a user and, in the same transaction, every token row the
// user owns. The cascade keeps orphaned credentials from outliving their
// identity.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM access_tokens WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
