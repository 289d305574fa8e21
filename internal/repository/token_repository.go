package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shelterops/facility-checkins/internal/model"
)

// TokenRepo persists access and refresh token rows. Token values are opaque
// random strings stored as-is and indexed for direct lookup. The two tables
// carry no revoked flag: revocation is deletion, so a revoked token is
// indistinguishable from one never issued.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// FindAccessByToken returns the access token row for the given token value,
// or nil when no such row exists. Missing rows are not an error.
func (r *TokenRepo) FindAccessByToken(ctx context.Context, token string) (*model.AccessToken, error) {
	var t model.AccessToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, token, scope, expires, user_id FROM access_tokens WHERE token=? LIMIT 1",
		token).Scan(&t.ID, &t.Token, &t.Scope, &t.Expires, &t.UserID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindRefreshByToken returns the refresh token row for the given token
// value, or nil when no such row exists.
func (r *TokenRepo) FindRefreshByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, token, access_token, expires, user_id FROM refresh_tokens WHERE token=? LIMIT 1",
		token).Scan(&t.ID, &t.Token, &t.AccessToken, &t.Expires, &t.UserID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// InsertPair creates an access token row and its sibling refresh token row
// as one transaction. The refresh row's access_token column is set to the
// new access token's string value, the loose back-reference used during
// revocation and rotation. A uniqueness violation on either token string
// surfaces as ErrTokenCollision so the caller can retry with fresh strings.
func (r *TokenRepo) InsertPair(ctx context.Context, userID uint64, scope, access, refresh string, accessExp, refreshExp time.Time) (*model.AccessToken, *model.RefreshToken, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO access_tokens (token, scope, expires, user_id) VALUES (?,?,?,?)",
		access, scope, accessExp, userID)
	if err != nil {
		return nil, nil, asCollision(err)
	}
	accessID, err := res.LastInsertId()
	if err != nil {
		return nil, nil, err
	}

	res, err = tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (token, access_token, expires, user_id) VALUES (?,?,?,?)",
		refresh, access, refreshExp, userID)
	if err != nil {
		return nil, nil, asCollision(err)
	}
	refreshID, err := res.LastInsertId()
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	at := &model.AccessToken{ID: uint64(accessID), Token: access, Scope: scope, Expires: accessExp, UserID: userID}
	rt := &model.RefreshToken{ID: uint64(refreshID), Token: refresh, AccessToken: access, Expires: refreshExp, UserID: userID}
	return at, rt, nil
}

// DeleteAccess removes the access token row with the given token value.
// Deleting an absent row is a no-op.
func (r *TokenRepo) DeleteAccess(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM access_tokens WHERE token=?", token)
	return err
}

// DeleteRefresh removes the refresh token row with the given token value
// and reports whether a row was actually deleted. The rows-affected check
// is the storage-level mutual exclusion for single-use refresh tokens:
// under concurrent rotation of the same token exactly one caller sees true.
func (r *TokenRepo) DeleteRefresh(ctx context.Context, token string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE token=?", token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DeleteRefreshByAccessToken removes any refresh token row whose
// access_token back-reference equals the given access token string.
func (r *TokenRepo) DeleteRefreshByAccessToken(ctx context.Context, accessToken string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE access_token=?", accessToken)
	return err
}

// PurgeExpired deletes all access and refresh token rows whose expiry is at
// or before now, independently for each table, and returns the total number
// removed. Only rows already past expiry are touched, so purge may run
// concurrently with request traffic without corrupting a live rotation.
func (r *TokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	res, err := r.DB.ExecContext(ctx, "DELETE FROM access_tokens WHERE expires<=?", now)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err == nil {
		total += n
	}
	res, err = r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE expires<=?", now)
	if err != nil {
		return total, err
	}
	if n, err := res.RowsAffected(); err == nil {
		total += n
	}
	return total, nil
}

// asCollision maps a MySQL duplicate-key error (1062) on a token column to
// ErrTokenCollision; everything else passes through.
func asCollision(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrTokenCollision
	}
	return err
}
