package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelterops/facility-checkins/internal/repository"
)

const (
	selectUserByName = "SELECT id, username, password_hash, scope, active, created_at, updated_at FROM users WHERE username=? COLLATE utf8mb4_bin LIMIT 1"
	selectUserByID   = "SELECT id, username, password_hash, scope, active, created_at, updated_at FROM users WHERE id=? LIMIT 1"
	selectRefresh    = "SELECT id, token, access_token, expires, user_id FROM refresh_tokens WHERE token=? LIMIT 1"
	insertAccess     = "INSERT INTO access_tokens (token, scope, expires, user_id) VALUES (?,?,?,?)"
	insertRefresh    = "INSERT INTO refresh_tokens (token, access_token, expires, user_id) VALUES (?,?,?,?)"
	deleteRefresh    = "DELETE FROM refresh_tokens WHERE token=?"
	deleteAccess     = "DELETE FROM access_tokens WHERE token=?"
)

func newService(t *testing.T) (*TokenService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := NewTokenService(repository.NewUserRepo(db), repository.NewTokenRepo(db),
		time.Hour, 7*24*time.Hour)
	return svc, mock
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func userRows(id uint64, username, hash, scope string, active bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "username", "password_hash", "scope", "active", "created_at", "updated_at"}).
		AddRow(id, username, hash, scope, active, now, now)
}

func expectPairInsert(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertAccess)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertRefresh)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
}

func TestPasswordGrantIssuesUserScope(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByName)).
		WithArgs("kathy").
		WillReturnRows(userRows(3, "kathy", hashOf(t, "s3cret"), "first:admin", true))
	expectPairInsert(mock)

	g, err := svc.PasswordGrant(context.Background(), "kathy", "s3cret", "")
	require.NoError(t, err)
	// no narrower scope requested: issued scope equals the user's own
	assert.Equal(t, "first:admin", g.Scope)
	assert.Equal(t, "bearer", g.TokenType)
	assert.Equal(t, int64(3600), g.ExpiresIn)
	assert.NotEmpty(t, g.AccessToken)
	assert.NotEmpty(t, g.RefreshToken)
	assert.NotEqual(t, g.AccessToken, g.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordGrantNarrowedScope(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByName)).
		WithArgs("kathy").
		WillReturnRows(userRows(3, "kathy", hashOf(t, "s3cret"), "first:admin", true))
	expectPairInsert(mock)

	g, err := svc.PasswordGrant(context.Background(), "kathy", "s3cret", "first:regular")
	require.NoError(t, err)
	assert.Equal(t, "first:regular", g.Scope)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordGrantScopeNotSubset(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByName)).
		WithArgs("kathy").
		WillReturnRows(userRows(3, "kathy", hashOf(t, "s3cret"), "first:regular", true))

	_, err := svc.PasswordGrant(context.Background(), "kathy", "s3cret", "first:admin")
	assert.ErrorIs(t, err, ErrInvalidScope)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordGrantUnknownUser(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByName)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "scope", "active", "created_at", "updated_at"}))

	_, err := svc.PasswordGrant(context.Background(), "ghost", "whatever", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordGrantWrongPassword(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByName)).
		WithArgs("kathy").
		WillReturnRows(userRows(3, "kathy", hashOf(t, "s3cret"), "first:admin", true))

	_, err := svc.PasswordGrant(context.Background(), "kathy", "wrong", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordGrantInactiveUser(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByName)).
		WithArgs("kathy").
		WillReturnRows(userRows(3, "kathy", hashOf(t, "s3cret"), "first:admin", false))

	_, err := svc.PasswordGrant(context.Background(), "kathy", "s3cret", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func refreshRows(id uint64, token, accessToken string, expires time.Time, userID uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "token", "access_token", "expires", "user_id"}).
		AddRow(id, token, accessToken, expires, userID)
}

func TestRefreshGrantRotates(t *testing.T) {
	svc, mock := newService(t)
	future := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(selectRefresh)).
		WithArgs("old-refresh").
		WillReturnRows(refreshRows(11, "old-refresh", "old-access", future, 3))
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
		WithArgs(uint64(3)).
		WillReturnRows(userRows(3, "kathy", "irrelevant", "first:admin", true))
	// rotation claims the old refresh row first, then removes the sibling
	mock.ExpectExec(regexp.QuoteMeta(deleteRefresh)).
		WithArgs("old-refresh").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteAccess)).
		WithArgs("old-access").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectPairInsert(mock)

	g, err := svc.RefreshGrant(context.Background(), "old-refresh", "")
	require.NoError(t, err)
	assert.Equal(t, "first:admin", g.Scope)
	assert.NotEqual(t, "old-access", g.AccessToken)
	assert.NotEqual(t, "old-refresh", g.RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshGrantLosesRace(t *testing.T) {
	svc, mock := newService(t)
	future := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(selectRefresh)).
		WithArgs("old-refresh").
		WillReturnRows(refreshRows(11, "old-refresh", "old-access", future, 3))
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
		WithArgs(uint64(3)).
		WillReturnRows(userRows(3, "kathy", "irrelevant", "first:admin", true))
	// another request already consumed the row: zero rows affected
	mock.ExpectExec(regexp.QuoteMeta(deleteRefresh)).
		WithArgs("old-refresh").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.RefreshGrant(context.Background(), "old-refresh", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshGrantUnknownToken(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectRefresh)).
		WithArgs("bogus").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "access_token", "expires", "user_id"}))

	_, err := svc.RefreshGrant(context.Background(), "bogus", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshGrantExpiredToken(t *testing.T) {
	svc, mock := newService(t)
	past := time.Now().UTC().Add(-time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(selectRefresh)).
		WithArgs("stale").
		WillReturnRows(refreshRows(11, "stale", "old-access", past, 3))

	_, err := svc.RefreshGrant(context.Background(), "stale", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshGrantInactiveUser(t *testing.T) {
	svc, mock := newService(t)
	future := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(selectRefresh)).
		WithArgs("old-refresh").
		WillReturnRows(refreshRows(11, "old-refresh", "old-access", future, 3))
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
		WithArgs(uint64(3)).
		WillReturnRows(userRows(3, "kathy", "irrelevant", "first:admin", false))

	_, err := svc.RefreshGrant(context.Background(), "old-refresh", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshGrantDanglingSibling(t *testing.T) {
	svc, mock := newService(t)
	future := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(selectRefresh)).
		WithArgs("old-refresh").
		WillReturnRows(refreshRows(11, "old-refresh", "gone-access", future, 3))
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).
		WithArgs(uint64(3)).
		WillReturnRows(userRows(3, "kathy", "irrelevant", "first:admin", true))
	mock.ExpectExec(regexp.QuoteMeta(deleteRefresh)).
		WithArgs("old-refresh").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// the back-referenced access row was already purged; the delete is a
	// harmless no-op and rotation still succeeds
	mock.ExpectExec(regexp.QuoteMeta(deleteAccess)).
		WithArgs("gone-access").
		WillReturnResult(sqlmock.NewResult(0, 0))
	expectPairInsert(mock)

	g, err := svc.RefreshGrant(context.Background(), "old-refresh", "")
	require.NoError(t, err)
	assert.Equal(t, "first:admin", g.Scope)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeDeletesPair(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteAccess)).
		WithArgs("acc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE access_token=?")).
		WithArgs("acc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Revoke(context.Background(), "acc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeAlreadyGoneIsNoop(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteAccess)).
		WithArgs("acc").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE access_token=?")).
		WithArgs("acc").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, svc.Revoke(context.Background(), "acc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeExpiredDelegates(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM access_tokens WHERE expires<=?")).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE expires<=?")).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
