package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*TokenRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTokenRepo(db), mock
}

func TestTokenRepoFindAccessByToken(t *testing.T) {
	repo, mock := newMock(t)
	exp := time.Now().UTC().Add(time.Hour).Truncate(time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, token, scope, expires, user_id FROM access_tokens WHERE token=? LIMIT 1")).
		WithArgs("tok-abc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "scope", "expires", "user_id"}).
			AddRow(7, "tok-abc", "first:admin", exp, 3))

	got, err := repo.FindAccessByToken(context.Background(), "tok-abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(7), got.ID)
	assert.Equal(t, "first:admin", got.Scope)
	assert.Equal(t, uint64(3), got.UserID)
	assert.True(t, exp.Equal(got.Expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoFindAccessByTokenMissing(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, token, scope, expires, user_id FROM access_tokens WHERE token=? LIMIT 1")).
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "scope", "expires", "user_id"}))

	got, err := repo.FindAccessByToken(context.Background(), "unknown")
	require.NoError(t, err) // absent is a nil result, never an error
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoFindRefreshByToken(t *testing.T) {
	repo, mock := newMock(t)
	exp := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, token, access_token, expires, user_id FROM refresh_tokens WHERE token=? LIMIT 1")).
		WithArgs("rtok").
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "access_token", "expires", "user_id"}).
			AddRow(11, "rtok", "tok-abc", exp, 3))

	got, err := repo.FindRefreshByToken(context.Background(), "rtok")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tok-abc", got.AccessToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoInsertPair(t *testing.T) {
	repo, mock := newMock(t)
	accessExp := time.Now().UTC().Add(time.Hour)
	refreshExp := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO access_tokens (token, scope, expires, user_id) VALUES (?,?,?,?)")).
		WithArgs("acc", "first:regular", accessExp, uint64(3)).
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO refresh_tokens (token, access_token, expires, user_id) VALUES (?,?,?,?)")).
		WithArgs("ref", "acc", refreshExp, uint64(3)).
		WillReturnResult(sqlmock.NewResult(22, 1))
	mock.ExpectCommit()

	at, rt, err := repo.InsertPair(context.Background(), 3, "first:regular", "acc", "ref", accessExp, refreshExp)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), at.ID)
	assert.Equal(t, "first:regular", at.Scope)
	assert.Equal(t, uint64(22), rt.ID)
	// the refresh row back-references the sibling's token string
	assert.Equal(t, "acc", rt.AccessToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoInsertPairCollision(t *testing.T) {
	repo, mock := newMock(t)
	accessExp := time.Now().UTC().Add(time.Hour)
	refreshExp := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO access_tokens (token, scope, expires, user_id) VALUES (?,?,?,?)")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'acc' for key 'access_tokens.token'"))
	mock.ExpectRollback()

	_, _, err := repo.InsertPair(context.Background(), 3, "first:regular", "acc", "ref", accessExp, refreshExp)
	assert.ErrorIs(t, err, ErrTokenCollision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoDeleteRefreshClaims(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE token=?")).
		WithArgs("rtok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	claimed, err := repo.DeleteRefresh(context.Background(), "rtok")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoDeleteRefreshAlreadyGone(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE token=?")).
		WithArgs("rtok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.DeleteRefresh(context.Background(), "rtok")
	require.NoError(t, err)
	// losing side of a concurrent rotation: no row affected, no claim
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoDeleteRefreshByAccessToken(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE access_token=?")).
		WithArgs("acc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteRefreshByAccessToken(context.Background(), "acc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoPurgeExpired(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM access_tokens WHERE expires<=?")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE expires<=?")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.PurgeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoPurgeExpiredNothingToDo(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM access_tokens WHERE expires<=?")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE expires<=?")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.PurgeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
