// Package service implements the token lifecycle: issuing, rotating and
// revoking access/refresh token pairs. Policy lives here; the repositories
// below it only move rows.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/shelterops/facility-checkins/internal/auth"
	"github.com/shelterops/facility-checkins/internal/repository"
	"github.com/shelterops/facility-checkins/internal/utils"
)

var (
	// ErrUserNotFound is returned by the password grant when no user with
	// the given username exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnauthorized covers every credential failure: wrong password,
	// inactive user, unknown or expired refresh token, and losing a
	// concurrent rotation race. Callers translate it to HTTP 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidScope is returned when a grant requests a scope that is not
	// a subset of the one the user (or the rotated token) holds.
	ErrInvalidScope = errors.New("requested scope not a subset of granted scope")
)

const (
	accessTokenBytes  = 32
	refreshTokenBytes = 48

	// pairInsertRetries bounds retries on token-string collisions. With
	// crypto/rand strings this never triggers in practice; the bound keeps
	// a broken random source from looping forever.
	pairInsertRetries = 3
)

// TokenService issues, rotates and revokes access/refresh token pairs. It
// is constructed once at process start and passed by reference to the
// middleware and handlers; there is no process-wide instance.
type TokenService struct {
	Users      *repository.UserRepo
	Tokens     *repository.TokenRepo
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewTokenService(users *repository.UserRepo, tokens *repository.TokenRepo, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{Users: users, Tokens: tokens, AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

// Grant is the successful result of either grant type.
type Grant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// PasswordGrant exchanges a username and password for a fresh token pair.
// The issued scope is the user's own scope, or the requested one when it
// narrows the user's scope. The scope is stamped onto the access token row
// at issuance and never re-read, so later changes to the user do not affect
// tokens already out.
func (s *TokenService) PasswordGrant(ctx context.Context, username, password, requestedScope string) (*Grant, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.Active || !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrUnauthorized
	}
	scope, err := resolveScope(u.Scope, requestedScope)
	if err != nil {
		return nil, err
	}
	return s.issuePair(ctx, u.ID, scope)
}

// RefreshGrant rotates a refresh token: the old pair is deleted and a new
// one issued. The conditional delete on the refresh row makes rotation
// single-use: under concurrent attempts against the same token exactly one
// caller proceeds and every other observes ErrUnauthorized.
func (s *TokenService) RefreshGrant(ctx context.Context, refreshToken, requestedScope string) (*Grant, error) {
	rt, err := s.Tokens.FindRefreshByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if rt == nil || !rt.Expires.After(time.Now().UTC()) {
		return nil, ErrUnauthorized
	}

	u, err := s.Users.GetByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !u.Active {
		return nil, ErrUnauthorized
	}

	// Rotation issues a brand-new pair, so the user's current scope is the
	// ceiling, exactly as in the password grant.
	scope, err := resolveScope(u.Scope, requestedScope)
	if err != nil {
		return nil, err
	}

	// Claim the refresh token. Rows-affected decides the race; the loser
	// of a concurrent rotation sees false here and fails closed.
	claimed, err := s.Tokens.DeleteRefresh(ctx, rt.Token)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrUnauthorized
	}

	// The back-referenced access token may already be gone (revoked or
	// purged); deletion tolerates that.
	if err := s.Tokens.DeleteAccess(ctx, rt.AccessToken); err != nil {
		return nil, err
	}

	return s.issuePair(ctx, u.ID, scope)
}

// Revoke deletes the access token row and any refresh token paired with it
// via the access-token string back-reference. Revoking an already-gone
// token is a no-op here; the enclosing request has already proven the token
// was live when it passed the authorization middleware.
func (s *TokenService) Revoke(ctx context.Context, accessToken string) error {
	if err := s.Tokens.DeleteAccess(ctx, accessToken); err != nil {
		return err
	}
	return s.Tokens.DeleteRefreshByAccessToken(ctx, accessToken)
}

// PurgeExpired removes all token rows past expiry and reports how many were
// deleted. Exposed for periodic administrative invocation.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.Tokens.PurgeExpired(ctx, time.Now().UTC())
}

// issuePair generates fresh random token strings and stores both rows in
// one transaction, retrying with new strings on the (negligible) chance of
// a collision.
func (s *TokenService) issuePair(ctx context.Context, userID uint64, scope string) (*Grant, error) {
	now := time.Now().UTC()
	accessExp := now.Add(s.AccessTTL)
	refreshExp := now.Add(s.RefreshTTL)

	var insertErr error
	for i := 0; i < pairInsertRetries; i++ {
		access, err := utils.RandomToken(accessTokenBytes)
		if err != nil {
			return nil, err
		}
		refresh, err := utils.RandomToken(refreshTokenBytes)
		if err != nil {
			return nil, err
		}
		at, _, err := s.Tokens.InsertPair(ctx, userID, scope, access, refresh, accessExp, refreshExp)
		if err == nil {
			return &Grant{
				AccessToken:  at.Token,
				RefreshToken: refresh,
				Scope:        scope,
				ExpiresIn:    int64(s.AccessTTL / time.Second),
				TokenType:    "bearer",
			}, nil
		}
		insertErr = err
		if !errors.Is(err, repository.ErrTokenCollision) {
			break
		}
	}
	return nil, insertErr
}

// resolveScope applies optional grant-time narrowing: empty request keeps
// the granted scope, anything else must be a subset of it.
func resolveScope(granted, requested string) (string, error) {
	if requested == "" {
		return granted, nil
	}
	if !auth.Narrows(requested, granted) {
		return "", ErrInvalidScope
	}
	return requested, nil
}
