package model

import "time"

// AccessToken models a row in the `access_tokens` table: a short-lived
// bearer credential. The token value is an opaque random string, globally
// unique and indexed for direct lookup. Scope is copied from the issuing
// user at grant time and is not re-read afterwards, so changing a user's
// scope never retroactively affects tokens already issued.
//
// Rows are deleted on revocation, on replacement during refresh rotation,
// or by the periodic purge of expired rows. There is no revoked flag: a
// revoked token is indistinguishable from one that never existed.
type AccessToken struct {
	ID      uint64    // access_tokens.id
	Token   string    // access_tokens.token (unique)
	Scope   string    // access_tokens.scope (stamped at issuance)
	Expires time.Time // access_tokens.expires
	UserID  uint64    // access_tokens.user_id
}

// RefreshToken models a row in the `refresh_tokens` table: a long-lived
// credential used only to mint a new access/refresh pair.
//
// AccessToken holds the token *string* of the access token issued in the
// same grant, not its numeric id. It is a non-enforced lookup key used to
// find the sibling row during revocation and rotation; the referenced row
// may already be gone, and callers must tolerate that.
type RefreshToken struct {
	ID          uint64    // refresh_tokens.id
	Token       string    // refresh_tokens.token (unique)
	AccessToken string    // refresh_tokens.access_token (sibling's token string)
	Expires     time.Time // refresh_tokens.expires
	UserID      uint64    // refresh_tokens.user_id
}
