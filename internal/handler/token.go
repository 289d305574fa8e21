package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shelterops/facility-checkins/internal/middleware"
	"github.com/shelterops/facility-checkins/internal/service"
	"github.com/shelterops/facility-checkins/internal/web/response"
)

// TokenHandler exposes the token acquisition, revocation and purge
// endpoints. Grant requests arrive on a fixed path without a pre-existing
// token; revocation runs behind the authorization middleware and operates
// on the token the middleware attached, never a client-supplied body.
type TokenHandler struct {
	Service *service.TokenService
}

func NewTokenHandler(s *service.TokenService) *TokenHandler {
	return &TokenHandler{Service: s}
}

type grantReq struct {
	GrantType    string `json:"grant_type"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// Grant handles POST /v1/oauth/token for both supported grant types.
func (h *TokenHandler) Grant(c echo.Context) error {
	var req grantReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "token.grant")
	}

	switch req.GrantType {
	case "password":
		if req.Username == "" || req.Password == "" {
			return response.Error(c, http.StatusBadRequest, "username and password are required", "token.grant.password")
		}
		g, err := h.Service.PasswordGrant(c.Request().Context(), req.Username, req.Password, req.Scope)
		if err != nil {
			return grantError(c, err, "token.grant.password")
		}
		return c.JSON(http.StatusOK, g)

	case "refresh_token":
		if req.RefreshToken == "" {
			return response.Error(c, http.StatusBadRequest, "refresh_token is required", "token.grant.refresh")
		}
		g, err := h.Service.RefreshGrant(c.Request().Context(), req.RefreshToken, req.Scope)
		if err != nil {
			return grantError(c, err, "token.grant.refresh")
		}
		return c.JSON(http.StatusOK, g)
	}

	return response.Error(c, http.StatusBadRequest, "Unsupported grant type", "token.grant")
}

// Revoke handles DELETE /v1/oauth/token. The authorization middleware has
// already established that the presented token was live, so a 401 here
// means the caller never got past it.
func (h *TokenHandler) Revoke(c echo.Context) error {
	tok := middleware.TokenFrom(c)
	if tok == nil {
		return response.Error(c, http.StatusUnauthorized, "Invalid or expired access token", "token.revoke")
	}
	if err := h.Service.Revoke(c.Request().Context(), tok.Token); err != nil {
		return response.Error(c, http.StatusInternalServerError, "Revocation failed", "token.revoke")
	}
	return c.NoContent(http.StatusNoContent)
}

// Purge handles POST /v1/oauth/purge (superuser only): bulk deletion of
// expired token rows, for periodic maintenance invocation.
func (h *TokenHandler) Purge(c echo.Context) error {
	n, err := h.Service.PurgeExpired(c.Request().Context())
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "Purge failed", "token.purge")
	}
	return c.JSON(http.StatusOK, map[string]int64{"purged": n})
}

// grantError maps lifecycle sentinels onto statuses: unknown user 404,
// credential failures 401, bad narrowing 400, anything else 500 with the
// persistence detail kept out of the body.
func grantError(c echo.Context, err error, context string) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return response.Error(c, http.StatusNotFound, "User not found", context)
	case errors.Is(err, service.ErrUnauthorized):
		return response.Error(c, http.StatusUnauthorized, "Invalid credentials", context)
	case errors.Is(err, service.ErrInvalidScope):
		return response.Error(c, http.StatusBadRequest, "Requested scope exceeds granted scope", context)
	}
	return response.Error(c, http.StatusInternalServerError, "Unexpected server error", context)
}
