// Package middleware provides the per-request authorization gate and the
// grant-endpoint rate limiter.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shelterops/facility-checkins/internal/auth"
	"github.com/shelterops/facility-checkins/internal/model"
	"github.com/shelterops/facility-checkins/internal/repository"
	"github.com/shelterops/facility-checkins/internal/web/response"
)

// Context keys under which the resolved credential is attached for
// downstream handlers. The revoke endpoint reads the token to know exactly
// which row to delete.
const (
	ContextAccessToken = "access_token"
	ContextUserID      = "auth_user_id"
	ContextFacility    = "auth_facility"
)

// Authorizer gates protected routes. It authenticates by resolving the
// bearer token against the store and authorizes by matching the route's
// declared level against the token's scope. Stateless per request.
type Authorizer struct {
	Tokens     *repository.TokenRepo
	Facilities *repository.FacilityRepo
}

func NewAuthorizer(tokens *repository.TokenRepo, facilities *repository.FacilityRepo) *Authorizer {
	return &Authorizer{Tokens: tokens, Facilities: facilities}
}

// Require returns middleware enforcing the given access level. For
// LevelRegular and LevelAdmin the target facility is resolved from the
// :facilityId path parameter and its scope column is what the token scope
// must match.
//
// Failure distinction, deliberate: a request that presents nothing gets
// 403 ("you supplied nothing"), a request whose token is unknown or expired
// gets 401 ("what you supplied is invalid").
func (a *Authorizer) Require(level auth.Level) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if level == auth.LevelNone {
				return next(c)
			}

			raw, ok := bearerToken(c)
			if !ok {
				return response.Error(c, http.StatusForbidden,
					"No access token presented", "middleware.require")
			}

			tok, err := a.Tokens.FindAccessByToken(c.Request().Context(), raw)
			if err != nil {
				return response.Error(c, http.StatusInternalServerError,
					"Token lookup failed", "middleware.require")
			}
			if tok == nil || !tok.Expires.After(time.Now().UTC()) {
				return response.Error(c, http.StatusUnauthorized,
					"Invalid or expired access token", "middleware.require")
			}

			req, err := a.requirementFor(c, level)
			if err != nil {
				return err // already rendered
			}
			if !req.SatisfiedBy(tok.Scope) {
				return response.Error(c, http.StatusForbidden,
					"Required scope not authorized", "middleware.require")
			}

			attach(c, tok)
			return next(c)
		}
	}
}

// requirementFor builds the concrete requirement for this request,
// resolving the facility for facility-scoped levels.
func (a *Authorizer) requirementFor(c echo.Context, level auth.Level) (auth.Requirement, error) {
	switch level {
	case auth.LevelAny:
		return auth.Any(), nil
	case auth.LevelSuperuser:
		return auth.SuperOnly(), nil
	}

	id, err := strconv.ParseUint(c.Param("facilityId"), 10, 64)
	if err != nil {
		return auth.Requirement{}, response.Error(c, http.StatusBadRequest,
			"Invalid facility id", "middleware.facility")
	}
	f, err := a.Facilities.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return auth.Requirement{}, response.Error(c, http.StatusNotFound,
				"Facility not found", "middleware.facility")
		}
		return auth.Requirement{}, response.Error(c, http.StatusInternalServerError,
			"Facility lookup failed", "middleware.facility")
	}
	c.Set(ContextFacility, f)

	if level == auth.LevelAdmin {
		return auth.AdminOn(f.Scope), nil
	}
	return auth.RegularOn(f.Scope), nil
}

func attach(c echo.Context, tok *model.AccessToken) {
	c.Set(ContextAccessToken, tok)
	c.Set(ContextUserID, tok.UserID)
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return raw, raw != ""
}

// TokenFrom returns the access token the Require middleware attached, or
// nil when the route ran without one.
func TokenFrom(c echo.Context) *model.AccessToken {
	tok, _ := c.Get(ContextAccessToken).(*model.AccessToken)
	return tok
}

// FacilityFrom returns the facility resolved for a facility-scoped route.
func FacilityFrom(c echo.Context) *model.Facility {
	f, _ := c.Get(ContextFacility).(*model.Facility)
	return f
}
