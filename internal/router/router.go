// Package router wires HTTP routes to handlers and declares the access
// level each route demands. The token acquisition endpoint is deliberately
// outside every auth group so it stays reachable without a token.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/shelterops/facility-checkins/internal/auth"
	"github.com/shelterops/facility-checkins/internal/handler"
	"github.com/shelterops/facility-checkins/internal/middleware"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth       *middleware.Authorizer
	Tokens     *handler.TokenHandler
	Facilities *handler.FacilityHandler
	Guests     *handler.GuestHandler
	Checkins   *handler.CheckinHandler
	Templates  *handler.TemplateHandler
	Users      *handler.UserHandler
}

// Register attaches all routes. rdb may be nil; rate limiting then degrades
// to a pass-through.
func Register(e *echo.Echo, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Token lifecycle. The grant endpoint must stay reachable without a
	// token and is rate limited against credential stuffing; revoke runs
	// behind the middleware so it operates on a proven-live token.
	oauth := e.Group("/v1/oauth")
	oauth.POST("/token", h.Tokens.Grant, middleware.RateLimit(rdb, 30, time.Minute))
	oauth.DELETE("/token", h.Tokens.Revoke, h.Auth.Require(auth.LevelAny))
	oauth.POST("/purge", h.Tokens.Purge, h.Auth.Require(auth.LevelSuperuser))

	// Tenants: any valid token may read, only superusers mutate.
	fac := e.Group("/v1/facilities")
	fac.GET("", h.Facilities.List, h.Auth.Require(auth.LevelAny))
	fac.GET("/:facilityId", h.Facilities.Get, h.Auth.Require(auth.LevelAny))
	fac.POST("", h.Facilities.Create, h.Auth.Require(auth.LevelSuperuser))
	fac.PUT("/:facilityId", h.Facilities.Update, h.Auth.Require(auth.LevelSuperuser))
	fac.DELETE("/:facilityId", h.Facilities.Delete, h.Auth.Require(auth.LevelSuperuser))

	// Per-tenant resources: regular scope reads, admin scope mutates. The
	// facility named in the path is the one the token scope must match.
	read := h.Auth.Require(auth.LevelRegular)
	write := h.Auth.Require(auth.LevelAdmin)

	guests := e.Group("/v1/facilities/:facilityId/guests")
	guests.GET("", h.Guests.List, read)
	guests.GET("/:id", h.Guests.Get, read)
	guests.POST("", h.Guests.Create, write)
	guests.PUT("/:id", h.Guests.Update, write)
	guests.DELETE("/:id", h.Guests.Delete, write)

	checkins := e.Group("/v1/facilities/:facilityId/checkins")
	checkins.GET("", h.Checkins.List, read)
	checkins.GET("/:id", h.Checkins.Get, read)
	checkins.POST("", h.Checkins.Create, write)
	checkins.PUT("/:id/assign", h.Checkins.Assign, write)
	checkins.DELETE("/:id", h.Checkins.Delete, write)

	templates := e.Group("/v1/facilities/:facilityId/templates")
	templates.GET("", h.Templates.List, read)
	templates.GET("/:id", h.Templates.Get, read)
	templates.POST("", h.Templates.Create, write)
	templates.PUT("/:id", h.Templates.Update, write)
	templates.DELETE("/:id", h.Templates.Delete, write)

	// Administrative user management.
	users := e.Group("/v1/users", h.Auth.Require(auth.LevelSuperuser))
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.POST("", h.Users.Create)
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)
}
