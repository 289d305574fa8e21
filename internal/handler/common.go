// Package handler contains the HTTP handlers. Handlers bind and validate
// input, delegate to services or repositories, and translate sentinel
// errors into the shared error envelope; they hold no business rules.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shelterops/facility-checkins/internal/repository"
	"github.com/shelterops/facility-checkins/internal/web/response"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// pageParams parses limit/offset query parameters with sane bounds.
func pageParams(c echo.Context) (limit, offset int) {
	limit = defaultLimit
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// activeParam parses the optional active=true|false filter.
func activeParam(c echo.Context) *bool {
	switch c.QueryParam("active") {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// facilityID returns the :facilityId parameter; the authorization
// middleware has already validated it and resolved the facility.
func facilityID(c echo.Context) uint64 {
	id, _ := strconv.ParseUint(c.Param("facilityId"), 10, 64)
	return id
}

// repoError maps repository sentinels onto envelope responses. The context
// tag names the failing operation for auditability.
func repoError(c echo.Context, err error, context string) error {
	switch err {
	case repository.ErrNotFound:
		return response.Error(c, http.StatusNotFound, "Resource not found", context)
	case repository.ErrDuplicate:
		return response.Error(c, http.StatusConflict, "Duplicate value", context)
	case repository.ErrReservedScope:
		return response.Error(c, http.StatusBadRequest, "Facility scope is reserved", context)
	}
	return response.Error(c, http.StatusInternalServerError, "Unexpected server error", context)
}
