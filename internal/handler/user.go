package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shelterops/facility-checkins/internal/auth"
	"github.com/shelterops/facility-checkins/internal/repository"
	"github.com/shelterops/facility-checkins/internal/utils"
	"github.com/shelterops/facility-checkins/internal/web/response"
)

// UserHandler serves administrative user management under /v1/users.
// Every route is superuser-only (enforced in the router).
type UserHandler struct {
	Users      *repository.UserRepo
	BcryptCost int
}

func NewUserHandler(u *repository.UserRepo, bcryptCost int) *UserHandler {
	return &UserHandler{Users: u, BcryptCost: bcryptCost}
}

type userReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Scope    string `json:"scope"`
	Active   *bool  `json:"active"`
}

// List handles GET /v1/users with a username= wildcard.
func (h *UserHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	items, err := h.Users.List(c.Request().Context(),
		strings.TrimSpace(c.QueryParam("username")), limit, offset)
	if err != nil {
		return repoError(c, err, "user.list")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid user id", "user.get")
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "user.get")
	}
	return c.JSON(http.StatusOK, u)
}

// Create handles POST /v1/users: administrative insert with a hashed
// password and a scope that must parse.
func (h *UserHandler) Create(c echo.Context) error {
	var req userReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "user.create")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return response.Error(c, http.StatusBadRequest, "username and password are required", "user.create")
	}
	if auth.ParseScope(req.Scope).Kind == auth.KindInvalid {
		return response.Error(c, http.StatusBadRequest, "scope is malformed", "user.create")
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, "Password hashing failed", "user.create")
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	id, err := h.Users.Create(c.Request().Context(), req.Username, hash, req.Scope, active)
	if err != nil {
		return repoError(c, err, "user.create")
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "user.create")
	}
	return c.JSON(http.StatusCreated, u)
}

// Update handles PUT /v1/users/:id: scope, active flag and optionally a new
// password. Scope changes never touch tokens already issued.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid user id", "user.update")
	}
	cur, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "user.update")
	}
	var req userReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "user.update")
	}
	scope := cur.Scope
	if req.Scope != "" {
		if auth.ParseScope(req.Scope).Kind == auth.KindInvalid {
			return response.Error(c, http.StatusBadRequest, "scope is malformed", "user.update")
		}
		scope = req.Scope
	}
	active := cur.Active
	if req.Active != nil {
		active = *req.Active
	}
	var hash string
	if req.Password != "" {
		if hash, err = utils.HashPassword(req.Password, h.BcryptCost); err != nil {
			return response.Error(c, http.StatusInternalServerError, "Password hashing failed", "user.update")
		}
	}
	if err := h.Users.Update(c.Request().Context(), id, scope, active, hash); err != nil {
		return repoError(c, err, "user.update")
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "user.update")
	}
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /v1/users/:id; owned tokens go with the user.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid user id", "user.delete")
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err, "user.delete")
	}
	return c.NoContent(http.StatusNoContent)
}
