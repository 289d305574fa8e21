package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shelterops/facility-checkins/internal/model"
	"github.com/shelterops/facility-checkins/internal/repository"
	"github.com/shelterops/facility-checkins/internal/web/response"
)

// GuestHandler serves guest CRUD under /v1/facilities/:facilityId/guests.
// Reads require facility-regular; mutations facility-admin.
type GuestHandler struct {
	Guests *repository.GuestRepo
}

func NewGuestHandler(g *repository.GuestRepo) *GuestHandler {
	return &GuestHandler{Guests: g}
}

type guestReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    *bool  `json:"active"`
	Favorite  string `json:"favorite"`
	Comments  string `json:"comments"`
}

// List handles GET .../guests with name= wildcard and active= filters.
func (h *GuestHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	items, err := h.Guests.List(c.Request().Context(), facilityID(c),
		strings.TrimSpace(c.QueryParam("name")), activeParam(c), limit, offset)
	if err != nil {
		return repoError(c, err, "guest.list")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Get handles GET .../guests/:id.
func (h *GuestHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid guest id", "guest.get")
	}
	g, err := h.Guests.GetByID(c.Request().Context(), facilityID(c), id)
	if err != nil {
		return repoError(c, err, "guest.get")
	}
	return c.JSON(http.StatusOK, g)
}

// Create handles POST .../guests.
func (h *GuestHandler) Create(c echo.Context) error {
	var req guestReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "guest.create")
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return response.Error(c, http.StatusBadRequest, "first_name and last_name are required", "guest.create")
	}
	g := &model.Guest{
		FacilityID: facilityID(c),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Active:     true,
		Favorite:   req.Favorite,
		Comments:   req.Comments,
	}
	if req.Active != nil {
		g.Active = *req.Active
	}
	if err := h.Guests.Create(c.Request().Context(), g); err != nil {
		return repoError(c, err, "guest.create")
	}
	return c.JSON(http.StatusCreated, g)
}

// Update handles PUT .../guests/:id.
func (h *GuestHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid guest id", "guest.update")
	}
	cur, err := h.Guests.GetByID(c.Request().Context(), facilityID(c), id)
	if err != nil {
		return repoError(c, err, "guest.update")
	}
	var req guestReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "guest.update")
	}
	if v := strings.TrimSpace(req.FirstName); v != "" {
		cur.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		cur.LastName = v
	}
	if req.Active != nil {
		cur.Active = *req.Active
	}
	cur.Favorite = req.Favorite
	cur.Comments = req.Comments
	if err := h.Guests.Update(c.Request().Context(), cur); err != nil {
		return repoError(c, err, "guest.update")
	}
	return c.JSON(http.StatusOK, cur)
}

// Delete handles DELETE .../guests/:id.
func (h *GuestHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid guest id", "guest.delete")
	}
	if err := h.Guests.Delete(c.Request().Context(), facilityID(c), id); err != nil {
		return repoError(c, err, "guest.delete")
	}
	return c.NoContent(http.StatusNoContent)
}
