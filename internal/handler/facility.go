package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shelterops/facility-checkins/internal/model"
	"github.com/shelterops/facility-checkins/internal/repository"
	"github.com/shelterops/facility-checkins/internal/web/response"
)

// FacilityHandler serves tenant CRUD. Reads require any valid token;
// mutations are superuser-only (enforced in the router).
type FacilityHandler struct {
	Facilities *repository.FacilityRepo
}

func NewFacilityHandler(f *repository.FacilityRepo) *FacilityHandler {
	return &FacilityHandler{Facilities: f}
}

type facilityReq struct {
	Name    string `json:"name"`
	Scope   string `json:"scope"`
	Active  *bool  `json:"active"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// List handles GET /v1/facilities with name= wildcard and active= filters.
func (h *FacilityHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	items, err := h.Facilities.List(c.Request().Context(),
		strings.TrimSpace(c.QueryParam("name")), activeParam(c), limit, offset)
	if err != nil {
		return repoError(c, err, "facility.list")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Get handles GET /v1/facilities/:facilityId.
func (h *FacilityHandler) Get(c echo.Context) error {
	id, err := pathID(c, "facilityId")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid facility id", "facility.get")
	}
	f, err := h.Facilities.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "facility.get")
	}
	return c.JSON(http.StatusOK, f)
}

// Create handles POST /v1/facilities.
func (h *FacilityHandler) Create(c echo.Context) error {
	var req facilityReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "facility.create")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Scope = strings.TrimSpace(req.Scope)
	if req.Name == "" || req.Scope == "" {
		return response.Error(c, http.StatusBadRequest, "name and scope are required", "facility.create")
	}
	f := &model.Facility{
		Name: req.Name, Scope: req.Scope, Active: true,
		Address: req.Address, City: req.City, State: req.State,
		Zipcode: req.Zipcode, Phone: req.Phone, Email: req.Email,
	}
	if req.Active != nil {
		f.Active = *req.Active
	}
	if err := h.Facilities.Create(c.Request().Context(), f); err != nil {
		return repoError(c, err, "facility.create")
	}
	return c.JSON(http.StatusCreated, f)
}

// Update handles PUT /v1/facilities/:facilityId.
func (h *FacilityHandler) Update(c echo.Context) error {
	id, err := pathID(c, "facilityId")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid facility id", "facility.update")
	}
	cur, err := h.Facilities.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "facility.update")
	}
	var req facilityReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "facility.update")
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		cur.Name = v
	}
	if v := strings.TrimSpace(req.Scope); v != "" {
		cur.Scope = v
	}
	if req.Active != nil {
		cur.Active = *req.Active
	}
	cur.Address, cur.City, cur.State = req.Address, req.City, req.State
	cur.Zipcode, cur.Phone, cur.Email = req.Zipcode, req.Phone, req.Email
	if err := h.Facilities.Update(c.Request().Context(), cur); err != nil {
		return repoError(c, err, "facility.update")
	}
	return c.JSON(http.StatusOK, cur)
}

// Delete handles DELETE /v1/facilities/:facilityId.
func (h *FacilityHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "facilityId")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid facility id", "facility.delete")
	}
	if err := h.Facilities.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err, "facility.delete")
	}
	return c.NoContent(http.StatusNoContent)
}
