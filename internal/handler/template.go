package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shelterops/facility-checkins/internal/model"
	"github.com/shelterops/facility-checkins/internal/repository"
	"github.com/shelterops/facility-checkins/internal/web/response"
)

// TemplateHandler serves mat-template CRUD under
// /v1/facilities/:facilityId/templates. Reads require facility-regular;
// mutations facility-admin.
type TemplateHandler struct {
	Templates *repository.TemplateRepo
}

func NewTemplateHandler(t *repository.TemplateRepo) *TemplateHandler {
	return &TemplateHandler{Templates: t}
}

type templateReq struct {
	Name         string `json:"name"`
	Active       *bool  `json:"active"`
	AllMats      string `json:"all_mats"`
	HandicapMats string `json:"handicap_mats"`
	SocketMats   string `json:"socket_mats"`
	WorkMats     string `json:"work_mats"`
	Comments     string `json:"comments"`
}

// List handles GET .../templates with a name= wildcard.
func (h *TemplateHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	items, err := h.Templates.List(c.Request().Context(), facilityID(c),
		strings.TrimSpace(c.QueryParam("name")), limit, offset)
	if err != nil {
		return repoError(c, err, "template.list")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Get handles GET .../templates/:id.
func (h *TemplateHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid template id", "template.get")
	}
	t, err := h.Templates.GetByID(c.Request().Context(), facilityID(c), id)
	if err != nil {
		return repoError(c, err, "template.get")
	}
	return c.JSON(http.StatusOK, t)
}

// Create handles POST .../templates.
func (h *TemplateHandler) Create(c echo.Context) error {
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "template.create")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.AllMats) == "" {
		return response.Error(c, http.StatusBadRequest, "name and all_mats are required", "template.create")
	}
	t := &model.Template{
		FacilityID:   facilityID(c),
		Name:         req.Name,
		Active:       true,
		AllMats:      req.AllMats,
		HandicapMats: req.HandicapMats,
		SocketMats:   req.SocketMats,
		WorkMats:     req.WorkMats,
		Comments:     req.Comments,
	}
	if req.Active != nil {
		t.Active = *req.Active
	}
	if err := h.Templates.Create(c.Request().Context(), t); err != nil {
		return repoError(c, err, "template.create")
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT .../templates/:id.
func (h *TemplateHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid template id", "template.update")
	}
	cur, err := h.Templates.GetByID(c.Request().Context(), facilityID(c), id)
	if err != nil {
		return repoError(c, err, "template.update")
	}
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "template.update")
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		cur.Name = v
	}
	if req.Active != nil {
		cur.Active = *req.Active
	}
	if v := strings.TrimSpace(req.AllMats); v != "" {
		cur.AllMats = v
	}
	cur.HandicapMats = req.HandicapMats
	cur.SocketMats = req.SocketMats
	cur.WorkMats = req.WorkMats
	cur.Comments = req.Comments
	if err := h.Templates.Update(c.Request().Context(), cur); err != nil {
		return repoError(c, err, "template.update")
	}
	return c.JSON(http.StatusOK, cur)
}

// Delete handles DELETE .../templates/:id.
func (h *TemplateHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid template id", "template.delete")
	}
	if err := h.Templates.Delete(c.Request().Context(), facilityID(c), id); err != nil {
		return repoError(c, err, "template.delete")
	}
	return c.NoContent(http.StatusNoContent)
}
