package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shelterops/facility-checkins/internal/middleware"
	"github.com/shelterops/facility-checkins/internal/model"
	"github.com/shelterops/facility-checkins/internal/queue"
	"github.com/shelterops/facility-checkins/internal/repository"
	"github.com/shelterops/facility-checkins/internal/web/response"
)

const dateLayout = "2006-01-02"

// CheckinHandler serves checkin CRUD under
// /v1/facilities/:facilityId/checkins. Reads require facility-regular;
// mutations facility-admin. Creating an assigned checkin publishes a
// checkin.created event; broker failures are logged and swallowed.
type CheckinHandler struct {
	Checkins *repository.CheckinRepo
}

func NewCheckinHandler(ch *repository.CheckinRepo) *CheckinHandler {
	return &CheckinHandler{Checkins: ch}
}

type checkinReq struct {
	GuestID       *uint64 `json:"guest_id"`
	CheckinDate   string  `json:"checkin_date"`
	MatNumber     int     `json:"mat_number"`
	Features      string  `json:"features"`
	PaymentType   string  `json:"payment_type"`
	PaymentAmount float64 `json:"payment_amount"`
	ShowerTime    string  `json:"shower_time"`
	WakeupTime    string  `json:"wakeup_time"`
	Comments      string  `json:"comments"`
}

// List handles GET .../checkins?date=YYYY-MM-DD.
func (h *CheckinHandler) List(c echo.Context) error {
	date, err := time.Parse(dateLayout, c.QueryParam("date"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "date query parameter is required (YYYY-MM-DD)", "checkin.list")
	}
	limit, offset := pageParams(c)
	items, err := h.Checkins.ListByDate(c.Request().Context(), facilityID(c), date, limit, offset)
	if err != nil {
		return repoError(c, err, "checkin.list")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Get handles GET .../checkins/:id.
func (h *CheckinHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid checkin id", "checkin.get")
	}
	ci, err := h.Checkins.GetByID(c.Request().Context(), facilityID(c), id)
	if err != nil {
		return repoError(c, err, "checkin.get")
	}
	return c.JSON(http.StatusOK, ci)
}

// Create handles POST .../checkins.
func (h *CheckinHandler) Create(c echo.Context) error {
	var req checkinReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "checkin.create")
	}
	date, err := time.Parse(dateLayout, req.CheckinDate)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "checkin_date must be YYYY-MM-DD", "checkin.create")
	}
	if req.MatNumber <= 0 {
		return response.Error(c, http.StatusBadRequest, "mat_number must be positive", "checkin.create")
	}
	ci := &model.Checkin{
		FacilityID:    facilityID(c),
		GuestID:       req.GuestID,
		CheckinDate:   date,
		MatNumber:     req.MatNumber,
		Features:      req.Features,
		PaymentType:   req.PaymentType,
		PaymentAmount: req.PaymentAmount,
		ShowerTime:    req.ShowerTime,
		WakeupTime:    req.WakeupTime,
		Comments:      req.Comments,
	}
	if err := h.Checkins.Create(c.Request().Context(), ci); err != nil {
		return repoError(c, err, "checkin.create")
	}
	h.publishCreated(c, ci)
	return c.JSON(http.StatusCreated, ci)
}

// Assign handles PUT .../checkins/:id/assign, attaching a guest and stay
// details to an existing empty mat.
func (h *CheckinHandler) Assign(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid checkin id", "checkin.assign")
	}
	var req checkinReq
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid request body", "checkin.assign")
	}
	if req.GuestID == nil {
		return response.Error(c, http.StatusBadRequest, "guest_id is required", "checkin.assign")
	}
	ci := &model.Checkin{
		ID:            id,
		FacilityID:    facilityID(c),
		GuestID:       req.GuestID,
		PaymentType:   req.PaymentType,
		PaymentAmount: req.PaymentAmount,
		ShowerTime:    req.ShowerTime,
		WakeupTime:    req.WakeupTime,
		Comments:      req.Comments,
	}
	if err := h.Checkins.Assign(c.Request().Context(), ci); err != nil {
		return repoError(c, err, "checkin.assign")
	}
	return c.JSON(http.StatusOK, ci)
}

// Delete handles DELETE .../checkins/:id.
func (h *CheckinHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid checkin id", "checkin.delete")
	}
	if err := h.Checkins.Delete(c.Request().Context(), facilityID(c), id); err != nil {
		return repoError(c, err, "checkin.delete")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CheckinHandler) publishCreated(c echo.Context, ci *model.Checkin) {
	event := queue.CheckinCreatedEvent{
		CheckinID:   ci.ID,
		FacilityID:  ci.FacilityID,
		CheckinDate: ci.CheckinDate.Format(dateLayout),
		MatNumber:   ci.MatNumber,
		PaymentType: ci.PaymentType,
		Amount:      ci.PaymentAmount,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if f := middleware.FacilityFrom(c); f != nil {
		event.FacilityName = f.Name
	}
	if ci.GuestID != nil {
		event.GuestID = *ci.GuestID
	}
	// Best effort; the publisher logs its own failures.
	_ = queue.PublishCheckinCreated(c.Request().Context(), event)
}
