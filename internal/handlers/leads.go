package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/verzel/leadflow/internal/lead"
)

// LeadsHandler serves the admin lead record endpoints under /leads.
type LeadsHandler struct {
	service *lead.Service
	logger  *slog.Logger
}

// NewLeadsHandler creates a leads handler.
func NewLeadsHandler(log *slog.Logger, service *lead.Service) *LeadsHandler {
	return &LeadsHandler{
		service: service,
		logger:  log.With(slog.String("handler", "leads")),
	}
}

// Register mounts the lead routes on the Echo instance.
func (h *LeadsHandler) Register(e *echo.Echo) {
	e.GET("/leads", h.List)
	e.GET("/leads/:id", h.Get)
	e.PATCH("/leads/:id/status", h.UpdateStatus)
}

// List godoc
// @Summary List leads
// @Tags leads
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {object} lead.ListPage
// @Failure 500 {object} ErrorResponse
// @Router /leads [get].
func (h *LeadsHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	page, err := h.service.List(c.Request().Context(), int32(limit), int32(offset))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Get a lead
// @Tags leads
// @Param id path string true "Lead id"
// @Success 200 {object} lead.Record
// @Failure 404 {object} ErrorResponse
// @Router /leads/{id} [get].
func (h *LeadsHandler) Get(c echo.Context) error {
	record, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, lead.ErrLeadNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "lead not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, record)
}

// UpdateStatusRequest is the body for PATCH /leads/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus godoc
// @Summary Update lead status
// @Tags leads
// @Param id path string true "Lead id"
// @Param payload body UpdateStatusRequest true "Status update"
// @Success 200 {object} lead.Record
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /leads/{id}/status [patch].
func (h *LeadsHandler) UpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, lead.ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		case errors.Is(err, lead.ErrLeadNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "lead not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, record)
}
