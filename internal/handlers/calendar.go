package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/verzel/leadflow/internal/calendar"
)

// CalendarHandler serves the admin calendar connection endpoints.
type CalendarHandler struct {
	tokens *calendar.TokenStore
	logger *slog.Logger
}

// NewCalendarHandler creates a calendar handler.
func NewCalendarHandler(log *slog.Logger, tokens *calendar.TokenStore) *CalendarHandler {
	return &CalendarHandler{
		tokens: tokens,
		logger: log.With(slog.String("handler", "calendar")),
	}
}

// Register mounts the calendar routes on the Echo instance.
func (h *CalendarHandler) Register(e *echo.Echo) {
	e.GET("/calendar/auth-url", h.AuthURL)
	e.POST("/calendar/exchange", h.Exchange)
}

// AuthURL godoc
// @Summary Calendar consent URL
// @Tags calendar
// @Success 200 {object} map[string]string
// @Router /calendar/auth-url [get].
func (h *CalendarHandler) AuthURL(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"auth_url": h.tokens.AuthURL(),
	})
}

// ExchangeRequest is the body for POST /calendar/exchange.
type ExchangeRequest struct {
	Code string `json:"code"`
}

// Exchange godoc
// @Summary Exchange OAuth code
// @Description Trade the consent code for calendar tokens
// @Tags calendar
// @Param payload body ExchangeRequest true "Exchange request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /calendar/exchange [post].
func (h *CalendarHandler) Exchange(c echo.Context) error {
	var req ExchangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Code) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	if err := h.tokens.Exchange(c.Request().Context(), req.Code); err != nil {
		h.logger.Error("code exchange failed", slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusBadGateway, "could not exchange code")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "connected",
	})
}
