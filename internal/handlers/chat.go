package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/verzel/leadflow/internal/calendar"
	"github.com/verzel/leadflow/internal/conversation"
)

// ChatHandler serves the public chat endpoints under /chat.
type ChatHandler struct {
	service *conversation.Service
	logger  *slog.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(log *slog.Logger, service *conversation.Service) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  log.With(slog.String("handler", "chat")),
	}
}

// Register mounts the chat routes on the Echo instance.
func (h *ChatHandler) Register(e *echo.Echo) {
	g := e.Group("/chat")
	g.POST("/start", h.Start)
	g.POST("/message", h.SendMessage)
	g.GET("/history", h.History)
	g.GET("/slots", h.Slots)
	g.POST("/schedule", h.Schedule)
}

// StartRequest is the body for POST /chat/start.
type StartRequest struct {
	SessionID string `json:"session_id"`
}

// Start godoc
// @Summary Start a conversation
// @Description Open (or reopen) the conversation for a session
// @Tags chat
// @Param payload body StartRequest true "Start request"
// @Success 200 {object} conversation.StartResult
// @Failure 400 {object} ErrorResponse
// @Router /chat/start [post].
func (h *ChatHandler) Start(c echo.Context) error {
	var req StartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id is required")
	}

	result, err := h.service.Start(c.Request().Context(), req.SessionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// MessageRequest is the body for POST /chat/message.
type MessageRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Record the user turn and return the assistant reply
// @Tags chat
// @Param payload body MessageRequest true "Message request"
// @Success 200 {object} conversation.TurnResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /chat/message [post].
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id is required")
	}

	result, err := h.service.SendMessage(c.Request().Context(), req.SessionID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrEmptyMessage):
			return echo.NewHTTPError(http.StatusBadRequest, "content is required")
		case errors.Is(err, conversation.ErrConversationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
		default:
			h.logger.Error("send message failed", slog.String("error", err.Error()))
			return echo.NewHTTPError(http.StatusBadGateway, "could not generate a reply")
		}
	}
	return c.JSON(http.StatusOK, result)
}

// History godoc
// @Summary Conversation history
// @Tags chat
// @Param session_id query string true "Session id"
// @Success 200 {array} conversation.Message
// @Failure 404 {object} ErrorResponse
// @Router /chat/history [get].
func (h *ChatHandler) History(c echo.Context) error {
	sessionID := strings.TrimSpace(c.QueryParam("session_id"))
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id is required")
	}

	messages, err := h.service.History(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, conversation.ErrConversationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}

// Slots godoc
// @Summary Available meeting slots
// @Description Offer up to three free slots once interest is confirmed
// @Tags chat
// @Param session_id query string true "Session id"
// @Success 200 {array} slots.Slot
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /chat/slots [get].
func (h *ChatHandler) Slots(c echo.Context) error {
	sessionID := strings.TrimSpace(c.QueryParam("session_id"))
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id is required")
	}

	offered, err := h.service.AvailableSlots(c.Request().Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrConversationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
		case errors.Is(err, conversation.ErrInterestNotConfirmed):
			return echo.NewHTTPError(http.StatusConflict, "interest has not been confirmed")
		case errors.Is(err, calendar.ErrUnauthenticated):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "calendar is not connected")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, offered)
}

// ScheduleRequest is the body for POST /chat/schedule.
type ScheduleRequest struct {
	SessionID string    `json:"session_id"`
	SlotStart time.Time `json:"slot_start"`
	SlotEnd   time.Time `json:"slot_end"`
}

// Schedule godoc
// @Summary Book a meeting
// @Description Book the chosen slot and record the lead
// @Tags chat
// @Param payload body ScheduleRequest true "Schedule request"
// @Success 200 {object} conversation.Conversation
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /chat/schedule [post].
func (h *ChatHandler) Schedule(c echo.Context) error {
	var req ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id is required")
	}

	conv, err := h.service.Schedule(c.Request().Context(), req.SessionID, req.SlotStart, req.SlotEnd)
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrConversationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "conversation not found")
		case errors.Is(err, conversation.ErrInterestNotConfirmed),
			errors.Is(err, conversation.ErrAlreadyScheduled):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, conversation.ErrIncompleteLeadInfo),
			errors.Is(err, conversation.ErrInvalidSlot):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, calendar.ErrUnauthenticated):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "calendar is not connected")
		default:
			h.logger.Error("schedule failed", slog.String("error", err.Error()))
			return echo.NewHTTPError(http.StatusBadGateway, "could not book the meeting")
		}
	}
	return c.JSON(http.StatusOK, conv)
}
