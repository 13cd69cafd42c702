// Package calendar integrates with the Google Calendar API for availability
// lookups and meeting creation.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verzel/leadflow/internal/config"
	"github.com/verzel/leadflow/internal/slots"
)

const apiBaseURL = "https://www.googleapis.com/calendar/v3"

// Booking is the result of creating a calendar event.
type Booking struct {
	EventID     string
	MeetingLink string
}

// clientSource hands out authenticated HTTP clients for the calendar API.
type clientSource interface {
	HTTPClient(ctx context.Context) (*http.Client, error)
}

// Client reads busy windows and books meetings on the sales calendar.
type Client struct {
	tokens     clientSource
	calendarID string
	timezone   string
	baseURL    string
	logger     *slog.Logger
}

// NewClient builds a calendar Client backed by the given token store.
func NewClient(log *slog.Logger, tokens *TokenStore, cfg config.CalendarConfig) *Client {
	if log == nil {
		log = slog.Default()
	}
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{
		tokens:     tokens,
		calendarID: calendarID,
		timezone:   cfg.Timezone,
		baseURL:    apiBaseURL,
		logger:     log.With(slog.String("client", "calendar")),
	}
}

// BusyIntervals lists the event windows on the calendar between from and to.
// All-day events count as busy for their whole span.
func (c *Client) BusyIntervals(ctx context.Context, from, to time.Time) ([]slots.Interval, error) {
	httpClient, err := c.tokens.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("timeMin", from.Format(time.RFC3339))
	query.Set("timeMax", to.Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")

	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(c.calendarID), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError("list events", resp)
	}

	var parsed struct {
		Items []struct {
			Start eventTime `json:"start"`
			End   eventTime `json:"end"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	busy := make([]slots.Interval, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		start, startOK := item.Start.parse()
		end, endOK := item.End.parse()
		if !startOK || !endOK {
			continue
		}
		busy = append(busy, slots.Interval{Start: start, End: end})
	}
	return busy, nil
}

// CreateMeetingParams is the input for booking a meeting.
type CreateMeetingParams struct {
	LeadName    string
	LeadEmail   string
	Start       time.Time
	End         time.Time
	Description string
}

// CreateMeeting books a meeting with a Meet link and invites the lead.
func (c *Client) CreateMeeting(ctx context.Context, params CreateMeetingParams) (Booking, error) {
	httpClient, err := c.tokens.HTTPClient(ctx)
	if err != nil {
		return Booking{}, err
	}

	description := params.Description
	if description == "" {
		description = "Reunião de qualificação agendada via webchat"
	}

	body := map[string]any{
		"summary":     fmt.Sprintf("Reunião com %s", params.LeadName),
		"description": description,
		"start": map[string]string{
			"dateTime": params.Start.Format(time.RFC3339),
			"timeZone": c.timezone,
		},
		"end": map[string]string{
			"dateTime": params.End.Format(time.RFC3339),
			"timeZone": c.timezone,
		},
		"attendees": []map[string]string{
			{"email": params.LeadEmail},
		},
		"conferenceData": map[string]any{
			"createRequest": map[string]any{
				"requestId":             "meet-" + uuid.NewString(),
				"conferenceSolutionKey": map[string]string{"type": "hangoutsMeet"},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Booking{}, err
	}

	query := url.Values{}
	query.Set("conferenceDataVersion", "1")
	query.Set("sendUpdates", "all")

	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(c.calendarID), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Booking{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Booking{}, fmt.Errorf("insert event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Booking{}, apiError("insert event", resp)
	}

	var parsed struct {
		ID          string `json:"id"`
		HangoutLink string `json:"hangoutLink"`
		HTMLLink    string `json:"htmlLink"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Booking{}, fmt.Errorf("decode event: %w", err)
	}

	link := parsed.HangoutLink
	if link == "" {
		link = parsed.HTMLLink
	}
	c.logger.Info("meeting booked",
		slog.String("event_id", parsed.ID),
		slog.Time("start", params.Start),
	)
	return Booking{EventID: parsed.ID, MeetingLink: link}, nil
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

func (t eventTime) parse() (time.Time, bool) {
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err == nil {
			return parsed, true
		}
	}
	if t.Date != "" {
		parsed, err := time.Parse("2006-01-02", t.Date)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func apiError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return fmt.Errorf("%s (%d): %s", op, resp.StatusCode, strings.TrimSpace(string(b)))
}
