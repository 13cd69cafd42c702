package calendar

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	client *http.Client
	err    error
}

func (s *staticSource) HTTPClient(ctx context.Context) (*http.Client, error) {
	return s.client, s.err
}

func newTestClient(serverURL string) *Client {
	return &Client{
		tokens:     &staticSource{client: http.DefaultClient},
		calendarID: "primary",
		timezone:   "America/Sao_Paulo",
		baseURL:    serverURL,
		logger:     slog.Default(),
	}
}

func TestEventTimeParse(t *testing.T) {
	tests := []struct {
		name  string
		value eventTime
		want  time.Time
		ok    bool
	}{
		{
			name:  "timed event",
			value: eventTime{DateTime: "2026-09-08T09:00:00-03:00"},
			want:  time.Date(2026, 9, 8, 9, 0, 0, 0, time.FixedZone("", -3*3600)),
			ok:    true,
		},
		{
			name:  "all-day event",
			value: eventTime{Date: "2026-09-08"},
			want:  time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "empty",
			value: eventTime{},
			ok:    false,
		},
		{
			name:  "malformed date time",
			value: eventTime{DateTime: "yesterday"},
			ok:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.parse()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestBusyIntervals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		assert.Equal(t, "startTime", r.URL.Query().Get("orderBy"))
		assert.NotEmpty(t, r.URL.Query().Get("timeMin"))
		assert.NotEmpty(t, r.URL.Query().Get("timeMax"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"start": map[string]string{"dateTime": "2026-09-08T09:00:00Z"},
					"end":   map[string]string{"dateTime": "2026-09-08T10:00:00Z"},
				},
				{
					"start": map[string]string{"date": "2026-09-09"},
					"end":   map[string]string{"date": "2026-09-10"},
				},
				{
					// No usable times; must be skipped.
					"start": map[string]string{},
					"end":   map[string]string{},
				},
			},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	from := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	busy, err := c.BusyIntervals(context.Background(), from, from.AddDate(0, 0, 7))
	require.NoError(t, err)

	require.Len(t, busy, 2)
	assert.Equal(t, time.Date(2026, 9, 8, 9, 0, 0, 0, time.UTC), busy[0].Start.UTC())
	assert.Equal(t, time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC), busy[1].Start)
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), busy[1].End)
}

func TestBusyIntervalsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	from := time.Now()
	_, err := c.BusyIntervals(context.Background(), from, from.AddDate(0, 0, 7))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCreateMeeting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("conferenceDataVersion"))
		assert.Equal(t, "all", r.URL.Query().Get("sendUpdates"))

		var body struct {
			Summary   string `json:"summary"`
			Attendees []struct {
				Email string `json:"email"`
			} `json:"attendees"`
			ConferenceData struct {
				CreateRequest struct {
					RequestID             string `json:"requestId"`
					ConferenceSolutionKey struct {
						Type string `json:"type"`
					} `json:"conferenceSolutionKey"`
				} `json:"createRequest"`
			} `json:"conferenceData"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Reunião com Maria Silva", body.Summary)
		require.Len(t, body.Attendees, 1)
		assert.Equal(t, "maria@acme.com", body.Attendees[0].Email)
		assert.Equal(t, "hangoutsMeet", body.ConferenceData.CreateRequest.ConferenceSolutionKey.Type)
		assert.NotEmpty(t, body.ConferenceData.CreateRequest.RequestID)

		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":          "evt-1",
			"hangoutLink": "https://meet.google.com/abc-defg-hij",
			"htmlLink":    "https://calendar.google.com/event?eid=evt-1",
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	start := time.Date(2026, 9, 8, 9, 0, 0, 0, time.UTC)
	booking, err := c.CreateMeeting(context.Background(), CreateMeetingParams{
		LeadName:  "Maria Silva",
		LeadEmail: "maria@acme.com",
		Start:     start,
		End:       start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", booking.EventID)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", booking.MeetingLink)
}

func TestCreateMeetingFallsBackToHTMLLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":       "evt-2",
			"htmlLink": "https://calendar.google.com/event?eid=evt-2",
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	start := time.Date(2026, 9, 8, 14, 0, 0, 0, time.UTC)
	booking, err := c.CreateMeeting(context.Background(), CreateMeetingParams{
		LeadName:  "Maria",
		LeadEmail: "maria@acme.com",
		Start:     start,
		End:       start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://calendar.google.com/event?eid=evt-2", booking.MeetingLink)
}

func TestClientUnauthenticated(t *testing.T) {
	c := &Client{
		tokens:     &staticSource{err: ErrUnauthenticated},
		calendarID: "primary",
		baseURL:    "http://127.0.0.1:0",
	}
	_, err := c.BusyIntervals(context.Background(), time.Now(), time.Now().AddDate(0, 0, 7))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
