package conversation

import (
	"context"
	"time"

	"github.com/verzel/leadflow/internal/calendar"
	"github.com/verzel/leadflow/internal/crm"
	"github.com/verzel/leadflow/internal/lead"
	"github.com/verzel/leadflow/internal/llm"
	"github.com/verzel/leadflow/internal/slots"
)

// Store persists conversations and their transcripts.
type Store interface {
	Create(ctx context.Context, sessionID string) (Conversation, error)
	GetBySessionID(ctx context.Context, sessionID string) (Conversation, error)
	AppendMessage(ctx context.Context, conversationID, role, content string) (Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	UpdateLead(ctx context.Context, conversationID string, snapshot lead.Snapshot, status string) (Conversation, error)
	SetCRMState(ctx context.Context, conversationID, cardID string, pending bool) error
	ClaimCRMCard(ctx context.Context, conversationID, cardID string) (bool, error)
	SetMeeting(ctx context.Context, conversationID, link string, start, end time.Time, status string) (Conversation, error)
}

// Generator produces the assistant's next reply.
type Generator interface {
	GenerateReply(ctx context.Context, history []llm.Message) (string, error)
}

// Extractor pulls lead fields out of the transcript.
type Extractor interface {
	ExtractLead(ctx context.Context, history []llm.Message) (lead.Partial, error)
}

// Calendar reads availability and books meetings.
type Calendar interface {
	BusyIntervals(ctx context.Context, from, to time.Time) ([]slots.Interval, error)
	CreateMeeting(ctx context.Context, params calendar.CreateMeetingParams) (calendar.Booking, error)
}

// CRMSyncer pushes lead profiles to the CRM.
type CRMSyncer interface {
	Sync(ctx context.Context, cardID string, fields crm.CardFields) crm.SyncResult
}

// LeadRecorder writes durable lead records.
type LeadRecorder interface {
	Create(ctx context.Context, params lead.CreateParams) (lead.Record, error)
}

// Notifier tells the sales team about bookings.
type Notifier interface {
	MeetingBooked(ctx context.Context, record lead.Record)
}
