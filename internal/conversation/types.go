// Package conversation orchestrates the lead-qualification chat flow: turn
// handling, extraction, CRM sync, slot offers, and meeting booking.
package conversation

import (
	"time"

	"github.com/verzel/leadflow/internal/lead"
)

// Conversation statuses. Transitions only move forward:
// active -> qualified -> scheduled -> closed.
const (
	StatusActive    = "active"
	StatusQualified = "qualified"
	StatusScheduled = "scheduled"
	StatusClosed    = "closed"
)

// Message roles stored on the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Portuguese opening turn recorded when a conversation starts.
const welcomeMessage = "Olá! Bem-vindo à Verzel. 😊 Sou o assistente virtual e estou aqui para entender melhor sua necessidade. Para começar, qual é o seu nome?"

// Conversation is one chat session and its accumulated lead state.
type Conversation struct {
	ID               string        `json:"id"`
	SessionID        string        `json:"session_id"`
	Status           string        `json:"status"`
	Lead             lead.Snapshot `json:"lead"`
	MeetingScheduled bool          `json:"meeting_scheduled"`
	MeetingLink      string        `json:"meeting_link,omitempty"`
	MeetingStart     *time.Time    `json:"meeting_start,omitempty"`
	MeetingEnd       *time.Time    `json:"meeting_end,omitempty"`
	CRMCardID        string        `json:"crm_card_id,omitempty"`
	CRMSyncPending   bool          `json:"crm_sync_pending"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Message is one transcript turn.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnResult is what one user turn produces.
type TurnResult struct {
	Reply        string       `json:"reply"`
	Conversation Conversation `json:"conversation"`
}
