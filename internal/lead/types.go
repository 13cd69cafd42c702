// Package lead holds the lead profile model, field merging, and the durable
// lead record service backing the admin API.
package lead

import "time"

// Snapshot is the lead profile accumulated on a conversation so far.
// Empty strings mean the field is still unknown.
type Snapshot struct {
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
	Company           string `json:"company,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Need              string `json:"need,omitempty"`
	Deadline          string `json:"deadline,omitempty"`
	InterestConfirmed bool   `json:"interest_confirmed"`
}

// Partial is the outcome of one extraction pass. Nil pointers mean the model
// did not mention the field in this pass; they never erase existing values.
type Partial struct {
	Name              *string `json:"name"`
	Email             *string `json:"email"`
	Company           *string `json:"company"`
	Phone             *string `json:"phone"`
	Need              *string `json:"need"`
	Deadline          *string `json:"deadline"`
	InterestConfirmed *bool   `json:"interest_confirmed"`
}

// Record is a durable lead row created when a meeting is booked.
type Record struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id,omitempty"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Company        string     `json:"company,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Need           string     `json:"need,omitempty"`
	Deadline       string     `json:"deadline,omitempty"`
	Status         string     `json:"status"`
	MeetingLink    string     `json:"meeting_link,omitempty"`
	MeetingStart   *time.Time `json:"meeting_start,omitempty"`
	MeetingEnd     *time.Time `json:"meeting_end,omitempty"`
	CRMCardID      string     `json:"crm_card_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Lead record statuses.
const (
	StatusNew              = "new"
	StatusContacted        = "contacted"
	StatusQualified        = "qualified"
	StatusMeetingScheduled = "meeting_scheduled"
	StatusClosed           = "closed"
)

// ValidStatus reports whether s is a known lead record status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusMeetingScheduled, StatusClosed:
		return true
	}
	return false
}
