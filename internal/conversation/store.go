package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/verzel/leadflow/internal/db"
	"github.com/verzel/leadflow/internal/db/sqlc"
	"github.com/verzel/leadflow/internal/lead"
)

// sqlStore backs Store with the sqlc query layer.
type sqlStore struct {
	queries *sqlc.Queries
}

// NewStore builds the PostgreSQL-backed conversation store.
func NewStore(queries *sqlc.Queries) Store {
	return &sqlStore{queries: queries}
}

func (s *sqlStore) Create(ctx context.Context, sessionID string) (Conversation, error) {
	row, err := s.queries.CreateConversation(ctx, sessionID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return s.GetBySessionID(ctx, sessionID)
		}
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return toConversation(row), nil
}

func (s *sqlStore) GetBySessionID(ctx context.Context, sessionID string) (Conversation, error) {
	row, err := s.queries.GetConversationBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Conversation{}, ErrConversationNotFound
		}
		return Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	return toConversation(row), nil
}

func (s *sqlStore) AppendMessage(ctx context.Context, conversationID, role, content string) (Message, error) {
	pgID, err := db.ParseUUID(conversationID)
	if err != nil {
		return Message{}, err
	}
	row, err := s.queries.CreateMessage(ctx, sqlc.CreateMessageParams{
		ConversationID: pgID,
		Role:           role,
		Content:        content,
	})
	if err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	return toMessage(row), nil
}

func (s *sqlStore) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	pgID, err := db.ParseUUID(conversationID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListMessagesByConversation(ctx, pgID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	messages := make([]Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, toMessage(row))
	}
	return messages, nil
}

func (s *sqlStore) UpdateLead(ctx context.Context, conversationID string, snapshot lead.Snapshot, status string) (Conversation, error) {
	pgID, err := db.ParseUUID(conversationID)
	if err != nil {
		return Conversation{}, err
	}
	row, err := s.queries.UpdateConversationLead(ctx, sqlc.UpdateConversationLeadParams{
		ID:                pgID,
		LeadName:          db.ToPgText(snapshot.Name),
		LeadEmail:         db.ToPgText(snapshot.Email),
		LeadCompany:       db.ToPgText(snapshot.Company),
		LeadPhone:         db.ToPgText(snapshot.Phone),
		LeadNeed:          db.ToPgText(snapshot.Need),
		LeadDeadline:      db.ToPgText(snapshot.Deadline),
		InterestConfirmed: snapshot.InterestConfirmed,
		Status:            status,
	})
	if err != nil {
		return Conversation{}, fmt.Errorf("update conversation lead: %w", err)
	}
	return toConversation(row), nil
}

func (s *sqlStore) SetCRMState(ctx context.Context, conversationID, cardID string, pending bool) error {
	pgID, err := db.ParseUUID(conversationID)
	if err != nil {
		return err
	}
	err = s.queries.SetConversationCRMState(ctx, sqlc.SetConversationCRMStateParams{
		ID:             pgID,
		CrmCardID:      db.ToPgText(cardID),
		CrmSyncPending: pending,
	})
	if err != nil {
		return fmt.Errorf("set crm state: %w", err)
	}
	return nil
}

// ClaimCRMCard persists a freshly created card id. The update is conditional
// on the row having no card yet; false means another writer claimed first.
func (s *sqlStore) ClaimCRMCard(ctx context.Context, conversationID, cardID string) (bool, error) {
	pgID, err := db.ParseUUID(conversationID)
	if err != nil {
		return false, err
	}
	affected, err := s.queries.ClaimConversationCRMCard(ctx, sqlc.ClaimConversationCRMCardParams{
		ID:        pgID,
		CrmCardID: db.ToPgText(cardID),
	})
	if err != nil {
		return false, fmt.Errorf("claim crm card: %w", err)
	}
	return affected > 0, nil
}

func (s *sqlStore) SetMeeting(ctx context.Context, conversationID, link string, start, end time.Time, status string) (Conversation, error) {
	pgID, err := db.ParseUUID(conversationID)
	if err != nil {
		return Conversation{}, err
	}
	row, err := s.queries.SetConversationMeeting(ctx, sqlc.SetConversationMeetingParams{
		ID:           pgID,
		MeetingLink:  db.ToPgText(link),
		MeetingStart: pgtype.Timestamptz{Time: start, Valid: true},
		MeetingEnd:   pgtype.Timestamptz{Time: end, Valid: true},
		Status:       status,
	})
	if err != nil {
		return Conversation{}, fmt.Errorf("set meeting: %w", err)
	}
	return toConversation(row), nil
}

func toConversation(row sqlc.Conversation) Conversation {
	conv := Conversation{
		ID:        db.UUIDString(row.ID),
		SessionID: row.SessionID,
		Status:    row.Status,
		Lead: lead.Snapshot{
			Name:              db.TextToString(row.LeadName),
			Email:             db.TextToString(row.LeadEmail),
			Company:           db.TextToString(row.LeadCompany),
			Phone:             db.TextToString(row.LeadPhone),
			Need:              db.TextToString(row.LeadNeed),
			Deadline:          db.TextToString(row.LeadDeadline),
			InterestConfirmed: row.InterestConfirmed,
		},
		MeetingScheduled: row.MeetingScheduled,
		MeetingLink:      db.TextToString(row.MeetingLink),
		CRMCardID:        db.TextToString(row.CrmCardID),
		CRMSyncPending:   row.CrmSyncPending,
		CreatedAt:        db.TimeFromPg(row.CreatedAt),
		UpdatedAt:        db.TimeFromPg(row.UpdatedAt),
	}
	if row.MeetingStart.Valid {
		t := row.MeetingStart.Time
		conv.MeetingStart = &t
	}
	if row.MeetingEnd.Valid {
		t := row.MeetingEnd.Time
		conv.MeetingEnd = &t
	}
	return conv
}

func toMessage(row sqlc.Message) Message {
	return Message{
		ID:        db.UUIDString(row.ID),
		Role:      row.Role,
		Content:   row.Content,
		CreatedAt: db.TimeFromPg(row.CreatedAt),
	}
}
