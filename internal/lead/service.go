package lead

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/verzel/leadflow/internal/db"
	"github.com/verzel/leadflow/internal/db/sqlc"
)

// Errors returned by lead record operations.
var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid lead status")
)

// Service manages the durable lead records created on booking.
type Service struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a new lead record service.
func NewService(log *slog.Logger, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "lead")),
	}
}

// CreateParams is the input for creating a durable lead record.
type CreateParams struct {
	ConversationID string
	Snapshot       Snapshot
	Status         string
	MeetingLink    string
	MeetingStart   time.Time
	MeetingEnd     time.Time
	CRMCardID      string
}

// Create writes a durable lead record. Name and email are required.
func (s *Service) Create(ctx context.Context, params CreateParams) (Record, error) {
	if !params.Snapshot.Complete() {
		return Record{}, errors.New("lead name and email are required")
	}
	status := params.Status
	if status == "" {
		status = StatusNew
	}
	if !ValidStatus(status) {
		return Record{}, ErrInvalidStatus
	}

	var convID pgtype.UUID
	if params.ConversationID != "" {
		parsed, err := db.ParseUUID(params.ConversationID)
		if err != nil {
			return Record{}, err
		}
		convID = parsed
	}

	row, err := s.queries.CreateLead(ctx, sqlc.CreateLeadParams{
		ConversationID: convID,
		Name:           params.Snapshot.Name,
		Email:          params.Snapshot.Email,
		Company:        db.ToPgText(params.Snapshot.Company),
		Phone:          db.ToPgText(params.Snapshot.Phone),
		Need:           db.ToPgText(params.Snapshot.Need),
		Deadline:       db.ToPgText(params.Snapshot.Deadline),
		Status:         status,
		MeetingLink:    db.ToPgText(params.MeetingLink),
		MeetingStart:   toPgTime(params.MeetingStart),
		MeetingEnd:     toPgTime(params.MeetingEnd),
		CrmCardID:      db.ToPgText(params.CRMCardID),
	})
	if err != nil {
		return Record{}, fmt.Errorf("create lead: %w", err)
	}
	s.logger.Info("lead record created",
		slog.String("lead_id", db.UUIDString(row.ID)),
		slog.String("status", row.Status),
	)
	return toRecord(row), nil
}

// ListPage is one page of lead records.
type ListPage struct {
	Leads  []Record `json:"leads"`
	Total  int64    `json:"total"`
	Limit  int32    `json:"limit"`
	Offset int32    `json:"offset"`
}

// List returns lead records newest first.
func (s *Service) List(ctx context.Context, limit, offset int32) (ListPage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	total, err := s.queries.CountLeads(ctx)
	if err != nil {
		return ListPage{}, fmt.Errorf("count leads: %w", err)
	}
	rows, err := s.queries.ListLeads(ctx, sqlc.ListLeadsParams{Limit: limit, Offset: offset})
	if err != nil {
		return ListPage{}, fmt.Errorf("list leads: %w", err)
	}

	leads := make([]Record, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, toRecord(row))
	}
	return ListPage{Leads: leads, Total: total, Limit: limit, Offset: offset}, nil
}

// Get returns one lead record by id.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return Record{}, ErrLeadNotFound
	}
	row, err := s.queries.GetLeadByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrLeadNotFound
		}
		return Record{}, fmt.Errorf("get lead: %w", err)
	}
	return toRecord(row), nil
}

// UpdateStatus moves a lead record to a new status.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Record, error) {
	if !ValidStatus(status) {
		return Record{}, ErrInvalidStatus
	}
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return Record{}, ErrLeadNotFound
	}
	row, err := s.queries.UpdateLeadStatus(ctx, sqlc.UpdateLeadStatusParams{ID: pgID, Status: status})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrLeadNotFound
		}
		return Record{}, fmt.Errorf("update lead status: %w", err)
	}
	s.logger.Info("lead status updated",
		slog.String("lead_id", id),
		slog.String("status", status),
	)
	return toRecord(row), nil
}

func toRecord(row sqlc.Lead) Record {
	rec := Record{
		ID:             db.UUIDString(row.ID),
		ConversationID: db.UUIDString(row.ConversationID),
		Name:           row.Name,
		Email:          row.Email,
		Company:        db.TextToString(row.Company),
		Phone:          db.TextToString(row.Phone),
		Need:           db.TextToString(row.Need),
		Deadline:       db.TextToString(row.Deadline),
		Status:         row.Status,
		MeetingLink:    db.TextToString(row.MeetingLink),
		CRMCardID:      db.TextToString(row.CrmCardID),
		CreatedAt:      db.TimeFromPg(row.CreatedAt),
		UpdatedAt:      db.TimeFromPg(row.UpdatedAt),
	}
	if row.MeetingStart.Valid {
		t := row.MeetingStart.Time
		rec.MeetingStart = &t
	}
	if row.MeetingEnd.Valid {
		t := row.MeetingEnd.Time
		rec.MeetingEnd = &t
	}
	return rec
}

func toPgTime(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}
