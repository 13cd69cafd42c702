package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verzel/leadflow/internal/calendar"
	"github.com/verzel/leadflow/internal/crm"
	"github.com/verzel/leadflow/internal/lead"
	"github.com/verzel/leadflow/internal/llm"
	"github.com/verzel/leadflow/internal/slots"
)

// Errors returned by conversation operations.
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message content is empty")
	ErrInterestNotConfirmed = errors.New("interest has not been confirmed")
	ErrIncompleteLeadInfo   = errors.New("lead name and email are required to schedule")
	ErrAlreadyScheduled     = errors.New("meeting is already scheduled")
	ErrInvalidSlot          = errors.New("invalid meeting slot")
	ErrGenerationFailed     = errors.New("reply generation failed")
	ErrBookingFailed        = errors.New("meeting booking failed")
)

// Service runs the qualification flow over its collaborators.
type Service struct {
	store       Store
	generator   Generator
	extractor   Extractor
	calendar    Calendar
	syncer      CRMSyncer
	leads       LeadRecorder
	notifier    Notifier
	locks       *sessionLocks
	location    *time.Location
	horizonDays int
	logger      *slog.Logger
}

// NewService wires the conversation orchestrator.
func NewService(
	log *slog.Logger,
	store Store,
	generator Generator,
	extractor Extractor,
	cal Calendar,
	syncer CRMSyncer,
	leads LeadRecorder,
	notifier Notifier,
	location *time.Location,
	horizonDays int,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	if location == nil {
		location = time.Local
	}
	if horizonDays <= 0 {
		horizonDays = 7
	}
	return &Service{
		store:       store,
		generator:   generator,
		extractor:   extractor,
		calendar:    cal,
		syncer:      syncer,
		leads:       leads,
		notifier:    notifier,
		locks:       newSessionLocks(),
		location:    location,
		horizonDays: horizonDays,
		logger:      log.With(slog.String("service", "conversation")),
	}
}

// StartResult is the payload returned when a session is (re)opened.
type StartResult struct {
	Conversation Conversation `json:"conversation"`
	Messages     []Message    `json:"messages"`
}

// Start opens the session's conversation. Starting an existing session is a
// no-op that returns the current state, so clients can reconnect freely.
func (s *Service) Start(ctx context.Context, sessionID string) (StartResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return StartResult{}, fmt.Errorf("session id is required")
	}
	release := s.locks.acquire(sessionID)
	defer release()

	conv, err := s.store.GetBySessionID(ctx, sessionID)
	if err == nil {
		messages, err := s.store.ListMessages(ctx, conv.ID)
		if err != nil {
			return StartResult{}, err
		}
		return StartResult{Conversation: conv, Messages: messages}, nil
	}
	if !errors.Is(err, ErrConversationNotFound) {
		return StartResult{}, err
	}

	conv, err = s.store.Create(ctx, sessionID)
	if err != nil {
		return StartResult{}, err
	}
	greeting, err := s.store.AppendMessage(ctx, conv.ID, RoleAssistant, welcomeMessage)
	if err != nil {
		return StartResult{}, err
	}
	s.logger.Info("conversation started",
		slog.String("conversation_id", conv.ID),
		slog.String("session_id", sessionID),
	)
	return StartResult{Conversation: conv, Messages: []Message{greeting}}, nil
}

// SendMessage records the user turn, generates the assistant reply, and runs
// the extraction/merge/CRM pipeline. Reply generation failing fails the turn;
// extraction or CRM failing never does.
func (s *Service) SendMessage(ctx context.Context, sessionID, content string) (TurnResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return TurnResult{}, ErrEmptyMessage
	}
	release := s.locks.acquire(sessionID)
	defer release()

	conv, err := s.store.GetBySessionID(ctx, sessionID)
	if err != nil {
		return TurnResult{}, err
	}

	if _, err := s.store.AppendMessage(ctx, conv.ID, RoleUser, content); err != nil {
		return TurnResult{}, err
	}
	messages, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		return TurnResult{}, err
	}
	history := toLLMHistory(messages)

	var (
		reply      string
		extracted  lead.Partial
		extractErr error
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var genErr error
		reply, genErr = s.generator.GenerateReply(groupCtx, history)
		return genErr
	})
	group.Go(func() error {
		extracted, extractErr = s.extractor.ExtractLead(groupCtx, history)
		// Extraction failing must not fail the turn.
		return nil
	})
	if err := group.Wait(); err != nil {
		return TurnResult{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if _, err := s.store.AppendMessage(ctx, conv.ID, RoleAssistant, reply); err != nil {
		return TurnResult{}, err
	}

	if extractErr != nil {
		s.logger.Warn("lead extraction failed",
			slog.String("conversation_id", conv.ID),
			slog.String("error", extractErr.Error()),
		)
	} else {
		conv, err = s.applyExtraction(ctx, conv, extracted)
		if err != nil {
			return TurnResult{}, err
		}
	}

	return TurnResult{Reply: reply, Conversation: conv}, nil
}

// applyExtraction merges the pass into the stored profile and pushes the
// result to the CRM once the lead qualified (interest confirmed and email
// known). The CRM push is best-effort; a failure only marks the row pending.
func (s *Service) applyExtraction(ctx context.Context, conv Conversation, extracted lead.Partial) (Conversation, error) {
	merged := lead.Merge(conv.Lead, extracted)
	if merged == conv.Lead {
		return conv, nil
	}

	status := conv.Status
	if merged.InterestConfirmed && status == StatusActive {
		status = StatusQualified
	}
	updated, err := s.store.UpdateLead(ctx, conv.ID, merged, status)
	if err != nil {
		return conv, err
	}

	if !merged.InterestConfirmed || merged.Email == "" {
		return updated, nil
	}

	result := s.syncer.Sync(ctx, updated.CRMCardID, crm.CardFields{
		Snapshot:    updated.Lead,
		MeetingLink: updated.MeetingLink,
	})

	if updated.CRMCardID != "" {
		if err := s.store.SetCRMState(ctx, updated.ID, updated.CRMCardID, !result.Synced()); err != nil {
			s.logger.Error("persist crm state failed",
				slog.String("conversation_id", updated.ID),
				slog.String("error", err.Error()),
			)
		} else {
			updated.CRMSyncPending = !result.Synced()
		}
		return updated, nil
	}

	if !result.Synced() {
		if err := s.store.SetCRMState(ctx, updated.ID, "", true); err != nil {
			s.logger.Error("persist crm state failed",
				slog.String("conversation_id", updated.ID),
				slog.String("error", err.Error()),
			)
		} else {
			updated.CRMSyncPending = true
		}
		return updated, nil
	}

	// The push created a card. The claim is conditional on the row still
	// having none, so a concurrent creator cannot be overwritten.
	claimed, err := s.store.ClaimCRMCard(ctx, updated.ID, result.ExternalID)
	if err != nil {
		s.logger.Error("claim crm card failed",
			slog.String("conversation_id", updated.ID),
			slog.String("card_id", result.ExternalID),
			slog.String("error", err.Error()),
		)
		return updated, nil
	}
	if claimed {
		updated.CRMCardID = result.ExternalID
		updated.CRMSyncPending = false
		return updated, nil
	}
	s.logger.Warn("crm card already claimed, keeping stored id",
		slog.String("conversation_id", updated.ID),
		slog.String("orphan_card_id", result.ExternalID),
	)
	if refreshed, err := s.store.GetBySessionID(ctx, updated.SessionID); err == nil {
		updated.CRMCardID = refreshed.CRMCardID
		updated.CRMSyncPending = refreshed.CRMSyncPending
	}
	return updated, nil
}

// History returns the session's transcript in order.
func (s *Service) History(ctx context.Context, sessionID string) ([]Message, error) {
	conv, err := s.store.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, conv.ID)
}

// AvailableSlots offers meeting windows once the lead confirmed interest.
func (s *Service) AvailableSlots(ctx context.Context, sessionID string) ([]slots.Slot, error) {
	conv, err := s.store.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !conv.Lead.InterestConfirmed {
		return nil, ErrInterestNotConfirmed
	}

	now := time.Now().In(s.location)
	from, to := s.busyWindow(now)
	busy, err := s.calendar.BusyIntervals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return slots.Compute(busy, s.horizonDays, now, s.location), nil
}

// busyWindow bounds the calendar fetch for slot computation: local midnight
// after now through the end of the offer horizon. Midnight is computed in
// s.location so the first candidate day's events are always inside the window.
func (s *Service) busyWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, s.location)
	return from, from.AddDate(0, 0, s.horizonDays+1)
}

// Schedule books the chosen slot, writes the durable lead record, updates
// the CRM card, and notifies the sales team.
func (s *Service) Schedule(ctx context.Context, sessionID string, start, end time.Time) (Conversation, error) {
	release := s.locks.acquire(sessionID)
	defer release()

	conv, err := s.store.GetBySessionID(ctx, sessionID)
	if err != nil {
		return Conversation{}, err
	}
	if conv.MeetingScheduled {
		return Conversation{}, ErrAlreadyScheduled
	}
	if !conv.Lead.InterestConfirmed {
		return Conversation{}, ErrInterestNotConfirmed
	}
	if !conv.Lead.Complete() {
		return Conversation{}, ErrIncompleteLeadInfo
	}
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return Conversation{}, ErrInvalidSlot
	}

	booking, err := s.calendar.CreateMeeting(ctx, calendar.CreateMeetingParams{
		LeadName:  conv.Lead.Name,
		LeadEmail: conv.Lead.Email,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return Conversation{}, fmt.Errorf("%w: %w", ErrBookingFailed, err)
	}

	conv, err = s.store.SetMeeting(ctx, conv.ID, booking.MeetingLink, start, end, StatusScheduled)
	if err != nil {
		return Conversation{}, err
	}

	confirmation := fmt.Sprintf("Perfeito! Sua reunião está agendada para %s. O convite foi enviado para %s.",
		slots.FormatSlot(start.In(s.location)), conv.Lead.Email)
	if _, err := s.store.AppendMessage(ctx, conv.ID, RoleAssistant, confirmation); err != nil {
		s.logger.Warn("record confirmation failed",
			slog.String("conversation_id", conv.ID),
			slog.String("error", err.Error()),
		)
	}

	record, err := s.leads.Create(ctx, lead.CreateParams{
		ConversationID: conv.ID,
		Snapshot:       conv.Lead,
		Status:         lead.StatusMeetingScheduled,
		MeetingLink:    booking.MeetingLink,
		MeetingStart:   start,
		MeetingEnd:     end,
		CRMCardID:      conv.CRMCardID,
	})
	if err != nil {
		s.logger.Error("create lead record failed",
			slog.String("conversation_id", conv.ID),
			slog.String("error", err.Error()),
		)
	}

	// Booking never creates a CRM card. A conversation without one is still
	// marked pending from the failed qualification sync and the reconciler
	// picks it up with the meeting details already on the row.
	if conv.CRMCardID != "" {
		result := s.syncer.Sync(ctx, conv.CRMCardID, crm.CardFields{
			Snapshot:    conv.Lead,
			MeetingLink: booking.MeetingLink,
		})
		if err := s.store.SetCRMState(ctx, conv.ID, conv.CRMCardID, !result.Synced()); err != nil {
			s.logger.Error("persist crm state failed",
				slog.String("conversation_id", conv.ID),
				slog.String("error", err.Error()),
			)
		} else {
			conv.CRMSyncPending = !result.Synced()
		}
	}

	if s.notifier != nil && record.ID != "" {
		s.notifier.MeetingBooked(ctx, record)
	}

	s.logger.Info("meeting scheduled",
		slog.String("conversation_id", conv.ID),
		slog.Time("start", start),
	)
	return conv, nil
}

func toLLMHistory(messages []Message) []llm.Message {
	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}
	return history
}
