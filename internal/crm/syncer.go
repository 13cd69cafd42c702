package crm

import (
	"context"
	"log/slog"
)

// Sync statuses.
const (
	StatusSynced = "synced"
	StatusFailed = "failed"
)

// SyncResult reports one sync attempt. A failed attempt carries the reason;
// the caller decides whether to retry later, never inline.
type SyncResult struct {
	Status     string
	ExternalID string
	Reason     string
}

// Synced reports whether the attempt reached the CRM.
func (r SyncResult) Synced() bool {
	return r.Status == StatusSynced
}

// API is the card surface of the CRM.
type API interface {
	CreateCard(ctx context.Context, fields CardFields) (string, error)
	UpdateCard(ctx context.Context, cardID string, fields CardFields) error
}

// Syncer pushes lead profiles to the CRM, creating each conversation's card
// exactly once and updating it afterwards.
type Syncer struct {
	api    API
	logger *slog.Logger
}

// NewSyncer builds a Syncer over the given CRM API.
func NewSyncer(log *slog.Logger, api API) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{
		api:    api,
		logger: log.With(slog.String("service", "crm_sync")),
	}
}

// Sync pushes the profile. When cardID is empty a card is created, otherwise
// the existing card is updated. Failures are reported, not returned: a CRM
// outage must never break the conversation flow.
func (s *Syncer) Sync(ctx context.Context, cardID string, fields CardFields) SyncResult {
	if cardID == "" {
		created, err := s.api.CreateCard(ctx, fields)
		if err != nil {
			s.logger.Warn("crm card create failed", slog.String("error", err.Error()))
			return SyncResult{Status: StatusFailed, Reason: err.Error()}
		}
		s.logger.Info("crm card created", slog.String("card_id", created))
		return SyncResult{Status: StatusSynced, ExternalID: created}
	}

	if err := s.api.UpdateCard(ctx, cardID, fields); err != nil {
		s.logger.Warn("crm card update failed",
			slog.String("card_id", cardID),
			slog.String("error", err.Error()),
		)
		return SyncResult{Status: StatusFailed, ExternalID: cardID, Reason: err.Error()}
	}
	return SyncResult{Status: StatusSynced, ExternalID: cardID}
}
