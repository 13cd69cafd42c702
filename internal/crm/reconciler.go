package crm

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/verzel/leadflow/internal/db"
	"github.com/verzel/leadflow/internal/db/sqlc"
	"github.com/verzel/leadflow/internal/lead"
)

// reconcileBatchSize caps how many pending conversations one sweep retries.
const reconcileBatchSize = 50

// Reconciler periodically retries conversations whose last CRM push failed.
type Reconciler struct {
	queries *sqlc.Queries
	syncer  *Syncer
	cron    *cron.Cron
	pattern string
	logger  *slog.Logger
}

// NewReconciler builds a Reconciler sweeping on the given cron pattern.
func NewReconciler(log *slog.Logger, queries *sqlc.Queries, syncer *Syncer, pattern string) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	if pattern == "" {
		pattern = "@every 10m"
	}
	return &Reconciler{
		queries: queries,
		syncer:  syncer,
		cron:    cron.New(),
		pattern: pattern,
		logger:  log.With(slog.String("service", "crm_reconciler")),
	}
}

// Start schedules the sweep. Returns an error when the pattern is invalid.
func (r *Reconciler) Start() error {
	_, err := r.cron.AddFunc(r.pattern, func() {
		r.Sweep(context.Background())
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("crm reconciler started", slog.String("pattern", r.pattern))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Sweep retries every conversation flagged with a pending CRM sync.
func (r *Reconciler) Sweep(ctx context.Context) {
	rows, err := r.queries.ListSyncPendingConversations(ctx, reconcileBatchSize)
	if err != nil {
		r.logger.Error("list pending conversations failed", slog.String("error", err.Error()))
		return
	}
	if len(rows) == 0 {
		return
	}
	r.logger.Info("retrying pending crm syncs", slog.Int("count", len(rows)))

	for _, row := range rows {
		fields := CardFields{
			Snapshot: lead.Snapshot{
				Name:              db.TextToString(row.LeadName),
				Email:             db.TextToString(row.LeadEmail),
				Company:           db.TextToString(row.LeadCompany),
				Phone:             db.TextToString(row.LeadPhone),
				Need:              db.TextToString(row.LeadNeed),
				Deadline:          db.TextToString(row.LeadDeadline),
				InterestConfirmed: row.InterestConfirmed,
			},
			MeetingLink: db.TextToString(row.MeetingLink),
		}
		cardID := db.TextToString(row.CrmCardID)
		result := r.syncer.Sync(ctx, cardID, fields)
		if !result.Synced() {
			continue
		}

		if cardID == "" {
			// The sweep created the card. Claim conditionally: an in-flight
			// conversation sync may have stored its own id since the list ran.
			affected, err := r.queries.ClaimConversationCRMCard(ctx, sqlc.ClaimConversationCRMCardParams{
				ID:        row.ID,
				CrmCardID: db.ToPgText(result.ExternalID),
			})
			if err != nil {
				r.logger.Error("claim crm card failed",
					slog.String("conversation_id", db.UUIDString(row.ID)),
					slog.String("error", err.Error()),
				)
			} else if affected == 0 {
				r.logger.Warn("crm card already claimed, keeping stored id",
					slog.String("conversation_id", db.UUIDString(row.ID)),
					slog.String("orphan_card_id", result.ExternalID),
				)
			}
			continue
		}

		err := r.queries.SetConversationCRMState(ctx, sqlc.SetConversationCRMStateParams{
			ID:             row.ID,
			CrmCardID:      db.ToPgText(cardID),
			CrmSyncPending: false,
		})
		if err != nil {
			r.logger.Error("clear pending flag failed",
				slog.String("conversation_id", db.UUIDString(row.ID)),
				slog.String("error", err.Error()),
			)
		}
	}
}
