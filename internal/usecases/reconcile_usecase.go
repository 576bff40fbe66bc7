package usecases

import (
	"context"
	"time"

	"go.uber.org/zap"

	"paysentry.backend/internal/domain/entities"
	"paysentry.backend/internal/domain/repositories"
	"paysentry.backend/pkg/logger"
	"paysentry.backend/pkg/metrics"
)

const (
	// DefaultReconcileLimit is the page size when the caller gives none.
	DefaultReconcileLimit = 100
	// MaxReconcileLimit caps the page size accepted from callers.
	MaxReconcileLimit = 100
	// DefaultReconcileWindow is how far back a pass reaches by default.
	DefaultReconcileWindow = 30 * 24 * time.Hour
)

// ReconcileInput parameterizes one reconciliation pass.
type ReconcileInput struct {
	Limit                int64
	CreatedAfter         *time.Time
	StartingAfterEventID string
}

// ReconcileResult summarizes one pass for caller-driven paging.
type ReconcileResult struct {
	Total       int    `json:"total"`
	Processed   int    `json:"processed"`
	Duplicates  int    `json:"duplicates"`
	Failed      int    `json:"failed"`
	LastEventID string `json:"lastEventId,omitempty"`
	HasMore     bool   `json:"hasMore"`
}

// ReconcileUsecase replays recent provider events through the same
// dedupe + convergence pipeline as live ingest. Sharing the dedupe
// store makes a replay of an already-applied event a duplicate, never
// a second application.
type ReconcileUsecase struct {
	lister repositories.EventLister
	events repositories.WebhookEventRepository
	engine *WebhookUsecase
	now    func() time.Time
}

// NewReconcileUsecase creates a new reconcile usecase
func NewReconcileUsecase(lister repositories.EventLister, events repositories.WebhookEventRepository, engine *WebhookUsecase) *ReconcileUsecase {
	return &ReconcileUsecase{lister: lister, events: events, engine: engine, now: time.Now}
}

// Reconcile fetches one page of supported events and feeds each through
// try-begin, process, record-outcome. Cancellation is honored between
// events; a canceled pass leaves claimed entries to lease recovery.
func (u *ReconcileUsecase) Reconcile(ctx context.Context, input ReconcileInput) (*ReconcileResult, error) {
	limit := input.Limit
	if limit < 1 || limit > MaxReconcileLimit {
		limit = DefaultReconcileLimit
	}
	createdAfter := u.now().Add(-DefaultReconcileWindow)
	if input.CreatedAfter != nil {
		createdAfter = *input.CreatedAfter
	}

	page, err := u.lister.ListEvents(ctx, repositories.EventListQuery{
		Types:              entities.SupportedEventTypes(),
		CreatedAfterUnix:   createdAfter.Unix(),
		Limit:              limit,
		StartingAfterEvent: input.StartingAfterEventID,
	})
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		LastEventID: page.LastEventID,
		HasMore:     page.HasMore,
	}
	for _, parsed := range page.Events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Total++

		eventCtx := logger.WithEvent(ctx, parsed.ID)
		began, err := u.events.TryBegin(eventCtx, parsed.ID)
		if err != nil {
			result.Failed++
			metrics.ObserveEvent(metrics.SourceReconcile, "failed")
			continue
		}
		if !began {
			result.Duplicates++
			metrics.ObserveEvent(metrics.SourceReconcile, "duplicate")
			continue
		}

		outcome := u.engine.Process(eventCtx, parsed)
		if err := u.events.RecordOutcome(eventCtx, parsed.ID, outcome); err != nil {
			result.Failed++
			metrics.ObserveEvent(metrics.SourceReconcile, "failed")
			continue
		}
		if outcome.Succeeded {
			result.Processed++
			metrics.ObserveEvent(metrics.SourceReconcile, "applied")
		} else {
			result.Failed++
			metrics.ObserveEvent(metrics.SourceReconcile, "failed")
		}
	}

	logger.Info(ctx, "Reconciliation pass finished",
		zap.Int("total", result.Total),
		zap.Int("processed", result.Processed),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("failed", result.Failed),
		zap.String("last_event_id", result.LastEventID),
		zap.Bool("has_more", result.HasMore),
	)
	return result, nil
}
