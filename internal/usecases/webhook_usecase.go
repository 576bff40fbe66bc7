package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"paysentry.backend/internal/config"
	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
	"paysentry.backend/internal/domain/repositories"
	"paysentry.backend/internal/infrastructure/stripe"
	"paysentry.backend/pkg/logger"
	"paysentry.backend/pkg/metrics"
)

// IngestStatus classifies a pipeline run for the HTTP layer.
type IngestStatus string

const (
	// IngestApplied: the event was applied (or acknowledged as a no-op)
	// and a success outcome recorded.
	IngestApplied IngestStatus = "applied"
	// IngestDuplicate: a terminal duplicate; the previous outcome succeeded.
	IngestDuplicate IngestStatus = "duplicate"
	// IngestInProgress: a non-terminal duplicate; another delivery holds
	// the lease or the last attempt failed and was not reclaimed here.
	IngestInProgress IngestStatus = "in_progress"
	// IngestFailed: this delivery ran and recorded a failed outcome.
	IngestFailed IngestStatus = "failed"
)

// IngestResult is the pipeline verdict for one delivery.
type IngestResult struct {
	Status    IngestStatus
	EventID   string
	EventType string
	Outcome   *entities.WebhookEventOutcome
}

// EventVerifier authenticates a raw delivery and extracts its header.
type EventVerifier interface {
	Verify(rawBody []byte, signatureHeader string) (*stripe.EventHeader, error)
}

// WebhookUsecase runs the ingest pipeline: verify, claim the event id,
// parse, converge records, record the outcome. It is stateless apart
// from its store references; any number may run concurrently.
type WebhookUsecase struct {
	verifier      EventVerifier
	events        repositories.WebhookEventRepository
	payments      repositories.PaymentRecordRepository
	subscriptions repositories.SubscriptionRecordRepository
	refunds       repositories.RefundRecordRepository
	lookup        repositories.ObjectLookup
	modules       config.ModulesConfig
	now           func() time.Time
}

// NewWebhookUsecase creates a new webhook usecase
func NewWebhookUsecase(
	verifier EventVerifier,
	events repositories.WebhookEventRepository,
	payments repositories.PaymentRecordRepository,
	subscriptions repositories.SubscriptionRecordRepository,
	refunds repositories.RefundRecordRepository,
	lookup repositories.ObjectLookup,
	modules config.ModulesConfig,
) *WebhookUsecase {
	return &WebhookUsecase{
		verifier:      verifier,
		events:        events,
		payments:      payments,
		subscriptions: subscriptions,
		refunds:       refunds,
		lookup:        lookup,
		modules:       modules,
		now:           time.Now,
	}
}

// Ingest runs the full pipeline on a raw delivery. Signature and
// payload errors return before the dedupe store is touched; everything
// after the claim is converted into a recorded outcome.
func (u *WebhookUsecase) Ingest(ctx context.Context, rawBody []byte, signatureHeader string) (*IngestResult, error) {
	started := time.Now()
	defer func() { metrics.IngestDuration.Observe(time.Since(started).Seconds()) }()

	header, err := u.verifier.Verify(rawBody, signatureHeader)
	if err != nil {
		metrics.ObserveEvent(metrics.SourceWebhook, "rejected")
		return nil, err
	}

	ctx = logger.WithEvent(ctx, header.ID)

	began, err := u.events.TryBegin(ctx, header.ID)
	if err != nil {
		return nil, err
	}
	if !began {
		existing, err := u.events.GetOutcome(ctx, header.ID)
		if err != nil {
			return nil, err
		}
		result := &IngestResult{EventID: header.ID, EventType: header.Type, Outcome: existing}
		if existing != nil && existing.Succeeded {
			result.Status = IngestDuplicate
		} else {
			result.Status = IngestInProgress
		}
		metrics.ObserveEvent(metrics.SourceWebhook, "duplicate")
		logger.Info(ctx, "Duplicate delivery",
			zap.String("event_type", header.Type),
			zap.String("status", string(result.Status)),
			zap.Bool("duplicate", true),
		)
		return result, nil
	}

	var outcome entities.WebhookEventOutcome
	parsed, err := stripe.ParseRaw(rawBody)
	if err != nil {
		outcome = entities.FailureOutcome(u.now(), fmt.Sprintf("event %s: %v", header.ID, err))
	} else {
		outcome = u.Process(ctx, parsed)
	}

	if err := u.events.RecordOutcome(ctx, header.ID, outcome); err != nil {
		return nil, err
	}

	result := &IngestResult{EventID: header.ID, EventType: header.Type, Outcome: &outcome}
	if outcome.Succeeded {
		result.Status = IngestApplied
		metrics.ObserveEvent(metrics.SourceWebhook, "applied")
	} else {
		result.Status = IngestFailed
		metrics.ObserveEvent(metrics.SourceWebhook, "failed")
	}
	return result, nil
}

// Process dispatches a parsed event onto its target record and returns
// the outcome to record. Unrecognized event types, disabled modules and
// transitions rejected by the admission predicates are acknowledged as
// no-op successes so the provider stops redelivering.
func (u *WebhookUsecase) Process(ctx context.Context, parsed *entities.ParsedEvent) entities.WebhookEventOutcome {
	var err error
	switch parsed.Type {
	case entities.EventPaymentIntentSucceeded:
		err = u.applyPayment(ctx, parsed, entities.PaymentStatusSucceeded)
	case entities.EventPaymentIntentFailed:
		err = u.applyPayment(ctx, parsed, entities.PaymentStatusFailed)
	case entities.EventInvoicePaymentSucceeded:
		err = u.applySubscription(ctx, parsed, entities.SubscriptionStatusActive)
	case entities.EventInvoicePaymentFailed:
		err = u.applySubscription(ctx, parsed, entities.SubscriptionStatusPastDue)
	case entities.EventSubscriptionDeleted:
		err = u.applySubscription(ctx, parsed, entities.SubscriptionStatusCanceled)
	case entities.EventSubscriptionCreated, entities.EventSubscriptionUpdated:
		if status, ok := subscriptionStatusFromObject(parsed.ObjectStatus); ok {
			err = u.applySubscription(ctx, parsed, status)
		}
	case entities.EventRefundCreated, entities.EventRefundUpdated:
		if status, ok := refundStatusFromObject(parsed.ObjectStatus); ok {
			err = u.applyRefund(ctx, parsed, status)
		}
	case entities.EventRefundFailed:
		err = u.applyRefund(ctx, parsed, entities.RefundStatusFailed)
	default:
		logger.Debug(ctx, "Ignoring unhandled event type", zap.String("event_type", parsed.Type))
	}

	if err != nil {
		logger.Warn(ctx, "Event processing failed",
			zap.String("event_type", parsed.Type),
			zap.Error(err),
		)
		return entities.FailureOutcome(u.now(), fmt.Sprintf("event %s (%s): %v", parsed.ID, parsed.Type, err))
	}
	return entities.SuccessOutcome(u.now())
}

func (u *WebhookUsecase) applyPayment(ctx context.Context, parsed *entities.ParsedEvent, incoming entities.PaymentRecordStatus) error {
	if !u.modules.PaymentsEnabled {
		logger.Debug(ctx, "Payments module disabled; event ignored")
		return nil
	}

	record, paymentIntentID, err := u.findPaymentRecord(ctx, parsed)
	if err != nil {
		return err
	}

	if !record.Admits(incoming, parsed.CreatedAt) {
		logger.Debug(ctx, "Payment transition rejected",
			zap.String("business_payment_id", record.BusinessPaymentID),
			zap.String("current", string(record.Status)),
			zap.String("incoming", string(incoming)),
		)
		return nil
	}

	successor := record.WithTransition(incoming, parsed.CreatedAt)
	successor.PaymentIntentID = null.StringFrom(paymentIntentID)
	if parsed.ChargeID.Valid {
		successor.ChargeID = parsed.ChargeID
	}
	if err := u.payments.Save(ctx, &successor); err != nil {
		return err
	}

	logger.Info(ctx, "Payment record converged",
		zap.String("user_id", record.UserID),
		zap.String("business_payment_id", record.BusinessPaymentID),
		zap.String("payment_intent_id", paymentIntentID),
		zap.String("status", string(incoming)),
	)
	return nil
}

func (u *WebhookUsecase) applySubscription(ctx context.Context, parsed *entities.ParsedEvent, incoming entities.SubscriptionRecordStatus) error {
	if !u.modules.BillingEnabled {
		logger.Debug(ctx, "Billing module disabled; event ignored")
		return nil
	}

	record, subscriptionID, err := u.findSubscriptionRecord(ctx, parsed)
	if err != nil {
		return err
	}

	if !record.Admits(incoming, parsed.CreatedAt) {
		logger.Debug(ctx, "Subscription transition rejected",
			zap.String("business_subscription_id", record.BusinessSubscriptionID),
			zap.String("current", string(record.Status)),
			zap.String("incoming", string(incoming)),
		)
		return nil
	}

	successor := record.WithTransition(incoming, parsed.CreatedAt)
	successor.SubscriptionID = null.StringFrom(subscriptionID)
	if parsed.CustomerID.Valid {
		successor.CustomerID = parsed.CustomerID
	}
	if err := u.subscriptions.Save(ctx, &successor); err != nil {
		return err
	}

	logger.Info(ctx, "Subscription record converged",
		zap.String("user_id", record.UserID),
		zap.String("business_subscription_id", record.BusinessSubscriptionID),
		zap.String("subscription_id", subscriptionID),
		zap.String("status", string(incoming)),
	)
	return nil
}

func (u *WebhookUsecase) applyRefund(ctx context.Context, parsed *entities.ParsedEvent, incoming entities.RefundRecordStatus) error {
	if !u.modules.RefundsEnabled {
		logger.Debug(ctx, "Refunds module disabled; event ignored")
		return nil
	}

	refundID := parsed.RefundID.String
	if refundID == "" {
		refundID = parsed.ObjectID.String
	}
	if refundID == "" {
		return domainerrors.ErrMissingLinkedID
	}

	record, err := u.refunds.GetByProviderID(ctx, refundID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.ErrRecordNotFound
	}
	if err != nil {
		return err
	}

	// Refunds have no precedence ladder; the parsed status applies
	// unconditionally once the record is resolved.
	successor := record.WithStatus(incoming)
	if parsed.PaymentIntentID.Valid {
		successor.PaymentIntentID = parsed.PaymentIntentID
	}
	if err := u.refunds.Save(ctx, &successor); err != nil {
		return err
	}

	logger.Info(ctx, "Refund record converged",
		zap.String("user_id", record.UserID),
		zap.String("business_refund_id", record.BusinessRefundID),
		zap.String("refund_id", refundID),
		zap.String("status", string(incoming)),
	)
	return nil
}

// findPaymentRecord resolves the payment intent id (falling back to the
// object lookup for thin events) and locates the target record by
// provider id, then by staged business id.
func (u *WebhookUsecase) findPaymentRecord(ctx context.Context, parsed *entities.ParsedEvent) (*entities.PaymentRecord, string, error) {
	paymentIntentID := parsed.PaymentIntentID.String
	if paymentIntentID == "" && parsed.ObjectID.Valid {
		resolved, err := u.lookup.GetPaymentIntentID(ctx, parsed.ObjectID.String)
		if err != nil {
			return nil, "", err
		}
		paymentIntentID = resolved
	}
	if paymentIntentID == "" {
		return nil, "", domainerrors.ErrMissingLinkedID
	}

	record, err := u.payments.GetByProviderID(ctx, paymentIntentID)
	if err == nil {
		return record, paymentIntentID, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, "", err
	}

	if parsed.BusinessPaymentID.Valid {
		record, err = u.payments.GetByBusinessID(ctx, parsed.BusinessPaymentID.String)
		if err == nil {
			return record, paymentIntentID, nil
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, "", err
		}
	}
	return nil, "", domainerrors.ErrRecordNotFound
}

func (u *WebhookUsecase) findSubscriptionRecord(ctx context.Context, parsed *entities.ParsedEvent) (*entities.SubscriptionRecord, string, error) {
	subscriptionID := parsed.SubscriptionID.String
	if subscriptionID == "" && parsed.ObjectID.Valid {
		resolved, err := u.lookup.GetSubscriptionID(ctx, parsed.ObjectID.String)
		if err != nil {
			return nil, "", err
		}
		subscriptionID = resolved
	}
	if subscriptionID == "" {
		return nil, "", domainerrors.ErrMissingLinkedID
	}

	record, err := u.subscriptions.GetByProviderID(ctx, subscriptionID)
	if err == nil {
		return record, subscriptionID, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, "", err
	}

	if parsed.BusinessSubscriptionID.Valid {
		record, err = u.subscriptions.GetByBusinessID(ctx, parsed.BusinessSubscriptionID.String)
		if err == nil {
			return record, subscriptionID, nil
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, "", err
		}
	}
	return nil, "", domainerrors.ErrRecordNotFound
}

// subscriptionStatusFromObject maps provider subscription statuses onto
// record statuses. Unmapped statuses make the event a no-op.
func subscriptionStatusFromObject(objectStatus null.String) (entities.SubscriptionRecordStatus, bool) {
	switch objectStatus.String {
	case "active", "trialing":
		return entities.SubscriptionStatusActive, true
	case "past_due":
		return entities.SubscriptionStatusPastDue, true
	case "incomplete":
		return entities.SubscriptionStatusIncomplete, true
	case "canceled":
		return entities.SubscriptionStatusCanceled, true
	}
	return "", false
}

// refundStatusFromObject maps provider refund statuses onto record
// statuses. Unmapped statuses make the event a no-op.
func refundStatusFromObject(objectStatus null.String) (entities.RefundRecordStatus, bool) {
	switch objectStatus.String {
	case "succeeded":
		return entities.RefundStatusSucceeded, true
	case "failed":
		return entities.RefundStatusFailed, true
	case "pending":
		return entities.RefundStatusPending, true
	}
	return "", false
}
