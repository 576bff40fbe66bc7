// Package memory holds the reference in-memory store implementations.
// They keep the same semantics as the relational stores: upsert keyed
// by business id, a secondary provider-id index maintained atomically
// with the record write, and a per-event-id test-and-set dedupe entry.
package memory

import (
	"context"
	"sync"
	"time"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
)

// PaymentRecordStore is the in-memory payment record store
type PaymentRecordStore struct {
	mu      sync.RWMutex
	records map[string]entities.PaymentRecord
	byPI    map[string]string // payment_intent_id -> business_payment_id
}

// NewPaymentRecordStore creates an empty payment record store
func NewPaymentRecordStore() *PaymentRecordStore {
	return &PaymentRecordStore{
		records: make(map[string]entities.PaymentRecord),
		byPI:    make(map[string]string),
	}
}

// Save upserts the record and reindexes the provider id. The stale
// index entry is removed before the new one is installed so the index
// never holds a dangling key.
func (s *PaymentRecordStore) Save(ctx context.Context, record *entities.PaymentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || record.BusinessPaymentID == "" {
		return domainerrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	stored.UpdatedAt = time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}

	if prev, ok := s.records[record.BusinessPaymentID]; ok && prev.PaymentIntentID.Valid {
		if !record.PaymentIntentID.Valid || prev.PaymentIntentID.String != record.PaymentIntentID.String {
			delete(s.byPI, prev.PaymentIntentID.String)
		}
	}
	s.records[record.BusinessPaymentID] = stored
	if record.PaymentIntentID.Valid {
		s.byPI[record.PaymentIntentID.String] = record.BusinessPaymentID
	}
	return nil
}

// GetByBusinessID returns a copy of the record for the business id
func (s *PaymentRecordStore) GetByBusinessID(ctx context.Context, businessPaymentID string) (*entities.PaymentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if businessPaymentID == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[businessPaymentID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &record, nil
}

// GetByProviderID resolves through the payment intent id index
func (s *PaymentRecordStore) GetByProviderID(ctx context.Context, paymentIntentID string) (*entities.PaymentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if paymentIntentID == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	businessID, ok := s.byPI[paymentIntentID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	record := s.records[businessID]
	return &record, nil
}

// SubscriptionRecordStore is the in-memory subscription record store
type SubscriptionRecordStore struct {
	mu      sync.RWMutex
	records map[string]entities.SubscriptionRecord
	bySub   map[string]string // subscription_id -> business_subscription_id
}

// NewSubscriptionRecordStore creates an empty subscription record store
func NewSubscriptionRecordStore() *SubscriptionRecordStore {
	return &SubscriptionRecordStore{
		records: make(map[string]entities.SubscriptionRecord),
		bySub:   make(map[string]string),
	}
}

// Save upserts the record and reindexes the provider id
func (s *SubscriptionRecordStore) Save(ctx context.Context, record *entities.SubscriptionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || record.BusinessSubscriptionID == "" {
		return domainerrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	stored.UpdatedAt = time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}

	if prev, ok := s.records[record.BusinessSubscriptionID]; ok && prev.SubscriptionID.Valid {
		if !record.SubscriptionID.Valid || prev.SubscriptionID.String != record.SubscriptionID.String {
			delete(s.bySub, prev.SubscriptionID.String)
		}
	}
	s.records[record.BusinessSubscriptionID] = stored
	if record.SubscriptionID.Valid {
		s.bySub[record.SubscriptionID.String] = record.BusinessSubscriptionID
	}
	return nil
}

// GetByBusinessID returns a copy of the record for the business id
func (s *SubscriptionRecordStore) GetByBusinessID(ctx context.Context, businessSubscriptionID string) (*entities.SubscriptionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if businessSubscriptionID == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[businessSubscriptionID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &record, nil
}

// GetByProviderID resolves through the subscription id index
func (s *SubscriptionRecordStore) GetByProviderID(ctx context.Context, subscriptionID string) (*entities.SubscriptionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if subscriptionID == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	businessID, ok := s.bySub[subscriptionID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	record := s.records[businessID]
	return &record, nil
}

// RefundRecordStore is the in-memory refund record store
type RefundRecordStore struct {
	mu       sync.RWMutex
	records  map[string]entities.RefundRecord
	byRefund map[string]string // refund_id -> business_refund_id
}

// NewRefundRecordStore creates an empty refund record store
func NewRefundRecordStore() *RefundRecordStore {
	return &RefundRecordStore{
		records:  make(map[string]entities.RefundRecord),
		byRefund: make(map[string]string),
	}
}

// Save upserts the record and reindexes the provider id
func (s *RefundRecordStore) Save(ctx context.Context, record *entities.RefundRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record == nil || record.BusinessRefundID == "" {
		return domainerrors.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	stored.UpdatedAt = time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}

	if prev, ok := s.records[record.BusinessRefundID]; ok && prev.RefundID.Valid {
		if !record.RefundID.Valid || prev.RefundID.String != record.RefundID.String {
			delete(s.byRefund, prev.RefundID.String)
		}
	}
	s.records[record.BusinessRefundID] = stored
	if record.RefundID.Valid {
		s.byRefund[record.RefundID.String] = record.BusinessRefundID
	}
	return nil
}

// GetByBusinessID returns a copy of the record for the business id
func (s *RefundRecordStore) GetByBusinessID(ctx context.Context, businessRefundID string) (*entities.RefundRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if businessRefundID == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[businessRefundID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &record, nil
}

// GetByProviderID resolves through the refund id index
func (s *RefundRecordStore) GetByProviderID(ctx context.Context, refundID string) (*entities.RefundRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if refundID == "" {
		return nil, domainerrors.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	businessID, ok := s.byRefund[refundID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	record := s.records[businessID]
	return &record, nil
}
