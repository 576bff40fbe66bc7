package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"paysentry.backend/internal/domain/entities"
	domainerrors "paysentry.backend/internal/domain/errors"
	"paysentry.backend/internal/domain/repositories"
	"paysentry.backend/internal/infrastructure/memory"
	"paysentry.backend/internal/usecases"
)

type stubSessionCreator struct {
	sessionID string
	url       string
	err       error
	lastInput repositories.CheckoutSessionInput
}

func (s *stubSessionCreator) CreateSession(ctx context.Context, input repositories.CheckoutSessionInput) (string, string, error) {
	s.lastInput = input
	if s.err != nil {
		return "", "", s.err
	}
	return s.sessionID, s.url, nil
}

func newCheckoutFixture(creator *stubSessionCreator) (*memory.PaymentRecordStore, *memory.SubscriptionRecordStore, *usecases.CheckoutUsecase) {
	payments := memory.NewPaymentRecordStore()
	subscriptions := memory.NewSubscriptionRecordStore()
	return payments, subscriptions, usecases.NewCheckoutUsecase(payments, subscriptions, creator)
}

func TestCreateCheckout_PaymentMode(t *testing.T) {
	creator := &stubSessionCreator{sessionID: "cs_1", url: "https://checkout.example/cs_1"}
	payments, _, uc := newCheckoutFixture(creator)

	result, err := uc.CreateCheckout(context.Background(), usecases.CreateCheckoutInput{
		UserID:            "user_A",
		Mode:              usecases.CheckoutModePayment,
		BusinessPaymentID: "biz_pay_1",
		PriceID:           "price_1",
	})
	require.NoError(t, err)
	require.Equal(t, "cs_1", result.SessionID)
	require.Equal(t, "https://checkout.example/cs_1", result.URL)

	// The record is staged Pending before the session call, with the
	// derived idempotency key on the outbound request.
	record, err := payments.GetByBusinessID(context.Background(), "biz_pay_1")
	require.NoError(t, err)
	require.Equal(t, entities.PaymentStatusPending, record.Status)
	require.Equal(t, "checkout_payment:biz_pay_1", creator.lastInput.IdempotencyKey)
	require.Equal(t, "biz_pay_1", creator.lastInput.BusinessPaymentID)
}

func TestCreateCheckout_SubscriptionMode(t *testing.T) {
	creator := &stubSessionCreator{sessionID: "cs_2", url: "https://checkout.example/cs_2"}
	_, subscriptions, uc := newCheckoutFixture(creator)

	_, err := uc.CreateCheckout(context.Background(), usecases.CreateCheckoutInput{
		UserID:                 "user_B",
		Mode:                   usecases.CheckoutModeSubscription,
		BusinessSubscriptionID: "biz_sub_1",
		PriceID:                "price_2",
	})
	require.NoError(t, err)

	record, err := subscriptions.GetByBusinessID(context.Background(), "biz_sub_1")
	require.NoError(t, err)
	require.Equal(t, entities.SubscriptionStatusIncomplete, record.Status)
	require.Equal(t, "checkout_subscription:biz_sub_1", creator.lastInput.IdempotencyKey)
}

func TestCreateCheckout_Validation(t *testing.T) {
	_, _, uc := newCheckoutFixture(&stubSessionCreator{})
	ctx := context.Background()

	_, err := uc.CreateCheckout(ctx, usecases.CreateCheckoutInput{
		UserID: "user_A", Mode: "donation", PriceID: "price_1",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.CreateCheckout(ctx, usecases.CreateCheckoutInput{
		UserID: "user_A", Mode: usecases.CheckoutModePayment, PriceID: "price_1",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.CreateCheckout(ctx, usecases.CreateCheckoutInput{
		UserID: "user_A", Mode: usecases.CheckoutModeSubscription, PriceID: "price_1",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestCreateCheckout_RestagingRejected(t *testing.T) {
	creator := &stubSessionCreator{sessionID: "cs_1", url: "u"}
	payments, _, uc := newCheckoutFixture(creator)
	ctx := context.Background()

	input := usecases.CreateCheckoutInput{
		UserID:            "user_A",
		Mode:              usecases.CheckoutModePayment,
		BusinessPaymentID: "biz_pay_1",
		PriceID:           "price_1",
	}
	_, err := uc.CreateCheckout(ctx, input)
	require.NoError(t, err)

	// A converged record must not be reset to Pending by a second stage.
	record, err := payments.GetByBusinessID(ctx, "biz_pay_1")
	require.NoError(t, err)
	require.NoError(t, payments.Save(ctx, &entities.PaymentRecord{
		UserID:            record.UserID,
		BusinessPaymentID: record.BusinessPaymentID,
		Status:            entities.PaymentStatusSucceeded,
	}))

	_, err = uc.CreateCheckout(ctx, input)
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	record, err = payments.GetByBusinessID(ctx, "biz_pay_1")
	require.NoError(t, err)
	require.Equal(t, entities.PaymentStatusSucceeded, record.Status)
}

func TestCreateCheckout_SessionFailureKeepsStagedRecord(t *testing.T) {
	creator := &stubSessionCreator{err: errors.New("provider down")}
	payments, _, uc := newCheckoutFixture(creator)
	ctx := context.Background()

	_, err := uc.CreateCheckout(ctx, usecases.CreateCheckoutInput{
		UserID:            "user_A",
		Mode:              usecases.CheckoutModePayment,
		BusinessPaymentID: "biz_pay_1",
		PriceID:           "price_1",
	})
	require.Error(t, err)

	record, getErr := payments.GetByBusinessID(ctx, "biz_pay_1")
	require.NoError(t, getErr)
	require.Equal(t, entities.PaymentStatusPending, record.Status)
}
