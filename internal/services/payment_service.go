package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teakonn/api/internal/models"
)

type PaymentService struct {
	paymentsRepo models.PaymentsRepo
	requestsRepo models.BookingRequestsRepo
}

func NewPaymentService(paymentsRepo models.PaymentsRepo, requestsRepo models.BookingRequestsRepo) *PaymentService {
	return &PaymentService{
		paymentsRepo: paymentsRepo,
		requestsRepo: requestsRepo,
	}
}

// Initiate records a payment attempt against a booking request. Only the
// request's owner may pay: paying unlocks token issuance for their venue.
// A repeated call with the same idempotency key returns the existing record
// unchanged.
func (ps *PaymentService) Initiate(ctx context.Context, requestId primitive.ObjectID, amount float64, currency, idempotencyKey string, actorId primitive.ObjectID) (*models.Payment, error) {
	req, err := ps.requestsRepo.GetBookingRequestByID(ctx, requestId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.OwnerID != actorId {
		return nil, ErrForbidden
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	if idempotencyKey != "" {
		existing, err := ps.paymentsRepo.GetPaymentByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}

	payment := &models.Payment{
		InitiatorID:      actorId,
		BookingRequestID: requestId,
		Amount:           amount,
		Currency:         currency,
		Channel:          models.PaymentChannelMpesa,
		Status:           models.PaymentStatusInitiated,
		IdempotencyKey:   idempotencyKey,
	}
	created, err := ps.paymentsRepo.CreatePayment(ctx, payment)
	if err != nil {
		// A concurrent initiate with the same key won the insert; that
		// record is the authoritative one.
		if mongo.IsDuplicateKeyError(err) && idempotencyKey != "" {
			return ps.paymentsRepo.GetPaymentByIdempotencyKey(ctx, idempotencyKey)
		}
		return nil, err
	}
	return created, nil
}

// Callback is the unauthenticated gateway webhook. It resolves the payment
// by external ref or idempotency key and settles it exactly once: "success"
// confirms, anything else fails.
func (ps *PaymentService) Callback(ctx context.Context, externalRef, idempotencyKey, status string) (*models.Payment, error) {
	var payment *models.Payment
	var err error
	switch {
	case externalRef != "":
		payment, err = ps.paymentsRepo.GetPaymentByExternalRef(ctx, externalRef)
		if err != nil && errors.Is(err, mongo.ErrNoDocuments) && idempotencyKey != "" {
			payment, err = ps.paymentsRepo.GetPaymentByIdempotencyKey(ctx, idempotencyKey)
		}
	case idempotencyKey != "":
		payment, err = ps.paymentsRepo.GetPaymentByIdempotencyKey(ctx, idempotencyKey)
	default:
		return nil, ErrNotFound
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	newStatus := models.PaymentStatusFailed
	if status == "success" {
		newStatus = models.PaymentStatusSuccess
	}
	return ps.paymentsRepo.SettlePayment(ctx, payment.ID, newStatus, externalRef)
}
