package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PaymentColName = "payments"

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
)

const PaymentChannelMpesa = "mpesa"

// Payment records one gateway attempt against a booking request. The
// initiator is the venue owner: paying unlocks token issuance for their
// venue, the requester never pays through this ledger.
type Payment struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InitiatorID      primitive.ObjectID `bson:"initiator_id" json:"initiator_id"`
	BookingRequestID primitive.ObjectID `bson:"booking_request_id" json:"booking_request_id"`
	Amount           float64            `bson:"amount" json:"amount"`
	Currency         string             `bson:"currency" json:"currency"`
	Channel          string             `bson:"channel" json:"channel"`
	Status           PaymentStatus      `bson:"status" json:"status"`
	ExternalRef      string             `bson:"external_ref,omitempty" json:"external_ref,omitempty"`
	IdempotencyKey   string             `bson:"idempotency_key,omitempty" json:"idempotency_key,omitempty"`
	Meta             map[string]string  `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}
