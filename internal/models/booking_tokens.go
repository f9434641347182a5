package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const BookingTokenColName = "booking_tokens"

type TokenStatus string

const (
	TokenStatusActive         TokenStatus = "active"
	TokenStatusUsed           TokenStatus = "used"
	TokenStatusExpired        TokenStatus = "expired"
	TokenStatusPaymentPending TokenStatus = "payment_pending"
)

// BookingToken is a single-use credential: minted by the venue owner after a
// successful payment, redeemed by the requester to create exactly one event
// bound to the token's venue. A token past expires_at still reads
// status=active in storage; expiry is enforced at verify/redeem time.
type BookingToken struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code             string             `bson:"code" json:"code"`
	VenueID          primitive.ObjectID `bson:"venue_id" json:"venue_id"`
	RequesterID      primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	OwnerID          primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	BookingRequestID primitive.ObjectID `bson:"booking_request_id" json:"booking_request_id"`
	PaymentID        primitive.ObjectID `bson:"payment_id" json:"payment_id"`
	Status           TokenStatus        `bson:"status" json:"status"`
	ExpiresAt        time.Time          `bson:"expires_at" json:"expires_at"`
	ConsumedAt       *time.Time         `bson:"consumed_at,omitempty" json:"consumed_at,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

func (t *BookingToken) IsExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
