package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const BookingRequestColName = "booking_requests"

type BookingRequestStatus string

const (
	RequestStatusPending        BookingRequestStatus = "pending"
	RequestStatusApproved       BookingRequestStatus = "approved"
	RequestStatusRejected       BookingRequestStatus = "rejected"
	RequestStatusExpired        BookingRequestStatus = "expired"
	RequestStatusTokenGenerated BookingRequestStatus = "token_generated"
)

// BookingRequest binds a requester to a venue owner. OwnerID is always
// derived from the venue at creation, never taken from the client.
type BookingRequest struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	VenueID        primitive.ObjectID   `bson:"venue_id" json:"venue_id"`
	RequesterID    primitive.ObjectID   `bson:"requester_id" json:"requester_id"`
	OwnerID        primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	ConversationID primitive.ObjectID   `bson:"conversation_id" json:"conversation_id"`
	Status         BookingRequestStatus `bson:"status" json:"status"`
	Notes          string               `bson:"notes,omitempty" json:"notes,omitempty"`
	ExpiresAt      *time.Time           `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	Meta           map[string]string    `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// BookingRequestDetail is the populated form returned by the API: the raw
// request plus the referenced documents the client would otherwise have to
// fetch one by one.
type BookingRequestDetail struct {
	BookingRequest
	Venue        *Venue                 `json:"venue,omitempty"`
	Requester    map[string]interface{} `json:"requester,omitempty"`
	Owner        map[string]interface{} `json:"owner,omitempty"`
	Conversation *Conversation          `json:"conversation,omitempty"`
}
