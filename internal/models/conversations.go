package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ConversationColName = "conversations"
	MessageColName      = "messages"
)

// Conversation is the 1:1 thread spawned alongside a booking request. The
// venue id is kept in Meta for traceability back to the request.
type Conversation struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	Meta         map[string]string    `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}

type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id"`
	SenderID       primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	Body           string             `bson:"body" json:"body"`
	SentAt         time.Time          `bson:"sent_at" json:"sent_at"`
}
