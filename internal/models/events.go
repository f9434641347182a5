package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const EventColName = "events"

// Event covers both creation paths: token-bound events carry VenueID and
// TokenCode and inherit the venue's location verbatim; plain events keep
// whatever location the client supplied.
type Event struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	HostID       primitive.ObjectID  `bson:"host_id" json:"host_id"`
	VenueID      *primitive.ObjectID `bson:"venue_id,omitempty" json:"venue_id,omitempty"`
	TokenCode    string              `bson:"token_code,omitempty" json:"token_code,omitempty"`
	Title        string              `bson:"title" json:"title" validate:"required"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	Location     VenueLocation       `bson:"location" json:"location"`
	StartTime    time.Time           `bson:"start_time" json:"start_time"`
	EndTime      time.Time           `bson:"end_time" json:"end_time"`
	MaxAttendees int                 `bson:"max_attendees,omitempty" json:"max_attendees,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}
