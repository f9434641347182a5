package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const VenueColName = "venues"

type VenueStatus string

const (
	VenueStatusPending  VenueStatus = "pending"
	VenueStatusActive   VenueStatus = "active"
	VenueStatusInactive VenueStatus = "inactive"
)

type Coordinates struct {
	Latitude  float64 `bson:"lat" json:"lat"`
	Longitude float64 `bson:"lng" json:"lng"`
}

// VenueLocation is copied verbatim onto token-bound events; keep it a
// standalone struct so the copy is a single assignment.
type VenueLocation struct {
	Address     string      `bson:"address" json:"address"`
	City        string      `bson:"city" json:"city" validate:"required"`
	Country     string      `bson:"country" json:"country"`
	Coordinates Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

type Venue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
	Capacity    int                `bson:"capacity" json:"capacity" validate:"gte=0"`
	Location    VenueLocation      `bson:"location" json:"location"`
	Amenities   []string           `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Status      VenueStatus        `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
