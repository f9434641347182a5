package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VenuesRepo interface {
	CreateVenue(ctx context.Context, venue *Venue) (*Venue, error)
	GetVenueByID(ctx context.Context, id primitive.ObjectID) (*Venue, error)
	ListVenues(ctx context.Context, offset, limit int) ([]*Venue, int, error)
	ListVenuesByOwner(ctx context.Context, ownerId primitive.ObjectID, offset, limit int) ([]*Venue, int, error)
	DeleteVenue(ctx context.Context, ownerId, venueId primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreateVenue(ctx context.Context, venue *Venue) (*Venue, error) {
	col, err := mdb.GetCollection(ctx, DBName, VenueColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	if venue.ID.IsZero() {
		venue.ID = primitive.NewObjectID()
	}
	venue.CreatedAt = now
	venue.UpdatedAt = now

	if _, err := col.InsertOne(ctx, venue); err != nil {
		return nil, fmt.Errorf("error inserting venue: %v", err)
	}
	return venue, nil
}

func (mdb *MongodbRepo) GetVenueByID(ctx context.Context, id primitive.ObjectID) (*Venue, error) {
	col, err := mdb.GetCollection(ctx, DBName, VenueColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var venue Venue
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&venue); err != nil {
		return nil, err
	}
	return &venue, nil
}

func (mdb *MongodbRepo) ListVenues(ctx context.Context, offset, limit int) ([]*Venue, int, error) {
	return mdb.listVenues(ctx, bson.M{}, offset, limit)
}

func (mdb *MongodbRepo) ListVenuesByOwner(ctx context.Context, ownerId primitive.ObjectID, offset, limit int) ([]*Venue, int, error) {
	return mdb.listVenues(ctx, bson.M{"owner_id": ownerId}, offset, limit)
}

func (mdb *MongodbRepo) listVenues(ctx context.Context, filter bson.M, offset, limit int) ([]*Venue, int, error) {
	col, err := mdb.GetCollection(ctx, DBName, VenueColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %v", err)
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting venues: %v", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding venues: %v", err)
	}
	defer cursor.Close(ctx)

	var venues []*Venue
	for cursor.Next(ctx) {
		var venue Venue
		if err := cursor.Decode(&venue); err != nil {
			return nil, 0, fmt.Errorf("error decoding venue: %v", err)
		}
		venues = append(venues, &venue)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}

	return venues, int(total), nil
}

func (mdb *MongodbRepo) DeleteVenue(ctx context.Context, ownerId, venueId primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DBName, VenueColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": venueId, "owner_id": ownerId})
	if err != nil {
		return fmt.Errorf("error deleting venue: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("no venue found to delete")
	}
	return nil
}
