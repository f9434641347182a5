package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRequestsRepo interface {
	CreateBookingRequest(ctx context.Context, req *BookingRequest) (*BookingRequest, error)
	GetBookingRequestByID(ctx context.Context, id primitive.ObjectID) (*BookingRequest, error)
	ListBookingRequestsByRequester(ctx context.Context, requesterId primitive.ObjectID) ([]*BookingRequest, error)
	ListBookingRequestsByOwner(ctx context.Context, ownerId primitive.ObjectID) ([]*BookingRequest, error)
	UpdateBookingRequestStatus(ctx context.Context, id primitive.ObjectID, status BookingRequestStatus) (*BookingRequest, error)
}

func (mdb *MongodbRepo) CreateBookingRequest(ctx context.Context, req *BookingRequest) (*BookingRequest, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingRequestColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := col.InsertOne(ctx, req); err != nil {
		return nil, fmt.Errorf("error inserting booking request: %v", err)
	}
	return req, nil
}

func (mdb *MongodbRepo) GetBookingRequestByID(ctx context.Context, id primitive.ObjectID) (*BookingRequest, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingRequestColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var req BookingRequest
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (mdb *MongodbRepo) ListBookingRequestsByRequester(ctx context.Context, requesterId primitive.ObjectID) ([]*BookingRequest, error) {
	return mdb.listBookingRequests(ctx, bson.M{"requester_id": requesterId})
}

func (mdb *MongodbRepo) ListBookingRequestsByOwner(ctx context.Context, ownerId primitive.ObjectID) ([]*BookingRequest, error) {
	return mdb.listBookingRequests(ctx, bson.M{"owner_id": ownerId})
}

func (mdb *MongodbRepo) listBookingRequests(ctx context.Context, filter bson.M) ([]*BookingRequest, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingRequestColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding booking requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []*BookingRequest
	for cursor.Next(ctx) {
		var req BookingRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, fmt.Errorf("error decoding booking request: %v", err)
		}
		requests = append(requests, &req)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return requests, nil
}

func (mdb *MongodbRepo) UpdateBookingRequestStatus(ctx context.Context, id primitive.ObjectID, status BookingRequestStatus) (*BookingRequest, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingRequestColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var req BookingRequest
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
