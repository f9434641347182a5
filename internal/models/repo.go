package models

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Validate = validator.New()

const DBName = "teakonn"

type MongodbRepo struct {
	mongodbClient *mongo.Client
}

func MongodbNewRepo(mongodbClient *mongo.Client) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(dbName).Collection(colName), nil
}

// EnsureIndexes creates the indexes the booking subsystem relies on for
// correctness, not just performance: the partial unique index on active
// tokens and the unique sparse index on payment idempotency keys.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	tokens, err := mdb.GetCollection(ctx, DBName, BookingTokenColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	tokenIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "code", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("token_code_unique"),
		},
		// At most one active token per booking request. Concurrent generate
		// calls can both pass the service pre-check; the second insert fails here.
		{
			Keys: bson.D{{Key: "booking_request_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": TokenStatusActive}).
				SetName("active_token_per_request_unique"),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("token_owner_idx"),
		},
		{
			Keys:    bson.D{{Key: "requester_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("token_requester_idx"),
		},
	}
	if _, err := tokens.Indexes().CreateMany(ctx, tokenIndexes); err != nil {
		return fmt.Errorf("error creating token indexes: %v", err)
	}

	payments, err := mdb.GetCollection(ctx, DBName, PaymentColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	paymentIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "idempotency_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetSparse(true).
				SetName("payment_idempotency_key_unique"),
		},
		{
			Keys:    bson.D{{Key: "booking_request_id", Value: 1}},
			Options: options.Index().SetName("payment_request_idx"),
		},
	}
	if _, err := payments.Indexes().CreateMany(ctx, paymentIndexes); err != nil {
		return fmt.Errorf("error creating payment indexes: %v", err)
	}

	requests, err := mdb.GetCollection(ctx, DBName, BookingRequestColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	requestIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "requester_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("request_requester_idx"),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("request_owner_idx"),
		},
	}
	if _, err := requests.Indexes().CreateMany(ctx, requestIndexes); err != nil {
		return fmt.Errorf("error creating booking request indexes: %v", err)
	}

	users, err := mdb.GetCollection(ctx, DBName, UserColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("user_email_unique"),
		},
	}
	if _, err := users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("error creating user indexes: %v", err)
	}

	return nil
}
