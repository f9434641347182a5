package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentsRepo interface {
	CreatePayment(ctx context.Context, payment *Payment) (*Payment, error)
	GetPaymentByIdempotencyKey(ctx context.Context, key string) (*Payment, error)
	GetPaymentByExternalRef(ctx context.Context, ref string) (*Payment, error)
	GetSuccessPayment(ctx context.Context, requestId, initiatorId primitive.ObjectID) (*Payment, error)
	SettlePayment(ctx context.Context, id primitive.ObjectID, status PaymentStatus, externalRef string) (*Payment, error)
}

func (mdb *MongodbRepo) CreatePayment(ctx context.Context, payment *Payment) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DBName, PaymentColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	payment.CreatedAt = now
	payment.UpdatedAt = now

	if _, err := col.InsertOne(ctx, payment); err != nil {
		// Duplicate idempotency key races surface here; the caller
		// re-fetches by key and treats the insert as already done.
		return nil, err
	}
	return payment, nil
}

func (mdb *MongodbRepo) GetPaymentByIdempotencyKey(ctx context.Context, key string) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DBName, PaymentColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var payment Payment
	if err := col.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (mdb *MongodbRepo) GetPaymentByExternalRef(ctx context.Context, ref string) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DBName, PaymentColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var payment Payment
	if err := col.FindOne(ctx, bson.M{"external_ref": ref}).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (mdb *MongodbRepo) GetSuccessPayment(ctx context.Context, requestId, initiatorId primitive.ObjectID) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DBName, PaymentColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{
		"booking_request_id": requestId,
		"initiator_id":       initiatorId,
		"status":             PaymentStatusSuccess,
	}

	var payment Payment
	if err := col.FindOne(ctx, filter).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (mdb *MongodbRepo) SettlePayment(ctx context.Context, id primitive.ObjectID, status PaymentStatus, externalRef string) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DBName, PaymentColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if externalRef != "" {
		set["external_ref"] = externalRef
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var payment Payment
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
