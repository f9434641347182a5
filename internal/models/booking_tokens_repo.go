package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingTokensRepo interface {
	CreateToken(ctx context.Context, token *BookingToken) (*BookingToken, error)
	GetTokenByCode(ctx context.Context, code string) (*BookingToken, error)
	GetActiveTokenByRequest(ctx context.Context, requestId primitive.ObjectID) (*BookingToken, error)
	ConsumeToken(ctx context.Context, code string, consumedAt time.Time) (*BookingToken, error)
	RevokeToken(ctx context.Context, code string, at time.Time) (*BookingToken, error)
	ExtendToken(ctx context.Context, code string, until time.Time) (*BookingToken, error)
	ListTokensByOwner(ctx context.Context, ownerId primitive.ObjectID) ([]*BookingToken, error)
	ListTokensByRequester(ctx context.Context, requesterId primitive.ObjectID) ([]*BookingToken, error)
}

func (mdb *MongodbRepo) CreateToken(ctx context.Context, token *BookingToken) (*BookingToken, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingTokenColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	token.CreatedAt = now
	token.UpdatedAt = now

	if _, err := col.InsertOne(ctx, token); err != nil {
		// The partial unique index on (booking_request_id, status=active)
		// rejects a concurrent second mint; callers map the duplicate-key
		// error to a conflict.
		return nil, err
	}
	return token, nil
}

func (mdb *MongodbRepo) GetTokenByCode(ctx context.Context, code string) (*BookingToken, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingTokenColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var token BookingToken
	if err := col.FindOne(ctx, bson.M{"code": code}).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (mdb *MongodbRepo) GetActiveTokenByRequest(ctx context.Context, requestId primitive.ObjectID) (*BookingToken, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingTokenColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{
		"booking_request_id": requestId,
		"status":             TokenStatusActive,
	}

	var token BookingToken
	if err := col.FindOne(ctx, filter).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

// ConsumeToken flips active → used in a single compare-and-swap; an
// already-consumed or revoked token yields ErrNoDocuments.
func (mdb *MongodbRepo) ConsumeToken(ctx context.Context, code string, consumedAt time.Time) (*BookingToken, error) {
	update := bson.M{"$set": bson.M{
		"status":      TokenStatusUsed,
		"consumed_at": consumedAt,
		"updated_at":  consumedAt,
	}}
	return mdb.updateActiveToken(ctx, code, update)
}

func (mdb *MongodbRepo) RevokeToken(ctx context.Context, code string, at time.Time) (*BookingToken, error) {
	update := bson.M{"$set": bson.M{
		"status":     TokenStatusExpired,
		"expires_at": at,
		"updated_at": at,
	}}
	return mdb.updateActiveToken(ctx, code, update)
}

func (mdb *MongodbRepo) ExtendToken(ctx context.Context, code string, until time.Time) (*BookingToken, error) {
	update := bson.M{"$set": bson.M{
		"expires_at": until,
		"updated_at": time.Now(),
	}}
	return mdb.updateActiveToken(ctx, code, update)
}

func (mdb *MongodbRepo) updateActiveToken(ctx context.Context, code string, update bson.M) (*BookingToken, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingTokenColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"code": code, "status": TokenStatusActive}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var token BookingToken
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (mdb *MongodbRepo) ListTokensByOwner(ctx context.Context, ownerId primitive.ObjectID) ([]*BookingToken, error) {
	return mdb.listTokens(ctx, bson.M{"owner_id": ownerId})
}

func (mdb *MongodbRepo) ListTokensByRequester(ctx context.Context, requesterId primitive.ObjectID) ([]*BookingToken, error) {
	return mdb.listTokens(ctx, bson.M{"requester_id": requesterId})
}

func (mdb *MongodbRepo) listTokens(ctx context.Context, filter bson.M) ([]*BookingToken, error) {
	col, err := mdb.GetCollection(ctx, DBName, BookingTokenColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding tokens: %v", err)
	}
	defer cursor.Close(ctx)

	var tokens []*BookingToken
	for cursor.Next(ctx) {
		var token BookingToken
		if err := cursor.Decode(&token); err != nil {
			return nil, fmt.Errorf("error decoding token: %v", err)
		}
		tokens = append(tokens, &token)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return tokens, nil
}
