package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConversationsRepo interface {
	CreateConversation(ctx context.Context, participants []primitive.ObjectID, meta map[string]string) (*Conversation, error)
	GetConversationByID(ctx context.Context, id primitive.ObjectID) (*Conversation, error)
	InsertMessage(ctx context.Context, msg *Message) (*Message, error)
	ListMessages(ctx context.Context, conversationId primitive.ObjectID, limit int) ([]*Message, error)
}

func (mdb *MongodbRepo) CreateConversation(ctx context.Context, participants []primitive.ObjectID, meta map[string]string) (*Conversation, error) {
	col, err := mdb.GetCollection(ctx, DBName, ConversationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	conv := &Conversation{
		ID:           primitive.NewObjectID(),
		Participants: participants,
		Meta:         meta,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := col.InsertOne(ctx, conv); err != nil {
		return nil, fmt.Errorf("error inserting conversation: %v", err)
	}
	return conv, nil
}

func (mdb *MongodbRepo) GetConversationByID(ctx context.Context, id primitive.ObjectID) (*Conversation, error) {
	col, err := mdb.GetCollection(ctx, DBName, ConversationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var conv Conversation
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (mdb *MongodbRepo) InsertMessage(ctx context.Context, msg *Message) (*Message, error) {
	col, err := mdb.GetCollection(ctx, DBName, MessageColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	if _, err := col.InsertOne(ctx, msg); err != nil {
		return nil, fmt.Errorf("error inserting message: %v", err)
	}

	convCol, err := mdb.GetCollection(ctx, DBName, ConversationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	_, err = convCol.UpdateOne(ctx,
		bson.M{"_id": msg.ConversationID},
		bson.M{"$set": bson.M{"updated_at": msg.SentAt}},
	)
	if err != nil {
		return nil, fmt.Errorf("error touching conversation: %v", err)
	}

	return msg, nil
}

func (mdb *MongodbRepo) ListMessages(ctx context.Context, conversationId primitive.ObjectID, limit int) ([]*Message, error) {
	col, err := mdb.GetCollection(ctx, DBName, MessageColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "sent_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, bson.M{"conversation_id": conversationId}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []*Message
	for cursor.Next(ctx) {
		var msg Message
		if err := cursor.Decode(&msg); err != nil {
			return nil, fmt.Errorf("error decoding message: %v", err)
		}
		messages = append(messages, &msg)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return messages, nil
}
