package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const NotificationColName = "notifications"

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Kind      string             `bson:"kind" json:"kind"`
	Body      string             `bson:"body" json:"body"`
	Meta      map[string]string  `bson:"meta,omitempty" json:"meta,omitempty"`
	ReadAt    *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type NotificationsRepo interface {
	InsertNotification(ctx context.Context, n *Notification) (*Notification, error)
	ListNotificationsByUser(ctx context.Context, userId primitive.ObjectID, limit int) ([]*Notification, error)
}

func (mdb *MongodbRepo) InsertNotification(ctx context.Context, n *Notification) (*Notification, error) {
	col, err := mdb.GetCollection(ctx, DBName, NotificationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if _, err := col.InsertOne(ctx, n); err != nil {
		return nil, fmt.Errorf("error inserting notification: %v", err)
	}
	return n, nil
}

func (mdb *MongodbRepo) ListNotificationsByUser(ctx context.Context, userId primitive.ObjectID, limit int) ([]*Notification, error) {
	col, err := mdb.GetCollection(ctx, DBName, NotificationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, bson.M{"user_id": userId}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding notifications: %v", err)
	}
	defer cursor.Close(ctx)

	var notifications []*Notification
	for cursor.Next(ctx) {
		var n Notification
		if err := cursor.Decode(&n); err != nil {
			return nil, fmt.Errorf("error decoding notification: %v", err)
		}
		notifications = append(notifications, &n)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return notifications, nil
}
