package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teakonn/api/internal/helpers"
	"github.com/teakonn/api/internal/models"
)

const workerQueue = "teakonn.notifier"

// Worker consumes notification events and materializes them: a formatted DM
// in the booking conversation plus a notification record for the requester.
// The API never waits on this; the worker owns its own retry policy
// (nack/requeue on transient failures, drop on malformed payloads).
type Worker struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	conversations models.ConversationsRepo
	notifications models.NotificationsRepo
	logger        *slog.Logger
}

func NewWorker(url string, conversations models.ConversationsRepo, notifications models.NotificationsRepo, logger *slog.Logger) (*Worker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(workerQueue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, KeyTokenGenerated, Exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind %s: %w", KeyTokenGenerated, err)
	}

	return &Worker{
		conn:          conn,
		ch:            ch,
		conversations: conversations,
		notifications: notifications,
		logger:        logger,
	}, nil
}

// Run blocks until the context is cancelled or the delivery channel closes.
func (w *Worker) Run(ctx context.Context) error {
	deliveries, err := w.ch.ConsumeWithContext(ctx, workerQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	switch d.RoutingKey {
	case KeyTokenGenerated:
		var evt TokenGenerated
		if err := json.Unmarshal(d.Body, &evt); err != nil {
			w.logger.Error("Malformed token.generated event, dropping", "error", err)
			_ = d.Nack(false, false)
			return
		}
		if err := w.deliverTokenGenerated(ctx, evt); err != nil {
			w.logger.Error("Failed to deliver token notification, requeueing",
				"token_code", evt.TokenCode,
				"error", err,
			)
			_ = d.Nack(false, true)
			return
		}
		_ = d.Ack(false)
	default:
		_ = d.Nack(false, false)
	}
}

func (w *Worker) deliverTokenGenerated(ctx context.Context, evt TokenGenerated) error {
	conversationId, err := primitive.ObjectIDFromHex(evt.ConversationID)
	if err != nil {
		return fmt.Errorf("bad conversation id %q: %w", evt.ConversationID, err)
	}
	ownerId, err := primitive.ObjectIDFromHex(evt.OwnerID)
	if err != nil {
		return fmt.Errorf("bad owner id %q: %w", evt.OwnerID, err)
	}
	requesterId, err := primitive.ObjectIDFromHex(evt.RequesterID)
	if err != nil {
		return fmt.Errorf("bad requester id %q: %w", evt.RequesterID, err)
	}

	_, err = w.conversations.InsertMessage(ctx, &models.Message{
		ConversationID: conversationId,
		SenderID:       ownerId,
		Body:           helpers.FormatTokenMessage(evt.TokenCode, evt.ExpiresAt),
	})
	if err != nil {
		return fmt.Errorf("insert token DM: %w", err)
	}

	_, err = w.notifications.InsertNotification(ctx, &models.Notification{
		UserID: requesterId,
		Kind:   "booking_token_generated",
		Body:   fmt.Sprintf("A booking token for %s is ready.", evt.VenueName),
		Meta: map[string]string{
			"token_code":         evt.TokenCode,
			"booking_request_id": evt.BookingRequestID,
		},
	})
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	w.logger.Info("Delivered token notification",
		"token_code", evt.TokenCode,
		"requester_id", evt.RequesterID,
	)
	return nil
}

func (w *Worker) Close() error {
	if w.ch != nil {
		_ = w.ch.Close()
	}
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}
