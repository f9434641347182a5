package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teakonn/api/internal/models"
)

const defaultBackfillLimit = 50

// MessagingService exposes the read side of the conversation and
// notification stores. Writes happen through the booking flow (conversation
// spawn) and the notifier worker (token DMs).
type MessagingService struct {
	conversationsRepo models.ConversationsRepo
	notificationsRepo models.NotificationsRepo
}

func NewMessagingService(conversationsRepo models.ConversationsRepo, notificationsRepo models.NotificationsRepo) *MessagingService {
	return &MessagingService{
		conversationsRepo: conversationsRepo,
		notificationsRepo: notificationsRepo,
	}
}

func (ms *MessagingService) ListMessages(ctx context.Context, conversationId, actorId primitive.ObjectID, limit int) ([]*models.Message, error) {
	conv, err := ms.conversationsRepo.GetConversationByID(ctx, conversationId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	participant := false
	for _, p := range conv.Participants {
		if p == actorId {
			participant = true
			break
		}
	}
	if !participant {
		return nil, ErrForbidden
	}

	if limit <= 0 {
		limit = defaultBackfillLimit
	}
	return ms.conversationsRepo.ListMessages(ctx, conversationId, limit)
}

func (ms *MessagingService) ListNotifications(ctx context.Context, actorId primitive.ObjectID, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = defaultBackfillLimit
	}
	return ms.notificationsRepo.ListNotificationsByUser(ctx, actorId, limit)
}
