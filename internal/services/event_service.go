package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teakonn/api/internal/models"
)

type EventService struct {
	eventsRepo   models.EventsRepo
	tokenService *TokenService
}

func NewEventService(eventsRepo models.EventsRepo, tokenService *TokenService) *EventService {
	return &EventService{
		eventsRepo:   eventsRepo,
		tokenService: tokenService,
	}
}

// Create persists an event. With a booking token code the redemption path
// runs: the event is bound to the token's venue and the token is consumed.
// Without one, this is a plain unconstrained event.
func (es *EventService) Create(ctx context.Context, event *models.Event, tokenCode string, actorId primitive.ObjectID) (*models.Event, error) {
	if event.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !event.EndTime.IsZero() && event.EndTime.Before(event.StartTime) {
		return nil, fmt.Errorf("end_time must not precede start_time")
	}

	if tokenCode != "" {
		return es.tokenService.Redeem(ctx, tokenCode, event, actorId)
	}

	event.HostID = actorId
	return es.eventsRepo.CreateEvent(ctx, event)
}

func (es *EventService) GetEventByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (es *EventService) ListEvents(ctx context.Context, offset, limit int) ([]*models.Event, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return es.eventsRepo.ListEvents(ctx, offset, limit)
}
