package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teakonn/api/internal/models"
)

type BookingRequestService struct {
	requestsRepo      models.BookingRequestsRepo
	venuesRepo        models.VenuesRepo
	usersRepo         models.UsersRepo
	conversationsRepo models.ConversationsRepo
}

func NewBookingRequestService(
	requestsRepo models.BookingRequestsRepo,
	venuesRepo models.VenuesRepo,
	usersRepo models.UsersRepo,
	conversationsRepo models.ConversationsRepo,
) *BookingRequestService {
	return &BookingRequestService{
		requestsRepo:      requestsRepo,
		venuesRepo:        venuesRepo,
		usersRepo:         usersRepo,
		conversationsRepo: conversationsRepo,
	}
}

// Create opens a booking request against a venue. The owner is always the
// venue's owner regardless of what the client sends, and a dedicated 1:1
// conversation between requester and owner is spawned alongside it.
func (bs *BookingRequestService) Create(ctx context.Context, venueId, requesterId primitive.ObjectID, notes string) (*models.BookingRequestDetail, error) {
	venue, err := bs.venuesRepo.GetVenueByID(ctx, venueId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	conv, err := bs.conversationsRepo.CreateConversation(ctx,
		[]primitive.ObjectID{requesterId, venue.OwnerID},
		map[string]string{"venue_id": venue.ID.Hex()},
	)
	if err != nil {
		return nil, err
	}

	req := &models.BookingRequest{
		VenueID:        venue.ID,
		RequesterID:    requesterId,
		OwnerID:        venue.OwnerID,
		ConversationID: conv.ID,
		Status:         models.RequestStatusPending,
		Notes:          notes,
	}
	created, err := bs.requestsRepo.CreateBookingRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	return bs.populate(ctx, created, venue, conv)
}

// Get returns the populated request. Only the requester and the venue owner
// may read it.
func (bs *BookingRequestService) Get(ctx context.Context, requestId, actorId primitive.ObjectID) (*models.BookingRequestDetail, error) {
	req, err := bs.requestsRepo.GetBookingRequestByID(ctx, requestId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.RequesterID != actorId && req.OwnerID != actorId {
		return nil, ErrForbidden
	}
	return bs.populate(ctx, req, nil, nil)
}

func (bs *BookingRequestService) ListSent(ctx context.Context, actorId primitive.ObjectID) ([]*models.BookingRequest, error) {
	return bs.requestsRepo.ListBookingRequestsByRequester(ctx, actorId)
}

func (bs *BookingRequestService) ListReceived(ctx context.Context, actorId primitive.ObjectID) ([]*models.BookingRequest, error) {
	return bs.requestsRepo.ListBookingRequestsByOwner(ctx, actorId)
}

// Approve and Reject give the owner an explicit decision step. Neither gates
// payment or token generation; the owner can skip straight to payment.
func (bs *BookingRequestService) Approve(ctx context.Context, requestId, actorId primitive.ObjectID) (*models.BookingRequest, error) {
	return bs.decide(ctx, requestId, actorId, models.RequestStatusApproved)
}

func (bs *BookingRequestService) Reject(ctx context.Context, requestId, actorId primitive.ObjectID) (*models.BookingRequest, error) {
	return bs.decide(ctx, requestId, actorId, models.RequestStatusRejected)
}

func (bs *BookingRequestService) decide(ctx context.Context, requestId, actorId primitive.ObjectID, status models.BookingRequestStatus) (*models.BookingRequest, error) {
	req, err := bs.requestsRepo.GetBookingRequestByID(ctx, requestId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.OwnerID != actorId {
		return nil, ErrForbidden
	}
	if req.Status != models.RequestStatusPending {
		return nil, ErrConflict
	}
	return bs.requestsRepo.UpdateBookingRequestStatus(ctx, requestId, status)
}

// populate assembles the detail view; venue and conversation may be passed
// in when the caller already holds them.
func (bs *BookingRequestService) populate(ctx context.Context, req *models.BookingRequest, venue *models.Venue, conv *models.Conversation) (*models.BookingRequestDetail, error) {
	detail := &models.BookingRequestDetail{BookingRequest: *req}

	var err error
	if venue == nil {
		venue, err = bs.venuesRepo.GetVenueByID(ctx, req.VenueID)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}
	detail.Venue = venue

	if conv == nil && !req.ConversationID.IsZero() {
		conv, err = bs.conversationsRepo.GetConversationByID(ctx, req.ConversationID)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}
	detail.Conversation = conv

	if requester, err := bs.usersRepo.GetUserByID(ctx, req.RequesterID); err == nil {
		detail.Requester = requester.PublicProfile()
	}
	if owner, err := bs.usersRepo.GetUserByID(ctx, req.OwnerID); err == nil {
		detail.Owner = owner.PublicProfile()
	}

	return detail, nil
}
