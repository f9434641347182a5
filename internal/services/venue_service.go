package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teakonn/api/internal/models"
)

type VenueService struct {
	venuesRepo models.VenuesRepo
}

func NewVenueService(venuesRepo models.VenuesRepo) *VenueService {
	return &VenueService{
		venuesRepo: venuesRepo,
	}
}

func (vs *VenueService) CreateVenue(ctx context.Context, venue *models.Venue, ownerId primitive.ObjectID) (*models.Venue, error) {
	venue.OwnerID = ownerId
	venue.Status = models.VenueStatusActive
	if err := models.Validate.Struct(venue); err != nil {
		return nil, fmt.Errorf("invalid venue data provided: %v", err)
	}
	return vs.venuesRepo.CreateVenue(ctx, venue)
}

func (vs *VenueService) GetVenueByID(ctx context.Context, id primitive.ObjectID) (*models.Venue, error) {
	venue, err := vs.venuesRepo.GetVenueByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return venue, nil
}

func (vs *VenueService) ListVenues(ctx context.Context, offset, limit int) ([]*models.Venue, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return vs.venuesRepo.ListVenues(ctx, offset, limit)
}

func (vs *VenueService) ListVenuesByOwner(ctx context.Context, ownerId primitive.ObjectID, offset, limit int) ([]*models.Venue, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return vs.venuesRepo.ListVenuesByOwner(ctx, ownerId, offset, limit)
}

func (vs *VenueService) DeleteVenue(ctx context.Context, actorId, venueId primitive.ObjectID) error {
	venue, err := vs.GetVenueByID(ctx, venueId)
	if err != nil {
		return err
	}
	if venue.OwnerID != actorId {
		return ErrForbidden
	}
	return vs.venuesRepo.DeleteVenue(ctx, actorId, venueId)
}
