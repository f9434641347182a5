package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teakonn/api/internal/helpers"
	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/notify"
)

const DefaultTokenTTLHours = 72

// TokenNotifier publishes the post-mint side effects. Delivery is
// best-effort: a publish failure is logged and swallowed, never surfaced to
// the generate caller.
type TokenNotifier interface {
	TokenGenerated(ctx context.Context, evt notify.TokenGenerated) error
}

type TokenService struct {
	tokensRepo   models.BookingTokensRepo
	requestsRepo models.BookingRequestsRepo
	paymentsRepo models.PaymentsRepo
	venuesRepo   models.VenuesRepo
	eventsRepo   models.EventsRepo
	notifier     TokenNotifier
	logger       *slog.Logger
}

func NewTokenService(
	tokensRepo models.BookingTokensRepo,
	requestsRepo models.BookingRequestsRepo,
	paymentsRepo models.PaymentsRepo,
	venuesRepo models.VenuesRepo,
	eventsRepo models.EventsRepo,
	notifier TokenNotifier,
	logger *slog.Logger,
) *TokenService {
	return &TokenService{
		tokensRepo:   tokensRepo,
		requestsRepo: requestsRepo,
		paymentsRepo: paymentsRepo,
		venuesRepo:   venuesRepo,
		eventsRepo:   eventsRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// Generate mints a single-use booking token for a request. It requires the
// actor to be the venue owner and a successful payment by that owner against
// the request. At most one active token may exist per request: the
// pre-checks catch the common case and the partial unique index on active
// tokens closes the race between concurrent calls.
func (ts *TokenService) Generate(ctx context.Context, requestId primitive.ObjectID, expiresInHours int, actorId primitive.ObjectID) (*models.BookingToken, error) {
	req, err := ts.requestsRepo.GetBookingRequestByID(ctx, requestId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.OwnerID != actorId {
		return nil, ErrForbidden
	}
	if req.Status == models.RequestStatusTokenGenerated {
		return nil, ErrConflict
	}
	if _, err := ts.tokensRepo.GetActiveTokenByRequest(ctx, requestId); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	payment, err := ts.paymentsRepo.GetSuccessPayment(ctx, requestId, actorId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPaymentRequired
		}
		return nil, err
	}

	venue, err := ts.venuesRepo.GetVenueByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if expiresInHours <= 0 {
		expiresInHours = DefaultTokenTTLHours
	}
	code, err := helpers.GenerateTokenCode()
	if err != nil {
		return nil, err
	}

	token := &models.BookingToken{
		Code:             code,
		VenueID:          req.VenueID,
		RequesterID:      req.RequesterID,
		OwnerID:          req.OwnerID,
		BookingRequestID: req.ID,
		PaymentID:        payment.ID,
		Status:           models.TokenStatusActive,
		ExpiresAt:        time.Now().Add(time.Duration(expiresInHours) * time.Hour),
	}
	created, err := ts.tokensRepo.CreateToken(ctx, token)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if _, err := ts.requestsRepo.UpdateBookingRequestStatus(ctx, req.ID, models.RequestStatusTokenGenerated); err != nil {
		ts.logger.Error("Failed to mark booking request token_generated",
			"request_id", req.ID.Hex(),
			"error", err,
		)
	}

	ts.notifyGenerated(ctx, created, req, venue)
	return created, nil
}

func (ts *TokenService) notifyGenerated(ctx context.Context, token *models.BookingToken, req *models.BookingRequest, venue *models.Venue) {
	if ts.notifier == nil {
		return
	}
	evt := notify.TokenGenerated{
		TokenCode:        token.Code,
		ExpiresAt:        token.ExpiresAt,
		BookingRequestID: req.ID.Hex(),
		ConversationID:   req.ConversationID.Hex(),
		VenueName:        venue.Name,
		RequesterID:      req.RequesterID.Hex(),
		OwnerID:          req.OwnerID.Hex(),
	}
	if err := ts.notifier.TokenGenerated(ctx, evt); err != nil {
		// Best-effort UX, not a correctness requirement.
		ts.logger.Error("Failed to publish token notification",
			"token_code", token.Code,
			"error", err,
		)
	}
}

// VerifiedToken is the read-only view returned by Verify.
type VerifiedToken struct {
	Venue     *models.Venue `json:"venue"`
	Code      string        `json:"code"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Verify checks a token without consuming it. Only the requester the token
// was minted for may verify it. A token past its expiry fails here even
// though storage still reads status=active.
func (ts *TokenService) Verify(ctx context.Context, code string, actorId primitive.ObjectID) (*VerifiedToken, error) {
	token, err := ts.loadUsableToken(ctx, code)
	if err != nil {
		return nil, err
	}
	if token.RequesterID != actorId {
		return nil, ErrForbidden
	}

	venue, err := ts.venuesRepo.GetVenueByID(ctx, token.VenueID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	return &VerifiedToken{
		Venue:     venue,
		Code:      token.Code,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Redeem consumes a token to create exactly one event bound to the token's
// venue. The consume is a compare-and-swap on status=active, so a second
// redemption of the same code loses the swap and fails. The event's location
// comes from the venue; client-supplied location fields are discarded.
func (ts *TokenService) Redeem(ctx context.Context, code string, event *models.Event, actorId primitive.ObjectID) (*models.Event, error) {
	token, err := ts.loadUsableToken(ctx, code)
	if err != nil {
		return nil, err
	}
	if token.RequesterID != actorId {
		return nil, ErrForbidden
	}

	venue, err := ts.venuesRepo.GetVenueByID(ctx, token.VenueID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	consumed, err := ts.tokensRepo.ConsumeToken(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	event.HostID = actorId
	event.VenueID = &venue.ID
	event.TokenCode = consumed.Code
	event.Location = venue.Location

	created, err := ts.eventsRepo.CreateEvent(ctx, event)
	if err != nil {
		// The token is already consumed at this point; surface the code so
		// the owner can re-issue manually.
		return nil, fmt.Errorf("token %s consumed but event creation failed: %v", consumed.Code, err)
	}
	return created, nil
}

// Revoke ends an active token early. Owner only.
func (ts *TokenService) Revoke(ctx context.Context, code string, actorId primitive.ObjectID) (*models.BookingToken, error) {
	token, err := ts.getToken(ctx, code)
	if err != nil {
		return nil, err
	}
	if token.OwnerID != actorId {
		return nil, ErrForbidden
	}
	if token.Status != models.TokenStatusActive {
		return nil, ErrTokenInvalid
	}

	revoked, err := ts.tokensRepo.RevokeToken(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	return revoked, nil
}

// Extend pushes an active token's expiry forward. Owner only.
func (ts *TokenService) Extend(ctx context.Context, code string, hours int, actorId primitive.ObjectID) (*models.BookingToken, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("hours must be positive")
	}
	token, err := ts.getToken(ctx, code)
	if err != nil {
		return nil, err
	}
	if token.OwnerID != actorId {
		return nil, ErrForbidden
	}
	if token.Status != models.TokenStatusActive {
		return nil, ErrTokenInvalid
	}

	until := token.ExpiresAt.Add(time.Duration(hours) * time.Hour)
	extended, err := ts.tokensRepo.ExtendToken(ctx, code, until)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	return extended, nil
}

func (ts *TokenService) ListGenerated(ctx context.Context, actorId primitive.ObjectID) ([]*models.BookingToken, error) {
	return ts.tokensRepo.ListTokensByOwner(ctx, actorId)
}

func (ts *TokenService) ListReceived(ctx context.Context, actorId primitive.ObjectID) ([]*models.BookingToken, error) {
	return ts.tokensRepo.ListTokensByRequester(ctx, actorId)
}

func (ts *TokenService) getToken(ctx context.Context, code string) (*models.BookingToken, error) {
	token, err := ts.tokensRepo.GetTokenByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return token, nil
}

// loadUsableToken applies the shared verify/redeem gauntlet: the token must
// exist, be active, and be inside its validity window.
func (ts *TokenService) loadUsableToken(ctx context.Context, code string) (*models.BookingToken, error) {
	token, err := ts.getToken(ctx, code)
	if err != nil {
		return nil, err
	}
	if token.Status != models.TokenStatusActive {
		return nil, ErrTokenInvalid
	}
	if token.IsExpiredAt(time.Now()) {
		return nil, ErrTokenExpired
	}
	return token, nil
}
