package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teakonn/api/internal/helpers"
	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/notify"
)

type captureNotifier struct {
	events []notify.TokenGenerated
	err    error
}

func (cn *captureNotifier) TokenGenerated(ctx context.Context, evt notify.TokenGenerated) error {
	if cn.err != nil {
		return cn.err
	}
	cn.events = append(cn.events, evt)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tokenFixture seeds the happy-path graph: a venue, a pending booking request
// against it and the conversation between the two parties.
type tokenFixture struct {
	store     *fakeStore
	svc       *TokenService
	notifier  *captureNotifier
	owner     primitive.ObjectID
	requester primitive.ObjectID
	venue     *models.Venue
	request   *models.BookingRequest
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()
	ctx := context.Background()
	store := newFakeStore()

	owner := primitive.NewObjectID()
	requester := primitive.NewObjectID()
	store.users[owner] = &models.User{ID: owner, Username: "venue_owner", Email: "owner@example.com"}
	store.users[requester] = &models.User{ID: requester, Username: "organizer", Email: "organizer@example.com"}

	venue, err := store.CreateVenue(ctx, &models.Venue{
		OwnerID: owner,
		Name:    "Riverside Hall",
		Status:  models.VenueStatusActive,
		Location: models.VenueLocation{
			Address: "12 Riverside Dr",
			City:    "Nairobi",
			Country: "KE",
		},
	})
	assert.NoError(t, err)

	conv, err := store.CreateConversation(ctx, []primitive.ObjectID{requester, owner}, nil)
	assert.NoError(t, err)

	request, err := store.CreateBookingRequest(ctx, &models.BookingRequest{
		VenueID:        venue.ID,
		RequesterID:    requester,
		OwnerID:        owner,
		ConversationID: conv.ID,
		Status:         models.RequestStatusPending,
	})
	assert.NoError(t, err)

	notifier := &captureNotifier{}
	svc := NewTokenService(store, store, store, store, store, notifier, discardLogger())
	return &tokenFixture{
		store:     store,
		svc:       svc,
		notifier:  notifier,
		owner:     owner,
		requester: requester,
		venue:     venue,
		request:   request,
	}
}

// paySuccess records a settled owner payment against the fixture's request.
func (fx *tokenFixture) paySuccess(t *testing.T) *models.Payment {
	t.Helper()
	payment, err := fx.store.CreatePayment(context.Background(), &models.Payment{
		InitiatorID:      fx.owner,
		BookingRequestID: fx.request.ID,
		Amount:           1500,
		Currency:         "KES",
		Channel:          models.PaymentChannelMpesa,
		Status:           models.PaymentStatusSuccess,
	})
	assert.NoError(t, err)
	return payment
}

func TestGenerateToken(t *testing.T) {
	fx := newTokenFixture(t)
	payment := fx.paySuccess(t)

	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 0, fx.owner)
	assert.NoError(t, err)
	assert.Equal(t, models.TokenStatusActive, token.Status)
	assert.Len(t, token.Code, helpers.TokenCodeLength)
	assert.Equal(t, fx.venue.ID, token.VenueID)
	assert.Equal(t, fx.requester, token.RequesterID)
	assert.Equal(t, fx.owner, token.OwnerID)
	assert.Equal(t, payment.ID, token.PaymentID)

	// zero hours falls back to the default TTL
	ttl := time.Until(token.ExpiresAt)
	assert.InDelta(t, DefaultTokenTTLHours, ttl.Hours(), 1)

	// the request is parked so a second generate short-circuits
	req, err := fx.store.GetBookingRequestByID(context.Background(), fx.request.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusTokenGenerated, req.Status)

	assert.Len(t, fx.notifier.events, 1)
	assert.Equal(t, token.Code, fx.notifier.events[0].TokenCode)
	assert.Equal(t, fx.venue.Name, fx.notifier.events[0].VenueName)
}

func TestGenerateTokenRequestNotFound(t *testing.T) {
	fx := newTokenFixture(t)
	_, err := fx.svc.Generate(context.Background(), primitive.NewObjectID(), 24, fx.owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateTokenNotOwner(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	_, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.requester)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGenerateTokenWithoutPayment(t *testing.T) {
	fx := newTokenFixture(t)
	_, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.ErrorIs(t, err, ErrPaymentRequired)
}

func TestGenerateTokenRequesterPaymentDoesNotCount(t *testing.T) {
	fx := newTokenFixture(t)
	// the gate is on the owner's own payment; someone else settling the same
	// request does not unlock issuance
	_, err := fx.store.CreatePayment(context.Background(), &models.Payment{
		InitiatorID:      fx.requester,
		BookingRequestID: fx.request.ID,
		Amount:           1500,
		Currency:         "KES",
		Status:           models.PaymentStatusSuccess,
	})
	assert.NoError(t, err)

	_, err = fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.ErrorIs(t, err, ErrPaymentRequired)
}

func TestGenerateTokenInitiatedPaymentDoesNotCount(t *testing.T) {
	fx := newTokenFixture(t)
	_, err := fx.store.CreatePayment(context.Background(), &models.Payment{
		InitiatorID:      fx.owner,
		BookingRequestID: fx.request.ID,
		Amount:           1500,
		Currency:         "KES",
		Status:           models.PaymentStatusInitiated,
	})
	assert.NoError(t, err)

	_, err = fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.ErrorIs(t, err, ErrPaymentRequired)
}

func TestGenerateTokenSecondActiveConflicts(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)

	_, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	_, err = fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGenerateTokenNotifierFailureSwallowed(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	fx.notifier.err = errors.New("broker down")

	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)
	assert.NotNil(t, token)
}

func TestGenerateTokenNilNotifier(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	svc := NewTokenService(fx.store, fx.store, fx.store, fx.store, fx.store, nil, discardLogger())

	token, err := svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)
	assert.NotNil(t, token)
}

func TestVerifyToken(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	verified, err := fx.svc.Verify(context.Background(), token.Code, fx.requester)
	assert.NoError(t, err)
	assert.Equal(t, token.Code, verified.Code)
	assert.Equal(t, fx.venue.ID, verified.Venue.ID)

	// verify is read-only, the token stays usable
	stored, err := fx.store.GetTokenByCode(context.Background(), token.Code)
	assert.NoError(t, err)
	assert.Equal(t, models.TokenStatusActive, stored.Status)
}

func TestVerifyTokenWrongActor(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	// even the owner who minted it cannot verify on the requester's behalf
	_, err = fx.svc.Verify(context.Background(), token.Code, fx.owner)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestVerifyTokenUnknownCode(t *testing.T) {
	fx := newTokenFixture(t)
	_, err := fx.svc.Verify(context.Background(), "NOSUCHCODE22", fx.requester)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyTokenExpired(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	// storage still says active; expiry is enforced lazily at read time
	stored, err := fx.store.GetTokenByCode(context.Background(), token.Code)
	assert.NoError(t, err)
	stored.ExpiresAt = time.Now().Add(-time.Hour)

	_, err = fx.svc.Verify(context.Background(), token.Code, fx.requester)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, models.TokenStatusActive, stored.Status)
}

func TestRedeemToken(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	draft := &models.Event{
		Title:     "Launch Party",
		StartTime: time.Now().Add(48 * time.Hour),
		EndTime:   time.Now().Add(52 * time.Hour),
		Location: models.VenueLocation{
			Address: "made up by the client",
			City:    "Elsewhere",
		},
	}
	event, err := fx.svc.Redeem(context.Background(), token.Code, draft, fx.requester)
	assert.NoError(t, err)
	assert.Equal(t, fx.requester, event.HostID)
	assert.Equal(t, fx.venue.ID, *event.VenueID)
	assert.Equal(t, token.Code, event.TokenCode)

	// client-supplied location is discarded for the venue's
	assert.Equal(t, fx.venue.Location, event.Location)

	consumed, err := fx.store.GetTokenByCode(context.Background(), token.Code)
	assert.NoError(t, err)
	assert.Equal(t, models.TokenStatusUsed, consumed.Status)
	assert.NotNil(t, consumed.ConsumedAt)
}

func TestRedeemTokenSingleUse(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	_, err = fx.svc.Redeem(context.Background(), token.Code, &models.Event{Title: "First"}, fx.requester)
	assert.NoError(t, err)

	_, err = fx.svc.Redeem(context.Background(), token.Code, &models.Event{Title: "Second"}, fx.requester)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Len(t, fx.store.events, 1)
}

func TestRedeemTokenWrongActor(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	_, err = fx.svc.Redeem(context.Background(), token.Code, &models.Event{Title: "Hijack"}, fx.owner)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRevokeToken(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	revoked, err := fx.svc.Revoke(context.Background(), token.Code, fx.owner)
	assert.NoError(t, err)
	assert.Equal(t, models.TokenStatusExpired, revoked.Status)

	_, err = fx.svc.Verify(context.Background(), token.Code, fx.requester)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRevokeTokenRequesterForbidden(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	_, err = fx.svc.Revoke(context.Background(), token.Code, fx.requester)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRevokeUsedToken(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)
	_, err = fx.svc.Redeem(context.Background(), token.Code, &models.Event{Title: "Done"}, fx.requester)
	assert.NoError(t, err)

	_, err = fx.svc.Revoke(context.Background(), token.Code, fx.owner)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExtendToken(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)
	originalExpiry := token.ExpiresAt

	extended, err := fx.svc.Extend(context.Background(), token.Code, 48, fx.owner)
	assert.NoError(t, err)
	assert.Equal(t, originalExpiry.Add(48*time.Hour), extended.ExpiresAt)
}

func TestExtendTokenValidation(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	_, err = fx.svc.Extend(context.Background(), token.Code, 0, fx.owner)
	assert.Error(t, err)

	_, err = fx.svc.Extend(context.Background(), token.Code, 12, fx.requester)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListTokens(t *testing.T) {
	fx := newTokenFixture(t)
	fx.paySuccess(t)
	token, err := fx.svc.Generate(context.Background(), fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	generated, err := fx.svc.ListGenerated(context.Background(), fx.owner)
	assert.NoError(t, err)
	assert.Len(t, generated, 1)
	assert.Equal(t, token.Code, generated[0].Code)

	received, err := fx.svc.ListReceived(context.Background(), fx.requester)
	assert.NoError(t, err)
	assert.Len(t, received, 1)

	none, err := fx.svc.ListGenerated(context.Background(), fx.requester)
	assert.NoError(t, err)
	assert.Empty(t, none)
}

// TestBookingTokenLifecycle walks the whole flow end to end: request, owner
// payment, mint, verify, redeem, and the token refusing any further use.
func TestBookingTokenLifecycle(t *testing.T) {
	fx := newTokenFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Generate(ctx, fx.request.ID, 24, fx.owner)
	assert.ErrorIs(t, err, ErrPaymentRequired)

	fx.paySuccess(t)

	token, err := fx.svc.Generate(ctx, fx.request.ID, 24, fx.owner)
	assert.NoError(t, err)

	verified, err := fx.svc.Verify(ctx, token.Code, fx.requester)
	assert.NoError(t, err)
	assert.Equal(t, fx.venue.Name, verified.Venue.Name)

	event, err := fx.svc.Redeem(ctx, token.Code, &models.Event{Title: "Tea Tasting"}, fx.requester)
	assert.NoError(t, err)
	assert.Equal(t, fx.venue.Location, event.Location)

	_, err = fx.svc.Verify(ctx, token.Code, fx.requester)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = fx.svc.Redeem(ctx, token.Code, &models.Event{Title: "Again"}, fx.requester)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
