package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teakonn/api/internal/models"
)

// fakeStore is an in-memory stand-in for MongodbRepo. It mirrors the two
// storage-level guarantees the services lean on: the partial unique index on
// active tokens and the unique index on payment idempotency keys, both
// surfaced as duplicate-key errors.
type fakeStore struct {
	users         map[primitive.ObjectID]*models.User
	venues        map[primitive.ObjectID]*models.Venue
	conversations map[primitive.ObjectID]*models.Conversation
	messages      []*models.Message
	requests      map[primitive.ObjectID]*models.BookingRequest
	payments      map[primitive.ObjectID]*models.Payment
	tokens        map[primitive.ObjectID]*models.BookingToken
	events        map[primitive.ObjectID]*models.Event
	notifications []*models.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[primitive.ObjectID]*models.User),
		venues:        make(map[primitive.ObjectID]*models.Venue),
		conversations: make(map[primitive.ObjectID]*models.Conversation),
		requests:      make(map[primitive.ObjectID]*models.BookingRequest),
		payments:      make(map[primitive.ObjectID]*models.Payment),
		tokens:        make(map[primitive.ObjectID]*models.BookingToken),
		events:        make(map[primitive.ObjectID]*models.Event),
	}
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}

// --- UsersRepo ---

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, duplicateKeyErr()
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// --- VenuesRepo ---

func (f *fakeStore) CreateVenue(ctx context.Context, venue *models.Venue) (*models.Venue, error) {
	if venue.ID.IsZero() {
		venue.ID = primitive.NewObjectID()
	}
	venue.CreatedAt = time.Now()
	venue.UpdatedAt = venue.CreatedAt
	f.venues[venue.ID] = venue
	return venue, nil
}

func (f *fakeStore) GetVenueByID(ctx context.Context, id primitive.ObjectID) (*models.Venue, error) {
	venue, ok := f.venues[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return venue, nil
}

func (f *fakeStore) ListVenues(ctx context.Context, offset, limit int) ([]*models.Venue, int, error) {
	var venues []*models.Venue
	for _, v := range f.venues {
		venues = append(venues, v)
	}
	return venues, len(venues), nil
}

func (f *fakeStore) ListVenuesByOwner(ctx context.Context, ownerId primitive.ObjectID, offset, limit int) ([]*models.Venue, int, error) {
	var venues []*models.Venue
	for _, v := range f.venues {
		if v.OwnerID == ownerId {
			venues = append(venues, v)
		}
	}
	return venues, len(venues), nil
}

func (f *fakeStore) DeleteVenue(ctx context.Context, ownerId, venueId primitive.ObjectID) error {
	delete(f.venues, venueId)
	return nil
}

// --- ConversationsRepo ---

func (f *fakeStore) CreateConversation(ctx context.Context, participants []primitive.ObjectID, meta map[string]string) (*models.Conversation, error) {
	conv := &models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: participants,
		Meta:         meta,
		CreatedAt:    time.Now(),
	}
	f.conversations[conv.ID] = conv
	return conv, nil
}

func (f *fakeStore) GetConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return conv, nil
}

func (f *fakeStore) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeStore) ListMessages(ctx context.Context, conversationId primitive.ObjectID, limit int) ([]*models.Message, error) {
	var messages []*models.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationId {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

// --- BookingRequestsRepo ---

func (f *fakeStore) CreateBookingRequest(ctx context.Context, req *models.BookingRequest) (*models.BookingRequest, error) {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeStore) GetBookingRequestByID(ctx context.Context, id primitive.ObjectID) (*models.BookingRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return req, nil
}

func (f *fakeStore) ListBookingRequestsByRequester(ctx context.Context, requesterId primitive.ObjectID) ([]*models.BookingRequest, error) {
	return f.listRequests(func(r *models.BookingRequest) bool { return r.RequesterID == requesterId }), nil
}

func (f *fakeStore) ListBookingRequestsByOwner(ctx context.Context, ownerId primitive.ObjectID) ([]*models.BookingRequest, error) {
	return f.listRequests(func(r *models.BookingRequest) bool { return r.OwnerID == ownerId }), nil
}

func (f *fakeStore) listRequests(match func(*models.BookingRequest) bool) []*models.BookingRequest {
	var requests []*models.BookingRequest
	for _, r := range f.requests {
		if match(r) {
			requests = append(requests, r)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.After(requests[j].CreatedAt) })
	return requests
}

func (f *fakeStore) UpdateBookingRequestStatus(ctx context.Context, id primitive.ObjectID, status models.BookingRequestStatus) (*models.BookingRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	return req, nil
}

// --- PaymentsRepo ---

func (f *fakeStore) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.IdempotencyKey != "" {
		for _, p := range f.payments {
			if p.IdempotencyKey == payment.IdempotencyKey {
				return nil, duplicateKeyErr()
			}
		}
	}
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	f.payments[payment.ID] = payment
	return payment, nil
}

func (f *fakeStore) GetPaymentByIdempotencyKey(ctx context.Context, key string) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.IdempotencyKey == key {
			return p, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeStore) GetPaymentByExternalRef(ctx context.Context, ref string) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.ExternalRef == ref {
			return p, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeStore) GetSuccessPayment(ctx context.Context, requestId, initiatorId primitive.ObjectID) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.BookingRequestID == requestId && p.InitiatorID == initiatorId && p.Status == models.PaymentStatusSuccess {
			return p, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeStore) SettlePayment(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, externalRef string) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	p.Status = status
	if externalRef != "" {
		p.ExternalRef = externalRef
	}
	p.UpdatedAt = time.Now()
	return p, nil
}

// --- BookingTokensRepo ---

func (f *fakeStore) CreateToken(ctx context.Context, token *models.BookingToken) (*models.BookingToken, error) {
	for _, t := range f.tokens {
		if t.BookingRequestID == token.BookingRequestID && t.Status == models.TokenStatusActive {
			return nil, duplicateKeyErr()
		}
	}
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	token.CreatedAt = time.Now()
	token.UpdatedAt = token.CreatedAt
	f.tokens[token.ID] = token
	return token, nil
}

func (f *fakeStore) GetTokenByCode(ctx context.Context, code string) (*models.BookingToken, error) {
	for _, t := range f.tokens {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeStore) GetActiveTokenByRequest(ctx context.Context, requestId primitive.ObjectID) (*models.BookingToken, error) {
	for _, t := range f.tokens {
		if t.BookingRequestID == requestId && t.Status == models.TokenStatusActive {
			return t, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeStore) ConsumeToken(ctx context.Context, code string, consumedAt time.Time) (*models.BookingToken, error) {
	t, err := f.activeTokenByCode(code)
	if err != nil {
		return nil, err
	}
	t.Status = models.TokenStatusUsed
	t.ConsumedAt = &consumedAt
	t.UpdatedAt = consumedAt
	return t, nil
}

func (f *fakeStore) RevokeToken(ctx context.Context, code string, at time.Time) (*models.BookingToken, error) {
	t, err := f.activeTokenByCode(code)
	if err != nil {
		return nil, err
	}
	t.Status = models.TokenStatusExpired
	t.ExpiresAt = at
	t.UpdatedAt = at
	return t, nil
}

func (f *fakeStore) ExtendToken(ctx context.Context, code string, until time.Time) (*models.BookingToken, error) {
	t, err := f.activeTokenByCode(code)
	if err != nil {
		return nil, err
	}
	t.ExpiresAt = until
	t.UpdatedAt = time.Now()
	return t, nil
}

func (f *fakeStore) activeTokenByCode(code string) (*models.BookingToken, error) {
	for _, t := range f.tokens {
		if t.Code == code && t.Status == models.TokenStatusActive {
			return t, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeStore) ListTokensByOwner(ctx context.Context, ownerId primitive.ObjectID) ([]*models.BookingToken, error) {
	var tokens []*models.BookingToken
	for _, t := range f.tokens {
		if t.OwnerID == ownerId {
			tokens = append(tokens, t)
		}
	}
	return tokens, nil
}

func (f *fakeStore) ListTokensByRequester(ctx context.Context, requesterId primitive.ObjectID) ([]*models.BookingToken, error) {
	var tokens []*models.BookingToken
	for _, t := range f.tokens {
		if t.RequesterID == requesterId {
			tokens = append(tokens, t)
		}
	}
	return tokens, nil
}

// --- EventsRepo ---

func (f *fakeStore) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeStore) GetEventByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return event, nil
}

func (f *fakeStore) ListEvents(ctx context.Context, offset, limit int) ([]*models.Event, int, error) {
	var events []*models.Event
	for _, e := range f.events {
		events = append(events, e)
	}
	return events, len(events), nil
}

// --- NotificationsRepo ---

func (f *fakeStore) InsertNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	f.notifications = append(f.notifications, n)
	return n, nil
}

func (f *fakeStore) ListNotificationsByUser(ctx context.Context, userId primitive.ObjectID, limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	for _, n := range f.notifications {
		if n.UserID == userId {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}
