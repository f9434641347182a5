package notify

import "time"

const (
	Exchange = "teakonn.notifications"

	KeyTokenGenerated = "booking.token.generated"
)

// TokenGenerated is published after a booking token has been written to
// storage. The notifier worker turns it into a conversation DM and a
// notification record; delivery is best-effort from the API's point of view.
type TokenGenerated struct {
	TokenCode        string    `json:"token_code"`
	ExpiresAt        time.Time `json:"expires_at"`
	BookingRequestID string    `json:"booking_request_id"`
	ConversationID   string    `json:"conversation_id"`
	VenueName        string    `json:"venue_name"`
	RequesterID      string    `json:"requester_id"`
	OwnerID          string    `json:"owner_id"`
}
