package services

import "errors"

// Error taxonomy for the booking subsystem. Handlers map these onto HTTP
// statuses; services never return raw driver errors for expected outcomes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("actor lacks the required relationship to this resource")
	ErrConflict           = errors.New("an active token already exists for this booking request")
	ErrPaymentRequired    = errors.New("no successful payment found for this booking request")
	ErrTokenInvalid       = errors.New("token is not active")
	ErrTokenExpired       = errors.New("token has expired")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
