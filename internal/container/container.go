package container

import (
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teakonn/api/internal/config"
	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger        *slog.Logger
	Config        *config.Config
	MongoDBClient *mongo.Client
	Repo          *models.MongodbRepo

	UserService           *services.UserService
	VenueService          *services.VenueService
	BookingRequestService *services.BookingRequestService
	PaymentService        *services.PaymentService
	TokenService          *services.TokenService
	EventService          *services.EventService
	MessagingService      *services.MessagingService
}

// NewContainer creates a new dependency injection container. The notifier is
// optional: without one, token generation simply skips the side effect.
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	mongoDBClient *mongo.Client,
	notifier services.TokenNotifier,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient)

	userService := services.NewUserService(repo, []byte(cfg.JWTSecret))
	venueService := services.NewVenueService(repo)
	bookingRequestService := services.NewBookingRequestService(repo, repo, repo, repo)
	paymentService := services.NewPaymentService(repo, repo)
	tokenService := services.NewTokenService(repo, repo, repo, repo, repo, notifier, logger)
	eventService := services.NewEventService(repo, tokenService)
	messagingService := services.NewMessagingService(repo, repo)

	return &Container{
		Logger:                logger,
		Config:                cfg,
		MongoDBClient:         mongoDBClient,
		Repo:                  repo,
		UserService:           userService,
		VenueService:          venueService,
		BookingRequestService: bookingRequestService,
		PaymentService:        paymentService,
		TokenService:          tokenService,
		EventService:          eventService,
		MessagingService:      messagingService,
	}
}
