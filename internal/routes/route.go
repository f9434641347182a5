package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/teakonn/api/internal/container"
	"github.com/teakonn/api/internal/handlers"
	"github.com/teakonn/api/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "teakonn-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.Signup(container.UserService))
		v1.POST("/login", handlers.Login(container.UserService))

		// gateway webhook; authenticated by nothing but obscurity, the
		// payment gateway does not hold a user session
		v1.POST("/payments/callback", handlers.PaymentCallback(container.PaymentService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware([]byte(container.Config.JWTSecret), container.Logger))

	protected.GET("/profile", handlers.GetProfile(container.UserService))

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("/:id", handlers.GetUser(container.UserService))
	}

	venueRoutes := protected.Group("/venues")
	{
		venueRoutes.POST("/", handlers.CreateVenue(container.VenueService))
		venueRoutes.GET("/", handlers.ListVenues(container.VenueService))
		venueRoutes.GET("/:id", handlers.GetVenue(container.VenueService))
		venueRoutes.GET("/my", handlers.ListMyVenues(container.VenueService))
		venueRoutes.DELETE("/:id", handlers.DeleteVenue(container.VenueService))
	}

	bookingRoutes := protected.Group("/booking-requests")
	{
		bookingRoutes.POST("/create", handlers.CreateBookingRequest(container.BookingRequestService))
		bookingRoutes.GET("/:id", handlers.GetBookingRequest(container.BookingRequestService))
		bookingRoutes.GET("/my/sent", handlers.ListSentBookingRequests(container.BookingRequestService))
		bookingRoutes.GET("/my/received", handlers.ListReceivedBookingRequests(container.BookingRequestService))
		bookingRoutes.POST("/:id/approve", handlers.ApproveBookingRequest(container.BookingRequestService))
		bookingRoutes.POST("/:id/reject", handlers.RejectBookingRequest(container.BookingRequestService))
	}

	paymentRoutes := protected.Group("/payments")
	{
		paymentRoutes.POST("/initiate", handlers.InitiatePayment(container.PaymentService))
	}

	tokenRoutes := protected.Group("/tokens")
	{
		tokenRoutes.POST("/generate", handlers.GenerateToken(container.TokenService))
		tokenRoutes.POST("/verify", handlers.VerifyToken(container.TokenService))
		tokenRoutes.POST("/revoke", handlers.RevokeToken(container.TokenService))
		tokenRoutes.POST("/extend", handlers.ExtendToken(container.TokenService))
		tokenRoutes.GET("/my/generated", handlers.ListGeneratedTokens(container.TokenService))
		tokenRoutes.GET("/my/received", handlers.ListReceivedTokens(container.TokenService))
	}

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("/", handlers.CreateEvent(container.EventService))
		eventRoutes.GET("/", handlers.ListEvents(container.EventService))
		eventRoutes.GET("/:id", handlers.GetEvent(container.EventService))
	}

	conversationRoutes := protected.Group("/conversations")
	{
		conversationRoutes.GET("/:id/messages", handlers.ListConversationMessages(container.MessagingService))
	}

	protected.GET("/notifications", handlers.ListMyNotifications(container.MessagingService))

	return r
}
