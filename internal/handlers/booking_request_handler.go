package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/services"
)

type createBookingRequest struct {
	VenueID string `json:"venueId" binding:"required"`
	Notes   string `json:"notes"`
}

func CreateBookingRequest(bs *services.BookingRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		var req createBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		venueId, err := primitive.ObjectIDFromHex(req.VenueID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid venueId format"))
			return
		}

		detail, err := bs.Create(c.Request.Context(), venueId, actorId, req.Notes)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(detail, "Booking request created successfully"))
	}
}

func GetBookingRequest(bs *services.BookingRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}
		requestId, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		detail, err := bs.Get(c.Request.Context(), requestId, actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(detail, ""))
	}
}

func ListSentBookingRequests(bs *services.BookingRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		requests, err := bs.ListSent(c.Request.Context(), actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"requests": requests}, ""))
	}
}

func ListReceivedBookingRequests(bs *services.BookingRequestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		requests, err := bs.ListReceived(c.Request.Context(), actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"requests": requests}, ""))
	}
}

func ApproveBookingRequest(bs *services.BookingRequestService) gin.HandlerFunc {
	return decideBookingRequest(bs, true)
}

func RejectBookingRequest(bs *services.BookingRequestService) gin.HandlerFunc {
	return decideBookingRequest(bs, false)
}

func decideBookingRequest(bs *services.BookingRequestService, approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}
		requestId, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var (
			req *models.BookingRequest
			err error
		)
		if approve {
			req, err = bs.Approve(c.Request.Context(), requestId, actorId)
		} else {
			req, err = bs.Reject(c.Request.Context(), requestId, actorId)
		}
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(req, ""))
	}
}
