package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/services"
)

type initiatePaymentRequest struct {
	BookingRequestID string  `json:"bookingRequestId" binding:"required"`
	Amount           float64 `json:"amount" binding:"required,gt=0"`
	Currency         string  `json:"currency" binding:"required"`
	IdempotencyKey   string  `json:"idempotencyKey"`
}

func InitiatePayment(ps *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		var req initiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		requestId, err := primitive.ObjectIDFromHex(req.BookingRequestID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid bookingRequestId format"))
			return
		}

		payment, err := ps.Initiate(c.Request.Context(), requestId, req.Amount, req.Currency, req.IdempotencyKey, actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(payment, "Payment initiated"))
	}
}

type paymentCallbackRequest struct {
	ExternalRef    string `json:"externalRef"`
	IdempotencyKey string `json:"idempotencyKey"`
	Status         string `json:"status" binding:"required"`
}

// PaymentCallback is the gateway webhook; it is mounted outside the
// authenticated group.
func PaymentCallback(ps *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentCallbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if _, err := ps.Callback(c.Request.Context(), req.ExternalRef, req.IdempotencyKey, req.Status); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
