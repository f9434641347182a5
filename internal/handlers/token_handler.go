package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/services"
)

type generateTokenRequest struct {
	BookingRequestID string `json:"bookingRequestId" binding:"required"`
	ExpiresInHours   int    `json:"expiresInHours"`
}

func GenerateToken(ts *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		var req generateTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		requestId, err := primitive.ObjectIDFromHex(req.BookingRequestID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid bookingRequestId format"))
			return
		}

		token, err := ts.Generate(c.Request.Context(), requestId, req.ExpiresInHours, actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(token, "Booking token generated"))
	}
}

type tokenCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

func VerifyToken(ts *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		var req tokenCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		verified, err := ts.Verify(c.Request.Context(), req.Code, actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"valid": true,
			"venue": verified.Venue,
			"token": gin.H{
				"code":      verified.Code,
				"expiresAt": verified.ExpiresAt,
			},
		}, ""))
	}
}

func RevokeToken(ts *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		var req tokenCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		token, err := ts.Revoke(c.Request.Context(), req.Code, actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(token, "Token revoked"))
	}
}

type extendTokenRequest struct {
	Code  string `json:"code" binding:"required"`
	Hours int    `json:"hours" binding:"required,gt=0"`
}

func ExtendToken(ts *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		var req extendTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		token, err := ts.Extend(c.Request.Context(), req.Code, req.Hours, actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(token, "Token extended"))
	}
}

func ListGeneratedTokens(ts *services.TokenService) gin.HandlerFunc {
	return listTokens(ts, true)
}

func ListReceivedTokens(ts *services.TokenService) gin.HandlerFunc {
	return listTokens(ts, false)
}

func listTokens(ts *services.TokenService, generated bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		var (
			tokens []*models.BookingToken
			err    error
		)
		if generated {
			tokens, err = ts.ListGenerated(c.Request.Context(), actorId)
		} else {
			tokens, err = ts.ListReceived(c.Request.Context(), actorId)
		}
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"tokens": tokens}, ""))
	}
}
