package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/services"
)

func ListConversationMessages(ms *services.MessagingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}
		conversationId, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		messages, err := ms.ListMessages(c.Request.Context(), conversationId, actorId, limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"messages": messages}, ""))
	}
}

func ListMyNotifications(ms *services.MessagingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		notifications, err := ms.ListNotifications(c.Request.Context(), actorId, limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"notifications": notifications}, ""))
	}
}
