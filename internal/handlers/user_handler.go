package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/services"
)

func GetProfile(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		user, err := us.GetUser(c.Request.Context(), actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

func GetUser(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		user, err := us.GetUser(c.Request.Context(), userId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user.PublicProfile(), ""))
	}
}
