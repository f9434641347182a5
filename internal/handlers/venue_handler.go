package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/services"
)

func CreateVenue(vs *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		var venue models.Venue
		if err := c.ShouldBindJSON(&venue); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := vs.CreateVenue(c.Request.Context(), &venue, actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Venue created successfully"))
	}
}

func GetVenue(vs *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueId, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		venue, err := vs.GetVenueByID(c.Request.Context(), venueId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(venue, ""))
	}
}

func ListVenues(vs *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		venues, total, err := vs.ListVenues(c.Request.Context(), offset, limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(venues, page, limit, total))
	}
}

func ListMyVenues(vs *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		venues, total, err := vs.ListVenuesByOwner(c.Request.Context(), actorId, offset, limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(venues, page, limit, total))
	}
}

func DeleteVenue(vs *services.VenueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}
		venueId, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		if err := vs.DeleteVenue(c.Request.Context(), actorId, venueId); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "venue deleted successfully"))
	}
}

func parsePagination(c *gin.Context) (offset, limit int, ok bool) {
	limitStr := c.DefaultQuery("limit", "10")
	offsetStr := c.DefaultQuery("offset", "0")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
		return 0, 0, false
	}
	offset, err = strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid offset parameter"))
		return 0, 0, false
	}
	return offset, limit, true
}
