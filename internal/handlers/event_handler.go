package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/services"
)

type createEventRequest struct {
	BookingTokenCode string               `json:"bookingTokenCode"`
	Title            string               `json:"title" binding:"required"`
	Description      string               `json:"description"`
	Location         models.VenueLocation `json:"location"`
	StartTime        time.Time            `json:"startTime"`
	EndTime          time.Time            `json:"endTime"`
	MaxAttendees     int                  `json:"maxAttendees"`
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorId, ok := currentActor(c)
		if !ok {
			return
		}

		var req createEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event := &models.Event{
			Title:        req.Title,
			Description:  req.Description,
			Location:     req.Location,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			MaxAttendees: req.MaxAttendees,
		}
		created, err := es.Create(c.Request.Context(), event, req.BookingTokenCode, actorId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Event created successfully"))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		event, err := es.GetEventByID(c.Request.Context(), eventId)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		events, total, err := es.ListEvents(c.Request.Context(), offset, limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(events, page, limit, total))
	}
}
