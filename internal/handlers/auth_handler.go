package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teakonn/api/internal/models"
	"github.com/teakonn/api/internal/services"
)

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"fullname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

func Signup(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user := &models.User{
			Username: req.Username,
			FullName: req.FullName,
			Email:    req.Email,
			City:     req.City,
			Country:  req.Country,
		}
		created, err := us.Register(c.Request.Context(), user, req.Password)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created.PublicProfile(), "User created successfully"))
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Login(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, token, err := us.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"token": token,
			"user":  user.PublicProfile(),
		}, "Login successful"))
	}
}
