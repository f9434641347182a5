package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/teakonn/api/internal/helpers"
	"github.com/teakonn/api/internal/models"
)

const authTokenTTL = 24 * time.Hour

type UserService struct {
	usersRepo models.UsersRepo
	jwtSecret []byte
}

func NewUserService(usersRepo models.UsersRepo, jwtSecret []byte) *UserService {
	return &UserService{
		usersRepo: usersRepo,
		jwtSecret: jwtSecret,
	}
}

func (us *UserService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if err := models.Validate.Struct(user); err != nil {
		return nil, fmt.Errorf("invalid user data provided: %v", err)
	}
	if !helpers.IsPasswordStrong(password) {
		return nil, fmt.Errorf("password must be at least 8 characters with upper, lower, number and special characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}
	user.PasswordHash = string(hash)

	created, err := us.usersRepo.CreateUser(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// Login returns the user and a signed bearer token.
func (us *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := us.usersRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := helpers.IssueToken(us.jwtSecret, user.ID.Hex(), user.Username, user.Email, authTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %v", err)
	}
	return user, token, nil
}

func (us *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := us.usersRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
