package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const UserColName = "users"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username" validate:"required,min=3,max=30"`
	FullName     string             `bson:"fullname" json:"fullname"`
	Email        string             `bson:"email" json:"email" validate:"required,email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	Country      string             `bson:"country,omitempty" json:"country,omitempty"`
	AvatarURL    string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// PublicProfile strips everything a stranger should not see.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"username":   u.Username,
		"fullname":   u.FullName,
		"bio":        u.Bio,
		"city":       u.City,
		"country":    u.Country,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt,
	}
}
