package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Otp is a one-time login passcode. At most one live OTP exists per email:
// requesting a new one deletes any prior records. Expiry is enforced at read
// time; the TTL index on expires_at is background cleanup only.
type Otp struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Code      string             `json:"-" bson:"otp"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expires_at"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// RefreshToken is the long-lived opaque credential backing /auth/refresh-token.
// Created on login, revoked on logout, never otherwise updated.
type RefreshToken struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"user_id"`
	Token     string             `json:"-" bson:"token"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expires_at"`
	IsRevoked bool               `json:"isRevoked" bson:"is_revoked"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

type SendOtpRequest struct {
	Email string `json:"email"`
}

type VerifyOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is returned by verify-otp and (without a refresh token) by
// refresh-token.
type AuthResult struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	User         *UserProfile `json:"user"`
}
