package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresIn   int64     `json:"expiresIn"`
	IssuedAt    time.Time `json:"issuedAt"`
	User        UserInfo  `json:"user"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	Type       UserType `json:"type"`
	UserTypeID *string  `json:"userTypeId,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID     string   `json:"user_id"`
	Type       UserType `json:"type"`
	UserTypeID *string  `json:"user_type_id,omitempty"`
	Email      string   `json:"email"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the caller holds the admin role.
func (c *JWTClaims) IsAdmin() bool {
	return c != nil && c.Type == UserTypeAdmin
}

// OwnsProfile reports whether the caller's role pointer targets the given profile.
func (c *JWTClaims) OwnsProfile(profileID string) bool {
	return c != nil && c.UserTypeID != nil && *c.UserTypeID == profileID
}
