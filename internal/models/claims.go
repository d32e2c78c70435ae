package models

import "github.com/golang-jwt/jwt/v5"

// ProfileClaims identifies the authenticated profile behind a request.
type ProfileClaims struct {
	jwt.RegisteredClaims
	ProfileID uint   `json:"profile_id"`
	Type      string `json:"type"`
}
