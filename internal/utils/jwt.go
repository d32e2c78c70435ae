package utils

import (
	"errors"
	"strconv"
	"time"

	"contractpay/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "contractpay"

// GenerateToken signs an access token identifying profile.
func GenerateToken(secret string, profile *models.Profile, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not configured")
	}

	now := time.Now()
	claims := models.ProfileClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(profile.ID), 10),
		},
		ProfileID: profile.ID,
		Type:      profile.Type,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken parses and validates a token string.
func ParseToken(secret, tokenStr string) (*models.ProfileClaims, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.ProfileClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.ProfileClaims)
	if !ok || !token.Valid || claims.ProfileID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
