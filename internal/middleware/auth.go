// Package middleware identifies callers for the HTTP collaborator. It never
// makes ledger decisions; it only resolves who is asking.
package middleware

import (
	"errors"
	"strings"

	apperr "contractpay/internal/errors"
	"contractpay/internal/logger"
	"contractpay/internal/models"
	"contractpay/internal/repositories"
	"contractpay/internal/utils"
	"contractpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

const (
	profileKey     = "profile"
	AdminKeyHeader = "X-Admin-Key"
)

// AuthMiddleware validates bearer tokens and loads the caller's profile.
type AuthMiddleware struct {
	secret   string
	profiles repositories.ProfileRepository
	log      *logger.Logger
}

func NewAuthMiddleware(secret string, profiles repositories.ProfileRepository, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthMiddleware{
		secret:   secret,
		profiles: profiles,
		log:      log,
	}
}

// Handler validates the JWT and stores the profile it names in the request
// context. The stored profile is a snapshot; engines re-read balances.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Unauthorized(c, "invalid authorization format")
	}

	claims, err := utils.ParseToken(m.secret, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.log.Debug("token rejected", "error", err)
		return response.Unauthorized(c, "invalid token")
	}

	profile, err := m.profiles.GetByID(c.UserContext(), claims.ProfileID)
	if err != nil {
		if errors.Is(err, apperr.ErrProfileNotFound) {
			return response.Unauthorized(c, "invalid token")
		}
		m.log.Error("profile lookup failed", "profile_id", claims.ProfileID, "error", err)
		return response.FromError(c, apperr.Ensure(err))
	}

	c.Locals(profileKey, profile)
	return c.Next()
}

// Profile returns the profile stored by Handler, or nil.
func Profile(c *fiber.Ctx) *models.Profile {
	profile, _ := c.Locals(profileKey).(*models.Profile)
	return profile
}

// AdminKey admits requests whose X-Admin-Key matches the bcrypt hash. An
// empty hash disables the admin routes.
func AdminKey(hash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !utils.CheckSecret(hash, c.Get(AdminKeyHeader)) {
			return response.Error(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
