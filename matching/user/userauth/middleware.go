package userauth

import (
	"strings"

	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const (
	localUserID    = "user_id"
	localUserEmail = "user_email"
)

// Middleware rejects requests without a valid bearer token
func Middleware(authService *AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return user.ErrAuthRequired()
		}

		// format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return user.ErrInvalidToken()
		}

		identity, err := authService.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			return err
		}

		c.Locals(localUserID, identity.UserID)
		c.Locals(localUserEmail, identity.Email)

		return c.Next()
	}
}

// GetUserID extracts the authenticated user ID from context
func GetUserID(c *fiber.Ctx) (kernel.UserID, bool) {
	id, ok := c.Locals(localUserID).(kernel.UserID)
	return id, ok && !id.IsEmpty()
}

// GetUserEmail extracts the authenticated email from context
func GetUserEmail(c *fiber.Ctx) (kernel.Email, bool) {
	email, ok := c.Locals(localUserEmail).(kernel.Email)
	return email, ok
}

// MustUserID is GetUserID for handlers mounted behind Middleware
func MustUserID(c *fiber.Ctx) (kernel.UserID, error) {
	id, ok := GetUserID(c)
	if !ok {
		return "", user.ErrAuthRequired()
	}
	return id, nil
}
