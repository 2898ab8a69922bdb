package middleware

import (
	"strings"

	"learnhub-backend/src/authz"
	"learnhub-backend/src/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID = "userId"
	LocalEmail  = "email"
	LocalRole   = "role"
)

func bearer(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}

// AuthJWT requires a valid bearer token and stores its claims in Locals.
func AuthJWT(j *utils.JWT) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, ok := bearer(c)
		if !ok {
			return utils.HandleError(c, fiber.StatusUnauthorized, "Missing or invalid Authorization header")
		}
		claims, err := j.Parse(tokenStr)
		if err != nil {
			return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireAction rejects requesters whose role may not perform action.
func RequireAction(action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authz.Can(Role(c), action) {
			return utils.HandleError(c, fiber.StatusForbidden, "You do not have permission to perform this action")
		}
		return c.Next()
	}
}

// RestrictTo rejects requesters whose role is not listed.
func RestrictTo(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return utils.HandleError(c, fiber.StatusForbidden, "You do not have permission to perform this action")
	}
}

func UserID(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalUserID).(string)
	return v
}

func Role(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalRole).(string)
	return v
}
