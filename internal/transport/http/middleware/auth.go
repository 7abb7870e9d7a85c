package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.uber.org/zap"
)

const userLocalsKey = "user"

// NewAuthMiddleware resolves the bearer token to a user and stores it in
// Locals for the handlers behind it.
func NewAuthMiddleware(auth service.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Not authorized, no token")
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "Not authorized, invalid header format")
		}

		user, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			mylogger.Warn(c.UserContext(), logger, "token rejected", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c, "Not authorized, token failed")
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// RequireSupplier must run after NewAuthMiddleware.
func RequireSupplier() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return unauthorized(c, "Not authorized")
		}

		if !user.IsSupplier() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": 0,
				"message": "Access denied, supplier role required",
			})
		}

		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userLocalsKey).(*domain.User)
	return user, ok && user != nil
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": 0,
		"message": message,
	})
}
