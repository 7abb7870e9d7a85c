package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var errorMessages = []struct {
	target  error
	status  int
	message string
}{
	{repository.ErrProductNotFound, fiber.StatusNotFound, "Product not found"},
	{repository.ErrUserNotFound, fiber.StatusNotFound, "User not found"},
	{repository.ErrOrderNotFound, fiber.StatusNotFound, "Order not found"},
	{repository.ErrUserAlreadyExists, fiber.StatusConflict, "User with this email already exists"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid email or password"},
	{service.ErrUnauthorized, fiber.StatusUnauthorized, "Not authorized"},
	{service.ErrForbidden, fiber.StatusForbidden, "Access denied"},
	{gobreaker.ErrOpenState, fiber.StatusServiceUnavailable, "Service temporarily unavailable"},
	{gobreaker.ErrTooManyRequests, fiber.StatusServiceUnavailable, "Service temporarily unavailable"},
	{context.DeadlineExceeded, fiber.StatusGatewayTimeout, "Request timed out"},
}

func mapErrorCode(err error) (int, string) {
	for _, e := range errorMessages {
		if errors.Is(err, e.target) {
			return e.status, e.message
		}
	}
	return fiber.StatusInternalServerError, err.Error()
}

// respondError writes the failure envelope: {success:0, message} for client
// errors, {success:0, error} with the underlying message for server errors.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	ctx := c.UserContext()

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		mylogger.Warn(ctx, logger, "validation failed", zap.String("path", c.Path()), zap.Any("errors", validationErr.Fields))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": 0,
			"message": "Validation failed",
			"errors":  validationErr.Fields,
		})
	}

	status, message := mapErrorCode(err)
	if status >= fiber.StatusInternalServerError {
		mylogger.Error(ctx, logger, "request failed", zap.String("path", c.Path()), zap.Int("http_status", status), zap.Error(err))

		return c.Status(status).JSON(fiber.Map{
			"success": 0,
			"error":   message,
		})
	}

	mylogger.Warn(ctx, logger, "request rejected", zap.String("path", c.Path()), zap.Int("http_status", status), zap.Error(err))

	return c.Status(status).JSON(fiber.Map{
		"success": 0,
		"message": message,
	})
}

// ErrorHandler renders errors that escape handlers, such as unknown routes or
// oversized bodies, in the same envelope.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"success": 0,
				"message": fiberErr.Message,
			})
		}

		return respondError(c, logger, err)
	}
}
