package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service service.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(service service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var input domain.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, h.logger, err)
	}

	user, token, err := h.service.Register(ctx, &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	mylogger.Info(ctx, h.logger, "register request succeeded", zap.String("user_id", user.ID.Hex()))

	return ok(c, fiber.StatusCreated, fiber.Map{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, h.logger, err)
	}

	user, token, err := h.service.Login(c.UserContext(), &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"user":  user,
		"token": token,
	})
}
