package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/sakashimaa/shop-api/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type UserHandler struct {
	service service.UserService
	logger  *zap.Logger
}

func NewUserHandler(service service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, found := middleware.CurrentUser(c)
	if !found {
		return respondError(c, h.logger, service.ErrUnauthorized)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"user": user})
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	caller, found := middleware.CurrentUser(c)
	if !found {
		return respondError(c, h.logger, service.ErrUnauthorized)
	}

	var input domain.UpdateProfileInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := h.service.UpdateProfile(c.UserContext(), caller.ID, &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"user": user})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"users": users})
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"user": user})
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input domain.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := h.service.Create(c.UserContext(), &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusCreated, fiber.Map{"user": user})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var input domain.UpdateUserInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := h.service.Update(c.UserContext(), id, &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"user": user})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"message": "User deleted successfully"})
}
