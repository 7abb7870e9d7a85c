package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/sakashimaa/shop-api/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service service.OrderService
	logger  *zap.Logger
}

func NewOrderHandler(service service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	caller, found := middleware.CurrentUser(c)
	if !found {
		return respondError(c, h.logger, service.ErrUnauthorized)
	}

	var input domain.CreateOrderInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.service.Create(c.UserContext(), caller, &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusCreated, fiber.Map{"order": order})
}

func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	caller, found := middleware.CurrentUser(c)
	if !found {
		return respondError(c, h.logger, service.ErrUnauthorized)
	}

	orders, err := h.service.ListMine(c.UserContext(), caller.ID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"orders": orders})
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	caller, found := middleware.CurrentUser(c)
	if !found {
		return respondError(c, h.logger, service.ErrUnauthorized)
	}

	id, err := objectIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.service.Get(c.UserContext(), id, caller)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"order": order})
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	caller, found := middleware.CurrentUser(c)
	if !found {
		return respondError(c, h.logger, service.ErrUnauthorized)
	}

	id, err := objectIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var input domain.UpdateOrderStatusInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.service.UpdateStatus(c.UserContext(), id, input.Status, caller)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"order": order})
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"orders": orders})
}

func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var input domain.UpdateOrderInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, h.logger, err)
	}

	order, err := h.service.Update(c.UserContext(), id, &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"order": order})
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"message": "Order deleted successfully"})
}
