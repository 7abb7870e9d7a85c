package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service service.ProductService
	logger  *zap.Logger
}

func NewProductHandler(service service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

type removeProductRequest struct {
	ID productID `json:"id"`
}

type updateProductRequest struct {
	ID productID `json:"id"`
	domain.UpdateProductInput
}

func (h *ProductHandler) AddProduct(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var input domain.AddProductInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, h.logger, err)
	}

	product, err := h.service.Add(ctx, &input)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	mylogger.Info(ctx, h.logger, "product added", zap.Int64("product_id", product.ID))

	return ok(c, fiber.StatusOK, fiber.Map{"product": product})
}

func (h *ProductHandler) RemoveProduct(c *fiber.Ctx) error {
	var req removeProductRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	id, err := req.ID.value()
	if err != nil {
		return respondError(c, h.logger, err)
	}

	product, err := h.service.Remove(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Product removed successfully",
		"product": product,
	})
}

func (h *ProductHandler) AllProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"products": products})
}

func (h *ProductHandler) ProductsByCategory(c *fiber.Ctx) error {
	category := domain.Category(c.Params("category"))

	products, err := h.service.ListByCategory(c.UserContext(), category)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"products": products})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := productIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"product": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req updateProductRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	id, err := req.ID.value()
	if err != nil {
		return respondError(c, h.logger, err)
	}

	product, err := h.service.Update(c.UserContext(), id, &req.UpdateProductInput)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{"product": product})
}
