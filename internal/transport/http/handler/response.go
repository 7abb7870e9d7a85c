package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/shop-api/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errInvalidBody = service.NewValidationError("body", "request body must be valid JSON")

func ok(c *fiber.Ctx, status int, payload fiber.Map) error {
	payload["success"] = 1
	return c.Status(status).JSON(payload)
}

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

func objectIDParam(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, service.NewValidationError(name, name+" must be a valid identifier")
	}
	return id, nil
}

func productIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, service.NewValidationError(name, name+" must be an integer")
	}
	return id, nil
}

// productID accepts the logical product id as a JSON number or a numeric
// string. Any integer is passed through; ids with no product end up as 404.
type productID struct {
	set bool
	id  int64
}

func (p *productID) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		*p = productID{}
		return nil
	}

	v, err := json.Number(raw).Int64()
	if err != nil {
		return fmt.Errorf("invalid product id %q", raw)
	}

	*p = productID{set: true, id: v}
	return nil
}

func (p productID) value() (int64, error) {
	if !p.set {
		return 0, service.NewValidationError("id", "id is required")
	}
	return p.id, nil
}
