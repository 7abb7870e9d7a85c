package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleItem struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type sampleInput struct {
	Title    string       `json:"title" validate:"required"`
	Category string       `json:"category" validate:"oneof=men women kids"`
	Rating   float64      `json:"rating" validate:"gte=0,lte=5"`
	Email    string       `json:"email" validate:"omitempty,email"`
	Items    []sampleItem `json:"items" validate:"dive"`
}

func TestFormatValidationError(t *testing.T) {
	v := NewValidator()

	err := v.Struct(sampleInput{
		Category: "pets",
		Rating:   7,
		Email:    "nope",
		Items:    []sampleItem{{Quantity: 0}},
	})
	require.Error(t, err)

	fields := FormatValidationError(err)
	require.Equal(t, "title is required", fields["title"])
	require.Equal(t, "category must be one of [men women kids]", fields["category"])
	require.Equal(t, "rating must be less than or equal to 5", fields["rating"])
	require.Equal(t, "email must be a valid email", fields["email"])
	require.Equal(t, "items[0].quantity must be at least 1", fields["items[0].quantity"])
}

func TestFormatValidationError_NonValidatorError(t *testing.T) {
	fields := FormatValidationError(errors.New("boom"))
	require.Equal(t, map[string]string{"_": "boom"}, fields)
}

func TestParseWithFallback(t *testing.T) {
	t.Setenv("SHOP_TEST_VALUE", "  set ")
	require.Equal(t, "set", ParseWithFallback("SHOP_TEST_VALUE", "fallback"))
	require.Equal(t, "fallback", ParseWithFallback("SHOP_TEST_MISSING", "fallback"))
}
