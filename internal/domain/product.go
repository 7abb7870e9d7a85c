package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryMen   Category = "men"
	CategoryWomen Category = "women"
	CategoryKids  Category = "kids"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryMen, CategoryWomen, CategoryKids:
		return true
	}
	return false
}

// Product is addressed by its sequential ID; ObjectID is the store key.
type Product struct {
	ObjectID    primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ID          int64              `json:"id" bson:"id" validate:"gte=1"`
	Title       string             `json:"title" bson:"title" validate:"required"`
	Category    Category           `json:"category" bson:"category" validate:"required,oneof=men women kids"`
	Description string             `json:"description" bson:"description" validate:"required"`
	OldPrice    float64            `json:"oldPrice" bson:"oldPrice"`
	NewPrice    float64            `json:"newPrice" bson:"newPrice"`
	Discount    float64            `json:"discount" bson:"discount"`
	Rating      float64            `json:"rating" bson:"rating" validate:"gte=0,lte=5"`
	PopularWith []string           `json:"popularWith" bson:"popularWith"`
	Image       string             `json:"image" bson:"image" validate:"required"`
	Colors      []string           `json:"colors" bson:"colors"`
	Sizes       []string           `json:"sizes" bson:"sizes"`
	Stock       int64              `json:"stock" bson:"stock"`
	Tags        []string           `json:"tags" bson:"tags"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// AddProductInput carries the fields of a new product. Prices are pointers so
// that a zero price is accepted while a missing one is rejected.
type AddProductInput struct {
	Title       string   `json:"title" validate:"required"`
	Category    Category `json:"category" validate:"required,oneof=men women kids"`
	Description string   `json:"description" validate:"required"`
	OldPrice    *float64 `json:"oldPrice" validate:"required"`
	NewPrice    *float64 `json:"newPrice" validate:"required"`
	Discount    float64  `json:"discount"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	PopularWith []string `json:"popularWith"`
	Image       string   `json:"image" validate:"required"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Stock       int64    `json:"stock"`
	Tags        []string `json:"tags"`
}

type UpdateProductInput struct {
	Title       *string   `json:"title"`
	Category    *Category `json:"category"`
	Description *string   `json:"description"`
	OldPrice    *float64  `json:"oldPrice"`
	NewPrice    *float64  `json:"newPrice"`
	Discount    *float64  `json:"discount"`
	Rating      *float64  `json:"rating"`
	PopularWith *[]string `json:"popularWith"`
	Image       *string   `json:"image"`
	Colors      *[]string `json:"colors"`
	Sizes       *[]string `json:"sizes"`
	Stock       *int64    `json:"stock"`
	Tags        *[]string `json:"tags"`
}

func (in *AddProductInput) ToProduct() *Product {
	p := &Product{
		Title:       in.Title,
		Category:    in.Category,
		Description: in.Description,
		Discount:    in.Discount,
		Rating:      in.Rating,
		PopularWith: orEmpty(in.PopularWith),
		Image:       in.Image,
		Colors:      orEmpty(in.Colors),
		Sizes:       orEmpty(in.Sizes),
		Stock:       in.Stock,
		Tags:        orEmpty(in.Tags),
	}

	if in.OldPrice != nil {
		p.OldPrice = *in.OldPrice
	}
	if in.NewPrice != nil {
		p.NewPrice = *in.NewPrice
	}

	return p
}

// Apply merges the set fields of in into p.
func (in *UpdateProductInput) Apply(p *Product) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.OldPrice != nil {
		p.OldPrice = *in.OldPrice
	}
	if in.NewPrice != nil {
		p.NewPrice = *in.NewPrice
	}
	if in.Discount != nil {
		p.Discount = *in.Discount
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.PopularWith != nil {
		p.PopularWith = orEmpty(*in.PopularWith)
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Colors != nil {
		p.Colors = orEmpty(*in.Colors)
	}
	if in.Sizes != nil {
		p.Sizes = orEmpty(*in.Sizes)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Tags != nil {
		p.Tags = orEmpty(*in.Tags)
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
