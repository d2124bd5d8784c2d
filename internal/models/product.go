package models

import "strconv"

// Product mirrors a record held by the remote product service. The remote
// API is the system of record; this struct is only a transport shape.
type Product struct {
	ID                 int      `json:"id,omitempty"`
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description" validate:"required"`
	Price              float64  `json:"price" validate:"gt=0,gte=100"`
	DiscountPercentage float64  `json:"discountPercentage" validate:"gte=0,lte=100"`
	Rating             float64  `json:"rating" validate:"gte=1,lte=5"`
	Stock              int      `json:"stock" validate:"gte=1"`
	Brand              string   `json:"brand" validate:"required"`
	Category           string   `json:"category" validate:"required"`
	Thumbnail          string   `json:"thumbnail" validate:"imageref"`
	Images             []string `json:"images" validate:"dive,imageref"`
}

// DiscountedPrice is derived for display only and never persisted.
func (p Product) DiscountedPrice() float64 {
	return p.Price * (100 - p.DiscountPercentage) / 100
}

// ProductList is the remote service's paginated list envelope.
type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// ProductForm carries raw form input before numeric coercion. Numeric
// fields stay strings so that empty input can be coerced to a sentinel
// invalid value instead of silently becoming zero.
type ProductForm struct {
	ID                 int
	Title              string
	Description        string
	Brand              string
	Category           string
	Price              string
	DiscountPercentage string
	Rating             string
	Stock              string
	Thumbnail          string
	Images             []string
}

// FormFromProduct pre-populates a form from an existing record, e.g. for
// the edit page. Submitting it unchanged coerces back to the same record.
func FormFromProduct(p Product) ProductForm {
	return ProductForm{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Brand:              p.Brand,
		Category:           p.Category,
		Price:              strconv.FormatFloat(p.Price, 'f', -1, 64),
		DiscountPercentage: strconv.FormatFloat(p.DiscountPercentage, 'f', -1, 64),
		Rating:             strconv.FormatFloat(p.Rating, 'f', -1, 64),
		Stock:              strconv.Itoa(p.Stock),
		Thumbnail:          p.Thumbnail,
		Images:             append([]string(nil), p.Images...),
	}
}
