package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryPizza   Category = "Pizza"
	CategoryDrink   Category = "Drink"
	CategoryDessert Category = "Dessert"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPizza, CategoryDrink, CategoryDessert:
		return true
	default:
		return false
	}
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Image       string          `json:"image"`
	Popular     bool            `json:"popular,omitempty"`
}

func (p Product) IsPizza() bool {
	return p.Category == CategoryPizza
}

// Validate checks the fields an admin must provide before a product is stored.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid(ErrInvalidProduct, "name is required")
	}
	if !p.Category.Valid() {
		return invalid(ErrInvalidProduct, "unknown category %q", p.Category)
	}
	if p.Price.IsNegative() {
		return invalid(ErrInvalidProduct, "price must not be negative")
	}
	return nil
}
