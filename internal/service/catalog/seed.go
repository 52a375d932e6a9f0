package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

const DefaultImage = "https://images.unsplash.com/photo-1513104890138-7c749659a591?w=800&auto=format&fit=crop&q=60"

// DefaultProducts is the menu stored on first run.
func DefaultProducts() []model.Product {
	return []model.Product{
		{
			ID:          "1",
			Name:        "Margherita",
			Description: "Molho de tomate, mussarela e manjericão fresco.",
			Price:       decimal.NewFromInt(45),
			Category:    model.CategoryPizza,
			Image:       "https://images.unsplash.com/photo-1574071318508-1cdbab80d002?w=800&auto=format&fit=crop&q=60",
			Popular:     true,
		},
		{
			ID:          "2",
			Name:        "Calabresa",
			Description: "Molho de tomate, mussarela, calabresa fatiada e cebola.",
			Price:       decimal.NewFromInt(48),
			Category:    model.CategoryPizza,
			Image:       DefaultImage,
			Popular:     true,
		},
		{
			ID:          "3",
			Name:        "Quatro Queijos",
			Description: "Molho de tomate, mussarela, provolone, gorgonzola e parmesão.",
			Price:       decimal.NewFromInt(52),
			Category:    model.CategoryPizza,
			Image:       "https://images.unsplash.com/photo-1571407970349-bc1671709bd5?w=800&auto=format&fit=crop&q=60",
		},
		{
			ID:          "4",
			Name:        "Portuguesa",
			Description: "Mussarela, presunto, ovo, cebola, azeitona e ervilha.",
			Price:       decimal.NewFromInt(50),
			Category:    model.CategoryPizza,
			Image:       "https://images.unsplash.com/photo-1565299624946-b28f40a0ae38?w=800&auto=format&fit=crop&q=60",
		},
		{
			ID:          "5",
			Name:        "Coca-Cola 2L",
			Description: "Refrigerante garrafa 2 litros.",
			Price:       decimal.NewFromInt(12),
			Category:    model.CategoryDrink,
			Image:       "https://images.unsplash.com/photo-1622483767028-3f66f32aef97?w=800&auto=format&fit=crop&q=60",
		},
		{
			ID:          "6",
			Name:        "Guaraná Antarctica 2L",
			Description: "Refrigerante garrafa 2 litros.",
			Price:       decimal.NewFromInt(11),
			Category:    model.CategoryDrink,
			Image:       "https://images.unsplash.com/photo-1629553655490-50d4d293f0b2?w=800&auto=format&fit=crop&q=60",
		},
		{
			ID:          "7",
			Name:        "Petit Gâteau",
			Description: "Bolo de chocolate com recheio cremoso. Acompanha sorvete.",
			Price:       decimal.NewFromInt(22),
			Category:    model.CategoryDessert,
			Image:       "https://images.unsplash.com/photo-1624353365286-3f8d62daad51?w=800&auto=format&fit=crop&q=60",
		},
	}
}
