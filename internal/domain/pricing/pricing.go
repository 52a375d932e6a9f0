// Package pricing turns configured products into unit prices and carts into totals.
// Every function here is pure.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

// minorUnits is the currency precision all amounts are rounded to.
const minorUnits = 2

// ProductLookup resolves a catalog product by id.
type ProductLookup func(id string) (model.Product, bool)

var sizeDeltas = map[model.Size]decimal.Decimal{
	model.SizeM:  decimal.NewFromInt(-10),
	model.SizeL:  decimal.Zero,
	model.SizeXL: decimal.NewFromInt(15),
}

// ResolveSize applies the size default: a missing or unknown size is L.
func ResolveSize(s model.Size) model.Size {
	if _, ok := sizeDeltas[s]; ok {
		return s
	}
	return model.SizeL
}

func SizeDelta(s model.Size) decimal.Decimal {
	return sizeDeltas[ResolveSize(s)]
}

// NormalizeQuantity coerces a quantity to at least one.
func NormalizeQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// ResolveSecondFlavor returns the second flavor to charge for, or nil. A dangling id,
// a non-pizza product and the primary product itself all resolve to no second flavor.
func ResolveSecondFlavor(primary model.Product, id string, lookup ProductLookup) *model.Product {
	if id == "" || id == primary.ID || lookup == nil || !primary.IsPizza() {
		return nil
	}
	p, ok := lookup(id)
	if !ok || !p.IsPizza() {
		return nil
	}
	return &p
}

// ExtrasPrice sums the known extras; unknown ids add nothing.
func ExtrasPrice(ids []string) decimal.Decimal {
	sum := decimal.Zero
	for _, id := range ids {
		if e, ok := model.LookupExtra(id); ok {
			sum = sum.Add(e.Price)
		}
	}
	return sum
}

// PriceLine computes the unit price of one configured product.
//
// Non-pizza products cost their catalog price. A pizza costs the pricier of its two
// flavors, plus the size delta, plus the extras.
func PriceLine(p model.Product, cfg model.Configuration, lookup ProductLookup) decimal.Decimal {
	if !p.IsPizza() {
		return round(p.Price)
	}
	return pizzaPrice(p, ResolveSecondFlavor(p, cfg.SecondFlavorID, lookup), cfg.Size, cfg.Extras)
}

func pizzaPrice(p model.Product, second *model.Product, size model.Size, extras []string) decimal.Decimal {
	base := p.Price
	if second != nil {
		base = decimal.Max(base, second.Price)
	}
	return round(base.Add(SizeDelta(size)).Add(ExtrasPrice(extras)))
}

// NewLine resolves cfg against the catalog and freezes the resulting price into a line.
// Size and extras are only kept for pizzas.
func NewLine(id string, p model.Product, cfg model.Configuration, lookup ProductLookup) model.CartLine {
	line := model.CartLine{
		ID:          id,
		Product:     p,
		Quantity:    NormalizeQuantity(cfg.Quantity),
		Observation: cfg.Observation,
	}
	if !p.IsPizza() {
		line.CalculatedPrice = round(p.Price)
		return line
	}

	line.Size = ResolveSize(cfg.Size)
	line.SecondFlavor = ResolveSecondFlavor(p, cfg.SecondFlavorID, lookup)
	line.Extras = append([]string(nil), cfg.Extras...)
	line.CalculatedPrice = pizzaPrice(p, line.SecondFlavor, line.Size, line.Extras)
	return line
}

func LineTotal(l model.CartLine) decimal.Decimal {
	return l.CalculatedPrice.Mul(decimal.NewFromInt(int64(NormalizeQuantity(l.Quantity))))
}

// CartTotal is the subtotal of lines: Σ calculatedPrice × quantity.
func CartTotal(lines []model.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l))
	}
	return round(sum)
}

// FinalTotal is subtotal + fee - discount, never below zero.
func FinalTotal(subtotal, deliveryFee, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(deliveryFee).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return round(total)
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(minorUnits)
}
