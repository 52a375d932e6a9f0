package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

type Size string

const (
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// Extra is an add-on with a fixed label and price.
type Extra struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

var extras = []Extra{
	{ID: "borda-catupiry", Label: "Borda de Catupiry", Price: decimal.NewFromInt(12)},
	{ID: "borda-cheddar", Label: "Borda de Cheddar", Price: decimal.NewFromInt(12)},
	{ID: "extra-bacon", Label: "Extra de Bacon", Price: decimal.NewFromInt(8)},
}

// Extras returns the add-on menu.
func Extras() []Extra {
	return slices.Clone(extras)
}

func LookupExtra(id string) (Extra, bool) {
	for _, e := range extras {
		if e.ID == id {
			return e, true
		}
	}
	return Extra{}, false
}

// Configuration is what the customer picked for one product before it is priced.
type Configuration struct {
	Size           Size     `json:"size,omitempty"`
	SecondFlavorID string   `json:"second_flavor_id,omitempty"`
	Extras         []string `json:"extras,omitempty"`
	Observation    string   `json:"observation,omitempty"`
	Quantity       int      `json:"quantity"`
}

// CartLine is a priced, self-contained snapshot of a configured product.
// CalculatedPrice is the unit price frozen when the line was created.
type CartLine struct {
	ID              string          `json:"id"`
	Product         Product         `json:"product"`
	Quantity        int             `json:"quantity"`
	Size            Size            `json:"size,omitempty"`
	Extras          []string        `json:"extras,omitempty"`
	SecondFlavor    *Product        `json:"second_flavor,omitempty"`
	Observation     string          `json:"observation,omitempty"`
	CalculatedPrice decimal.Decimal `json:"calculated_price"`
}

// Clone returns a deep copy sharing no mutable state with l.
func (l CartLine) Clone() CartLine {
	c := l
	c.Extras = slices.Clone(l.Extras)
	if l.SecondFlavor != nil {
		second := *l.SecondFlavor
		c.SecondFlavor = &second
	}
	return c
}

func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}
