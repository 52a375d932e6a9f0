// Package cart holds the session cart aggregate. Lines are never merged: every Add
// appends a new independent line, even for an identical configuration.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/domain/pricing"
)

type Cart struct {
	lines []model.CartLine
}

// New wraps persisted lines; the cart keeps its own copy.
func New(lines []model.CartLine) *Cart {
	return &Cart{lines: model.CloneLines(lines)}
}

func (c *Cart) Add(line model.CartLine) {
	c.lines = append(c.lines, line.Clone())
}

// Remove drops the line with the given id. Removing an unknown id is a no-op.
func (c *Cart) Remove(lineID string) bool {
	for i, l := range c.lines {
		if l.ID == lineID {
			c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a deep copy of the lines in insertion order.
func (c *Cart) Lines() []model.CartLine {
	lines := model.CloneLines(c.lines)
	if lines == nil {
		return []model.CartLine{}
	}
	return lines
}

func (c *Cart) Total() decimal.Decimal {
	return pricing.CartTotal(c.lines)
}
