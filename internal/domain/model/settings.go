package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Settings struct {
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	DeliveryTime string          `json:"delivery_time"`
	IsOpen       bool            `json:"is_open"`
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid(ErrInvalidSettings, "store name is required")
	}
	if s.DeliveryFee.IsNegative() {
		return invalid(ErrInvalidSettings, "delivery fee must not be negative")
	}
	return nil
}
