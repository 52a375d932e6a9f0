package model

import (
	"fmt"
	"slices"
	"strings"
)

type Address struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
}

func (a Address) Validate() error {
	if strings.TrimSpace(a.Street) == "" || strings.TrimSpace(a.Number) == "" ||
		strings.TrimSpace(a.Neighborhood) == "" {
		return invalid(ErrInvalidAddress, "street, number and neighborhood are required")
	}
	return nil
}

// String renders the address on one line, the way it is pre-filled at checkout.
func (a Address) String() string {
	return fmt.Sprintf("%s, %s - %s", a.Street, a.Number, a.Neighborhood)
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"password_hash,omitempty"`
	WhatsApp     string    `json:"whatsapp,omitempty"`
	Age          string    `json:"age,omitempty"`
	Email        string    `json:"email,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Addresses    []Address `json:"addresses"`
}

func (u User) Clone() User {
	c := u
	c.Addresses = slices.Clone(u.Addresses)
	return c
}

// DefaultAddress is the first saved address in one-line form, or "" when none is saved.
func (u User) DefaultAddress() string {
	if len(u.Addresses) == 0 {
		return ""
	}
	return u.Addresses[0].String()
}
