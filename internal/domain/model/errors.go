package model

import (
	"errors"
	"fmt"
)

var (
	ErrStoreClosed            = errors.New("store is closed")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrIncompleteCustomerInfo = errors.New("customer name, phone and address are required")
	ErrInvalidCoupon          = errors.New("invalid coupon")
	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrUserNotFound           = errors.New("user not found")
	ErrNotLoggedIn            = errors.New("no user in session")

	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidSettings   = errors.New("invalid settings")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidUser       = errors.New("invalid user")
)

// userErrors are recoverable conditions the customer or admin can correct.
var userErrors = []error{
	ErrStoreClosed,
	ErrEmptyCart,
	ErrIncompleteCustomerInfo,
	ErrInvalidCoupon,
	ErrAuthenticationFailed,
	ErrUserNotFound,
	ErrNotLoggedIn,
	ErrOrderNotFound,
	ErrProductNotFound,
	ErrInvalidProduct,
	ErrInvalidStatus,
	ErrInvalidTransition,
	ErrInvalidSettings,
	ErrInvalidAddress,
	ErrInvalidUser,
}

// IsUserError reports whether err wraps one of the domain errors above.
func IsUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func invalid(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
