package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/response"
)

var statusByError = []struct {
	err    error
	status int
}{
	{model.ErrStoreClosed, http.StatusConflict},
	{model.ErrEmptyCart, http.StatusConflict},
	{model.ErrInvalidTransition, http.StatusConflict},
	{model.ErrAuthenticationFailed, http.StatusUnauthorized},
	{model.ErrNotLoggedIn, http.StatusUnauthorized},
	{model.ErrUserNotFound, http.StatusNotFound},
	{model.ErrOrderNotFound, http.StatusNotFound},
	{model.ErrProductNotFound, http.StatusNotFound},
	{model.ErrIncompleteCustomerInfo, http.StatusBadRequest},
	{model.ErrInvalidCoupon, http.StatusBadRequest},
	{model.ErrInvalidProduct, http.StatusBadRequest},
	{model.ErrInvalidStatus, http.StatusBadRequest},
	{model.ErrInvalidSettings, http.StatusBadRequest},
	{model.ErrInvalidAddress, http.StatusBadRequest},
	{model.ErrInvalidUser, http.StatusBadRequest},
}

// fail writes err as a JSON error. Anything that is not a domain error is logged and
// hidden behind a 500.
func fail(w http.ResponseWriter, log *slog.Logger, err error) {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			response.Error(w, e.status, err.Error())
			return
		}
	}
	log.Error("request failed", slog.Any("error", err))
	response.InternalError(w)
}
