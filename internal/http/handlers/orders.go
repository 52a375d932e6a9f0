package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/decode"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/response"
	"github.com/sanchey92/pizzeria/internal/service/order"
)

type OrderService interface {
	Submit(ctx context.Context, info model.CustomerInfo) (order.Receipt, error)
	SessionHistory(ctx context.Context) ([]model.Order, error)
	Track(ctx context.Context, id string) (order.Tracking, error)
}

type OrderAdmin interface {
	List(ctx context.Context) ([]model.Order, error)
	Active(ctx context.Context) (int, error)
	SetStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error)
}

type ordersResponse struct {
	Orders []model.Order `json:"orders"`
	Active int           `json:"active,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// SubmitOrder checks the cart out. The response carries the deep link the client opens
// to send the order to the store.
func SubmitOrder(svc OrderService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var info model.CustomerInfo
		if err := decode.JSON(r, &info); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		receipt, err := svc.Submit(r.Context(), info)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.Created(w, receipt)
	}
}

func ListSessionOrders(svc OrderService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.SessionHistory(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, ordersResponse{Orders: orders})
	}
}

func TrackOrder(svc OrderService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Track(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, t)
	}
}

func ListOrders(svc OrderAdmin, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.List(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		active, err := svc.Active(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, ordersResponse{Orders: orders, Active: active})
	}
}

func SetOrderStatus(svc OrderAdmin, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := decode.JSON(r, &req); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		status, err := model.ParseStatus(req.Status)
		if err != nil {
			fail(w, log, err)
			return
		}
		o, err := svc.SetStatus(r.Context(), mux.Vars(r)["id"], status)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, o)
	}
}
