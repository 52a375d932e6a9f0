package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/domain/pricing"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/decode"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/response"
	"github.com/sanchey92/pizzeria/internal/service/cart"
)

type CartService interface {
	Get(ctx context.Context) (cart.View, error)
	AddProduct(ctx context.Context, productID string, cfg model.Configuration) (model.CartLine, error)
	Remove(ctx context.Context, lineID string) error
	Clear(ctx context.Context) error
	Quote(ctx context.Context, coupon string) (pricing.Quote, error)
}

type addLineRequest struct {
	ProductID string `json:"product_id"`
	model.Configuration
}

type quoteRequest struct {
	Coupon string `json:"coupon"`
}

func GetCart(svc CartService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Get(r.Context())
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, view)
	}
}

func AddCartLine(svc CartService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addLineRequest
		if err := decode.JSON(r, &req); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		if req.ProductID == "" {
			response.BadRequest(w, "product_id is required")
			return
		}
		line, err := svc.AddProduct(r.Context(), req.ProductID, req.Configuration)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.Created(w, line)
	}
}

func RemoveCartLine(svc CartService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), mux.Vars(r)["id"]); err != nil {
			fail(w, log, err)
			return
		}
		response.NoContent(w)
	}
}

func ClearCart(svc CartService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context()); err != nil {
			fail(w, log, err)
			return
		}
		response.NoContent(w)
	}
}

func QuoteCart(svc CartService, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quoteRequest
		if err := decode.Optional(r, &req); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		q, err := svc.Quote(r.Context(), req.Coupon)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, q)
	}
}
