// Package router mounts the storefront and admin handlers.
package router

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanchey92/pizzeria/internal/http/handlers"
	"github.com/sanchey92/pizzeria/internal/http/middlewares"
)

type Catalog interface {
	handlers.CatalogReader
	handlers.CatalogWriter
}

type Orders interface {
	handlers.OrderService
	handlers.OrderAdmin
}

type Services struct {
	Catalog  Catalog
	Cart     handlers.CartService
	Orders   Orders
	Accounts handlers.AccountService
	Settings handlers.SettingsService
}

func New(log *slog.Logger, svc Services, adminToken string) *mux.Router {
	r := mux.NewRouter()
	r.Use(middlewares.Recovery(log), middlewares.Logging(log))

	r.HandleFunc("/products", handlers.ListProducts(svc.Catalog, log)).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", handlers.GetProduct(svc.Catalog, log)).Methods(http.MethodGet)
	r.HandleFunc("/extras", handlers.ListExtras()).Methods(http.MethodGet)

	r.HandleFunc("/cart", handlers.GetCart(svc.Cart, log)).Methods(http.MethodGet)
	r.HandleFunc("/cart", handlers.ClearCart(svc.Cart, log)).Methods(http.MethodDelete)
	r.HandleFunc("/cart/lines", handlers.AddCartLine(svc.Cart, log)).Methods(http.MethodPost)
	r.HandleFunc("/cart/lines/{id}", handlers.RemoveCartLine(svc.Cart, log)).Methods(http.MethodDelete)
	r.HandleFunc("/cart/quote", handlers.QuoteCart(svc.Cart, log)).Methods(http.MethodPost)

	r.HandleFunc("/orders", handlers.SubmitOrder(svc.Orders, log)).Methods(http.MethodPost)
	r.HandleFunc("/orders", handlers.ListSessionOrders(svc.Orders, log)).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", handlers.TrackOrder(svc.Orders, log)).Methods(http.MethodGet)

	r.HandleFunc("/session", handlers.GetSession(svc.Accounts, log)).Methods(http.MethodGet)
	r.HandleFunc("/session", handlers.Logout(svc.Accounts, log)).Methods(http.MethodDelete)
	r.HandleFunc("/session/register", handlers.Register(svc.Accounts, log)).Methods(http.MethodPost)
	r.HandleFunc("/session/login", handlers.Login(svc.Accounts, log)).Methods(http.MethodPost)
	r.HandleFunc("/session/addresses", handlers.AddAddress(svc.Accounts, log)).Methods(http.MethodPost)
	r.HandleFunc("/session/addresses/{id}", handlers.RemoveAddress(svc.Accounts, log)).Methods(http.MethodDelete)

	r.HandleFunc("/settings", handlers.GetSettings(svc.Settings, log)).Methods(http.MethodGet)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.AdminToken(adminToken))
	admin.HandleFunc("/orders", handlers.ListOrders(svc.Orders, log)).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{id}/status", handlers.SetOrderStatus(svc.Orders, log)).Methods(http.MethodPatch)
	admin.HandleFunc("/products", handlers.CreateProduct(svc.Catalog, log)).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}", handlers.UpdateProduct(svc.Catalog, log)).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}", handlers.DeleteProduct(svc.Catalog, log)).Methods(http.MethodDelete)
	admin.HandleFunc("/settings", handlers.UpdateSettings(svc.Settings, log)).Methods(http.MethodPut)
	admin.HandleFunc("/settings/open", handlers.SetStoreOpen(svc.Settings, log)).Methods(http.MethodPut)

	return r
}
