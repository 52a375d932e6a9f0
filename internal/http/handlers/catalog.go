package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/decode"
	"github.com/sanchey92/pizzeria/internal/http/lib/api/response"
)

type CatalogReader interface {
	List(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, c model.Category) ([]model.Product, error)
	Get(ctx context.Context, id string) (model.Product, error)
}

type CatalogWriter interface {
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) (model.Product, error)
	Delete(ctx context.Context, id string) error
}

type productsResponse struct {
	Products []model.Product `json:"products"`
	Extras   []model.Extra   `json:"extras"`
}

// ListProducts serves the menu, optionally narrowed with ?category=.
func ListProducts(svc CatalogReader, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			products []model.Product
			err      error
		)
		if c := r.URL.Query().Get("category"); c != "" {
			if !model.Category(c).Valid() {
				response.BadRequest(w, "unknown category "+c)
				return
			}
			products, err = svc.ListByCategory(r.Context(), model.Category(c))
		} else {
			products, err = svc.List(r.Context())
		}
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, productsResponse{Products: products, Extras: model.Extras()})
	}
}

// ListExtras serves the pizza add-on menu.
func ListExtras() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, model.Extras())
	}
}

func GetProduct(svc CatalogReader, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, p)
	}
}

func CreateProduct(svc CatalogWriter, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p model.Product
		if err := decode.JSON(r, &p); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		created, err := svc.Create(r.Context(), p)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.Created(w, created)
	}
}

// UpdateProduct replaces the product named in the path; the body's id is ignored.
func UpdateProduct(svc CatalogWriter, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p model.Product
		if err := decode.JSON(r, &p); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		p.ID = mux.Vars(r)["id"]
		updated, err := svc.Update(r.Context(), p)
		if err != nil {
			fail(w, log, err)
			return
		}
		response.OK(w, updated)
	}
}

func DeleteProduct(svc CatalogWriter, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			fail(w, log, err)
			return
		}
		response.NoContent(w)
	}
}
