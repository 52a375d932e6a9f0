package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/domain/pricing"
	"github.com/sanchey92/pizzeria/internal/state"
)

type Service struct {
	logger *slog.Logger
	store  *state.Store
}

func NewCatalogService(l *slog.Logger, store *state.Store) *Service {
	return &Service{
		logger: l,
		store:  store,
	}
}

// Seed stores the default menu unless a catalog was already stored, even an empty one.
func (s *Service) Seed(ctx context.Context) error {
	seeded := false
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		found, err := tx.HasProducts()
		if err != nil || found {
			return err
		}
		seeded = true
		return tx.SetProducts(DefaultProducts())
	})
	if err != nil {
		return fmt.Errorf("catalog.Seed: %w", err)
	}
	if seeded {
		s.logger.Info("catalog seeded", slog.Int("products", len(DefaultProducts())))
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog.List: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (s *Service) ListByCategory(ctx context.Context, c model.Category) ([]model.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(products, func(p model.Product) bool { return p.Category != c }), nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return model.Product{}, err
	}
	i := slices.IndexFunc(products, func(p model.Product) bool { return p.ID == id })
	if i < 0 {
		return model.Product{}, fmt.Errorf("%w: %s", model.ErrProductNotFound, id)
	}
	return products[i], nil
}

// Index builds a lookup over products.
func Index(products []model.Product) pricing.ProductLookup {
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return func(id string) (model.Product, bool) {
		p, ok := byID[id]
		return p, ok
	}
}

// Create stores p under a fresh id unless one is given. Missing category defaults to
// Pizza and missing image to the placeholder.
func (s *Service) Create(ctx context.Context, p model.Product) (model.Product, error) {
	p = normalize(p)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return model.Product{}, err
	}

	err := s.store.Update(ctx, func(tx *state.Tx) error {
		products, err := tx.Products()
		if err != nil {
			return err
		}
		if slices.ContainsFunc(products, func(e model.Product) bool { return e.ID == p.ID }) {
			return fmt.Errorf("%w: id %s already exists", model.ErrInvalidProduct, p.ID)
		}
		return tx.SetProducts(append(products, p))
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("catalog.Create: %w", err)
	}

	s.logger.Info("product created", slog.String("id", p.ID), slog.String("name", p.Name))
	return p, nil
}

// Update replaces the product with p.ID. Existing cart lines keep their snapshot.
func (s *Service) Update(ctx context.Context, p model.Product) (model.Product, error) {
	p = normalize(p)
	if err := p.Validate(); err != nil {
		return model.Product{}, err
	}

	err := s.store.Update(ctx, func(tx *state.Tx) error {
		products, err := tx.Products()
		if err != nil {
			return err
		}
		i := slices.IndexFunc(products, func(e model.Product) bool { return e.ID == p.ID })
		if i < 0 {
			return fmt.Errorf("%w: %s", model.ErrProductNotFound, p.ID)
		}
		products[i] = p
		return tx.SetProducts(products)
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("catalog.Update: %w", err)
	}

	s.logger.Info("product updated", slog.String("id", p.ID))
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		products, err := tx.Products()
		if err != nil {
			return err
		}
		n := len(products)
		products = slices.DeleteFunc(products, func(p model.Product) bool { return p.ID == id })
		if len(products) == n {
			return fmt.Errorf("%w: %s", model.ErrProductNotFound, id)
		}
		return tx.SetProducts(products)
	})
	if err != nil {
		return fmt.Errorf("catalog.Delete: %w", err)
	}

	s.logger.Info("product deleted", slog.String("id", id))
	return nil
}

func normalize(p model.Product) model.Product {
	p.Name = strings.TrimSpace(p.Name)
	if p.Category == "" {
		p.Category = model.CategoryPizza
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}
	return p
}
