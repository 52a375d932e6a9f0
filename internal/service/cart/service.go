package cart

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domaincart "github.com/sanchey92/pizzeria/internal/domain/cart"
	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/domain/pricing"
	"github.com/sanchey92/pizzeria/internal/service/catalog"
	"github.com/sanchey92/pizzeria/internal/state"
)

// View is the cart as shown to the customer.
type View struct {
	Lines []model.CartLine `json:"lines"`
	Total decimal.Decimal  `json:"total"`
}

type Service struct {
	logger *slog.Logger
	store  *state.Store
}

func NewCartService(l *slog.Logger, store *state.Store) *Service {
	return &Service{
		logger: l,
		store:  store,
	}
}

func (s *Service) Get(ctx context.Context) (View, error) {
	lines, err := s.store.Cart(ctx)
	if err != nil {
		return View{}, fmt.Errorf("cart.Get: %w", err)
	}
	c := domaincart.New(lines)
	return View{Lines: c.Lines(), Total: c.Total()}, nil
}

// AddProduct prices productID with cfg against the current catalog and appends the
// resulting line.
func (s *Service) AddProduct(ctx context.Context, productID string, cfg model.Configuration) (model.CartLine, error) {
	var line model.CartLine
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		products, err := tx.Products()
		if err != nil {
			return err
		}
		i := slices.IndexFunc(products, func(p model.Product) bool { return p.ID == productID })
		if i < 0 {
			return fmt.Errorf("%w: %s", model.ErrProductNotFound, productID)
		}
		line = pricing.NewLine(uuid.NewString(), products[i], cfg, catalog.Index(products))

		lines, err := tx.Cart()
		if err != nil {
			return err
		}
		c := domaincart.New(lines)
		c.Add(line)
		return tx.SetCart(c.Lines())
	})
	if err != nil {
		if model.IsUserError(err) {
			return model.CartLine{}, err
		}
		return model.CartLine{}, fmt.Errorf("cart.AddProduct: %w", err)
	}

	s.logger.Info("cart line added",
		slog.String("line_id", line.ID),
		slog.String("product_id", productID),
		slog.String("unit_price", line.CalculatedPrice.StringFixed(2)),
		slog.Int("quantity", line.Quantity),
	)
	return line, nil
}

// Remove drops a line. Unknown ids leave the cart untouched.
func (s *Service) Remove(ctx context.Context, lineID string) error {
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		lines, err := tx.Cart()
		if err != nil {
			return err
		}
		c := domaincart.New(lines)
		if !c.Remove(lineID) {
			return nil
		}
		return tx.SetCart(c.Lines())
	})
	if err != nil {
		return fmt.Errorf("cart.Remove: %w", err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		return tx.SetCart(nil)
	})
	if err != nil {
		return fmt.Errorf("cart.Clear: %w", err)
	}
	return nil
}

// Quote previews the checkout totals with the current delivery fee.
func (s *Service) Quote(ctx context.Context, coupon string) (pricing.Quote, error) {
	var (
		lines    []model.CartLine
		settings model.Settings
	)
	err := s.store.View(ctx, func(tx *state.Tx) error {
		var err error
		if lines, err = tx.Cart(); err != nil {
			return err
		}
		settings, err = tx.Settings()
		return err
	})
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("cart.Quote: %w", err)
	}
	return pricing.NewQuote(lines, settings.DeliveryFee, coupon)
}
