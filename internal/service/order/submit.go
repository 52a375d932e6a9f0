package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanchey92/pizzeria/internal/domain/model"
	"github.com/sanchey92/pizzeria/internal/domain/pricing"
	"github.com/sanchey92/pizzeria/internal/notify"
	"github.com/sanchey92/pizzeria/internal/state"
)

// Receipt is a committed order together with the message to hand to the customer's
// messaging app.
type Receipt struct {
	Order        model.Order    `json:"order"`
	Notification notify.Message `json:"notification"`
}

// Submit turns the cart into an order. Preconditions are checked in order: store open,
// cart not empty, customer info complete, coupon known. Blank customer fields are taken
// from the session user. The order, the cleared cart and the order event are committed
// together; nothing is written on failure or cancellation.
func (s *Service) Submit(ctx context.Context, info model.CustomerInfo) (Receipt, error) {
	if err := s.store.View(ctx, func(tx *state.Tx) error {
		_, err := s.prepare(tx, info)
		return err
	}); err != nil {
		return Receipt{}, s.submitError(err)
	}

	if err := s.confirmDelay(ctx); err != nil {
		return Receipt{}, fmt.Errorf("order.Submit: %w", err)
	}

	var receipt Receipt
	err := s.store.Update(ctx, func(tx *state.Tx) error {
		d, err := s.prepare(tx, info)
		if err != nil {
			return err
		}

		now := s.now()
		o := model.Order{
			ID:            uuid.NewString(),
			CustomerName:  d.info.Name,
			CustomerPhone: d.info.Phone,
			Address:       d.info.Address,
			PaymentMethod: d.info.PaymentMethod,
			Items:         model.CloneLines(d.lines),
			Subtotal:      d.quote.Subtotal,
			DeliveryFee:   d.quote.DeliveryFee,
			CouponCode:    d.quote.CouponCode,
			Discount:      d.quote.Discount,
			Total:         d.quote.Total,
			Status:        model.OrderReceived,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if d.user != nil {
			o.CustomerID = d.user.ID
		}

		orders, err := tx.Orders()
		if err != nil {
			return err
		}
		if err = tx.SetOrders(append(orders, o)); err != nil {
			return err
		}
		if err = tx.SetCart(nil); err != nil {
			return err
		}
		if err = s.emit(tx, model.EventOrderPlaced, o, ""); err != nil {
			return err
		}

		receipt = Receipt{Order: o.Clone(), Notification: notify.Format(o, d.settings, s.cfg.Notify)}
		return nil
	})
	if err != nil {
		return Receipt{}, s.submitError(err)
	}

	s.logger.Info("order submitted",
		slog.String("id", receipt.Order.ID),
		slog.String("customer_id", receipt.Order.CustomerID),
		slog.Int("items", len(receipt.Order.Items)),
		slog.String("total", receipt.Order.Total.StringFixed(2)),
	)
	return receipt, nil
}

type draft struct {
	info     model.CustomerInfo
	lines    []model.CartLine
	settings model.Settings
	user     *model.User
	quote    pricing.Quote
}

func (s *Service) prepare(tx *state.Tx, info model.CustomerInfo) (draft, error) {
	var (
		d   draft
		err error
	)
	if d.settings, err = tx.Settings(); err != nil {
		return d, err
	}
	if !d.settings.IsOpen {
		return d, model.ErrStoreClosed
	}

	if d.lines, err = tx.Cart(); err != nil {
		return d, err
	}
	if len(d.lines) == 0 {
		return d, model.ErrEmptyCart
	}

	if d.user, err = tx.User(); err != nil {
		return d, err
	}
	d.info = fillFromUser(info, d.user)
	if !d.info.Complete() {
		return d, model.ErrIncompleteCustomerInfo
	}

	if d.quote, err = pricing.NewQuote(d.lines, d.settings.DeliveryFee, d.info.Coupon); err != nil {
		return d, err
	}
	return d, nil
}

func fillFromUser(info model.CustomerInfo, u *model.User) model.CustomerInfo {
	info.Name = strings.TrimSpace(info.Name)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)
	if info.PaymentMethod == "" {
		info.PaymentMethod = model.PaymentCreditCard
	}
	if u == nil {
		return info
	}
	if info.Name == "" {
		info.Name = u.Name
	}
	if info.Phone == "" {
		info.Phone = u.Phone
	}
	if info.Address == "" {
		info.Address = u.DefaultAddress()
	}
	return info
}

func (s *Service) confirmDelay(ctx context.Context) error {
	if s.cfg.ConfirmDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.cfg.ConfirmDelay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) submitError(err error) error {
	if model.IsUserError(err) {
		s.logger.Info("order rejected", slog.Any("reason", err))
		return err
	}
	return fmt.Errorf("order.Submit: %w", err)
}
