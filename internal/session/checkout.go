package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nikolayk812/orderup-cart/internal/apperrors"
	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/nikolayk812/orderup-cart/internal/logger"
	"github.com/nikolayk812/orderup-cart/internal/metrics"
)

type CheckoutInput struct {
	Customer            domain.Customer
	PaymentMethod       domain.PaymentMethod
	SpecialInstructions string
	// LineInstructions are per-line notes keyed by line key.
	LineInstructions map[string]string
	IdempotencyKey   string
}

func (in CheckoutInput) validate() error {
	if strings.TrimSpace(in.Customer.Name) == "" {
		return apperrors.InvalidInput("customer name is required")
	}
	if !in.PaymentMethod.Valid() {
		return apperrors.InvalidInput("payment method " + string(in.PaymentMethod) + " is not supported")
	}
	return nil
}

// Checkout places the cart as an order, charges it when the payment method is
// not cash and returns the order id. The cart is cleared only once the order is
// placed and paid, on any failure it is kept so the customer can retry.
func (s *Session) Checkout(ctx context.Context, in CheckoutInput) (string, error) {
	m := s.manager
	log := logger.FromContext(ctx, m.logger)

	if s.ledger.IsEmpty() {
		m.metrics.OrderSubmission(metrics.OutcomeRejected)
		return "", apperrors.InvalidInput("cart is empty")
	}
	if err := in.validate(); err != nil {
		m.metrics.OrderSubmission(metrics.OutcomeRejected)
		return "", err
	}

	lines := s.ledger.Lines()
	totals := s.ledger.Totals()
	itemCount := s.ledger.ItemCount()

	orderID, err := m.orders.SubmitOrder(ctx, domain.OrderRequest{
		TenantID:            s.key.TenantID,
		SessionID:           s.key.SessionID,
		IdempotencyKey:      in.IdempotencyKey,
		Customer:            in.Customer,
		Lines:               lines,
		PaymentMethod:       in.PaymentMethod,
		SpecialInstructions: in.SpecialInstructions,
		LineInstructions:    in.LineInstructions,
	})
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, apperrors.ErrOrderRejected) {
			outcome = metrics.OutcomeRejected
		}
		m.metrics.OrderSubmission(outcome)
		log.WarnContext(ctx, "order submission failed, cart kept",
			slog.String("cart", s.key.String()),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	if in.PaymentMethod.RequiresPayment() {
		err := m.orders.PayOrder(ctx, domain.PaymentRequest{
			TenantID:  s.key.TenantID,
			SessionID: s.key.SessionID,
			OrderID:   orderID,
			Method:    in.PaymentMethod,
		})
		if err != nil {
			m.metrics.OrderSubmission(metrics.OutcomeUnpaid)
			log.WarnContext(ctx, "order payment failed, cart kept",
				slog.String("cart", s.key.String()),
				slog.String("order_id", orderID),
				slog.String("error", err.Error()),
			)
			return "", err
		}
	}

	m.metrics.OrderSubmission(metrics.OutcomePlaced)

	if strings.TrimSpace(in.Customer.Phone) != "" {
		if err := m.orders.SaveCustomer(ctx, s.key.TenantID, in.Customer); err != nil {
			log.WarnContext(ctx, "save customer failed",
				slog.String("order_id", orderID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.Clear(ctx)

	log.InfoContext(ctx, "cart checked out",
		slog.String("cart", s.key.String()),
		slog.String("order_id", orderID),
		slog.Int("item_count", itemCount),
		slog.String("total", totals.Amount(totals.Total).String()),
	)

	if m.events != nil {
		placed := domain.OrderPlaced{
			TenantID:  s.key.TenantID,
			SessionID: s.key.SessionID,
			OrderID:   orderID,
			ItemCount: itemCount,
			Totals:    totals,
		}
		if err := m.events.PublishOrderPlaced(ctx, placed); err != nil {
			log.ErrorContext(ctx, "publish checkout event failed",
				slog.String("order_id", orderID),
				slog.String("error", err.Error()),
			)
		}
	}

	return orderID, nil
}
