// Package session owns cart ledgers: it rehydrates them from a store, persists
// them after every mutation and hands them to the order service at checkout.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nikolayk812/orderup-cart/internal/apperrors"
	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/nikolayk812/orderup-cart/internal/logger"
	"github.com/nikolayk812/orderup-cart/internal/metrics"
	"github.com/nikolayk812/orderup-cart/internal/port"
)

const maxIDLength = 128

// Key identifies a cart. Tenants never share carts, so the tenant is part of it.
type Key struct {
	TenantID  string
	SessionID string
}

func (k Key) String() string {
	return k.TenantID + ":" + k.SessionID
}

func (k Key) Validate() error {
	if err := validateID("tenant", k.TenantID); err != nil {
		return err
	}
	return validateID("session id", k.SessionID)
}

func validateID(name, id string) error {
	switch {
	case id == "":
		return apperrors.InvalidInput(name + " is required")
	case len(id) > maxIDLength:
		return apperrors.InvalidInput(fmt.Sprintf("%s is longer than %d characters", name, maxIDLength))
	case strings.ContainsAny(id, ": \t\r\n"):
		return apperrors.InvalidInput(name + " contains invalid characters")
	}
	return nil
}

type Manager struct {
	repo    port.CartRepository
	orders  port.OrderService
	events  port.EventPublisher
	pricing domain.Pricing
	policy  domain.MergePolicy
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewManager wires the cart owner. events may be nil, checkouts are then not announced.
func NewManager(
	repo port.CartRepository,
	orders port.OrderService,
	events port.EventPublisher,
	pricing domain.Pricing,
	policy domain.MergePolicy,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		repo:    repo,
		orders:  orders,
		events:  events,
		pricing: pricing,
		policy:  policy,
		metrics: m,
		logger:  logger,
	}
}

// Open returns the cart stored under key. A store failure or a corrupt
// snapshot is logged and yields an empty cart.
func (m *Manager) Open(ctx context.Context, key Key) (*Session, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	ledger := domain.NewLedger(m.pricing, m.policy)

	lines, err := m.repo.Load(ctx, key.String())
	if err != nil {
		m.metrics.PersistenceFailure("load")
		logger.FromContext(ctx, m.logger).WarnContext(ctx, "cart load failed, starting empty",
			slog.String("cart", key.String()),
			slog.String("error", err.Error()),
		)
	} else {
		ledger.Restore(lines)
	}

	return &Session{key: key, ledger: ledger, manager: m}, nil
}

// Session is one opened cart. Like the ledger it wraps, it is meant to be used
// by a single request.
type Session struct {
	key     Key
	ledger  *domain.Ledger
	manager *Manager
}

func (s *Session) Key() Key {
	return s.key
}

func (s *Session) AddItem(ctx context.Context, item domain.Item, quantity int) {
	s.ledger.AddItem(item, quantity)
	s.mutated(ctx, "add_item")
}

func (s *Session) UpdateQuantity(ctx context.Context, itemID int64, quantity int) {
	s.ledger.UpdateQuantity(itemID, quantity)
	s.mutated(ctx, "update_quantity")
}

func (s *Session) UpdateLine(ctx context.Context, key string, quantity int) {
	s.ledger.UpdateLine(key, quantity)
	s.mutated(ctx, "update_line")
}

func (s *Session) RemoveItem(ctx context.Context, itemID int64) {
	s.ledger.RemoveItem(itemID)
	s.mutated(ctx, "remove_item")
}

func (s *Session) RemoveLine(ctx context.Context, key string) {
	s.ledger.RemoveLine(key)
	s.mutated(ctx, "remove_line")
}

func (s *Session) Clear(ctx context.Context) {
	s.ledger.Clear()
	s.mutated(ctx, "clear")
}

func (s *Session) Lines() []domain.Line {
	return s.ledger.Lines()
}

func (s *Session) Totals() domain.Totals {
	return s.ledger.Totals()
}

func (s *Session) ItemCount() int {
	return s.ledger.ItemCount()
}

func (s *Session) IsEmpty() bool {
	return s.ledger.IsEmpty()
}

func (s *Session) IsInCart(itemID int64) bool {
	return s.ledger.IsInCart(itemID)
}

func (s *Session) ItemQuantity(itemID int64) int {
	return s.ledger.ItemQuantity(itemID)
}

// Policy tells clients whether line keys carry modifier selections.
func (s *Session) Policy() domain.MergePolicy {
	return s.ledger.Policy()
}

func (s *Session) mutated(ctx context.Context, op string) {
	s.manager.metrics.Mutation(op)
	s.persist(ctx)
}

// persist writes the ledger back. The in-memory ledger stays authoritative,
// failures are logged and counted only.
func (s *Session) persist(ctx context.Context) {
	op, err := "save", error(nil)
	if s.ledger.IsEmpty() {
		op, err = "delete", s.manager.repo.Delete(ctx, s.key.String())
	} else {
		err = s.manager.repo.Save(ctx, s.key.String(), s.ledger.Lines())
	}
	if err == nil {
		return
	}

	s.manager.metrics.PersistenceFailure(op)
	logger.FromContext(ctx, s.manager.logger).ErrorContext(ctx, "cart persist failed",
		slog.String("cart", s.key.String()),
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
}
