package port

import (
	"context"

	"github.com/nikolayk812/orderup-cart/internal/domain"
)

type OrderService interface {
	// SubmitOrder returns the id the order service assigned to the new order.
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (string, error)
	PayOrder(ctx context.Context, req domain.PaymentRequest) error
	// SaveCustomer creates or renames the tenant's customer with that phone.
	SaveCustomer(ctx context.Context, tenantID string, customer domain.Customer) error
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error
}
