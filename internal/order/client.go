package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/orderup-cart/internal/apperrors"
	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/nikolayk812/orderup-cart/internal/httpclient"
	"github.com/nikolayk812/orderup-cart/internal/logger"
	"github.com/nikolayk812/orderup-cart/internal/port"
)

const serviceName = "order service"

const (
	HeaderSessionID      = "X-Session-ID"
	HeaderTenant         = "X-Tenant-Subdomain"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// HTTPDoer is satisfied by httpclient.Client and httpclient.CircuitBreakerClient.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

type Client struct {
	doer    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

func NewClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		doer:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

var _ port.OrderService = (*Client)(nil)

type Request struct {
	CustomerName        string        `json:"customer_name"`
	CustomerPhone       string        `json:"customer_phone"`
	Items               []ItemRequest `json:"items"`
	PaymentMethod       string        `json:"payment_method"`
	SpecialInstructions string        `json:"special_instructions"`
}

type ItemRequest struct {
	ItemID              int64             `json:"item_id"`
	Quantity            int               `json:"quantity"`
	SpecialInstructions string            `json:"special_instructions"`
	Modifiers           []ModifierRequest `json:"modifiers"`
}

type ModifierRequest struct {
	ModifierOptionID int64 `json:"modifier_option_id"`
	Quantity         int   `json:"quantity"`
}

type response struct {
	ID any `json:"id"`
}

// NewRequest maps a checkout to the order service payload. Each selected
// option is sent once, the service prices it from its own menu.
func NewRequest(req domain.OrderRequest) Request {
	items := make([]ItemRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		modifiers := make([]ModifierRequest, 0, len(line.Modifiers))
		for _, m := range line.Modifiers {
			modifiers = append(modifiers, ModifierRequest{ModifierOptionID: m.OptionID, Quantity: 1})
		}

		items = append(items, ItemRequest{
			ItemID:              line.ID,
			Quantity:            line.Quantity,
			SpecialInstructions: req.LineInstructions[line.Key],
			Modifiers:           modifiers,
		})
	}

	return Request{
		CustomerName:        req.Customer.Name,
		CustomerPhone:       req.Customer.Phone,
		Items:               items,
		PaymentMethod:       string(req.PaymentMethod),
		SpecialInstructions: req.SpecialInstructions,
	}
}

// SubmitOrder posts the cart to the order service and returns the new order id.
func (c *Client) SubmitOrder(ctx context.Context, req domain.OrderRequest) (string, error) {
	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	resp, err := c.post(ctx, "/api/orders/", NewRequest(req), map[string]string{
		HeaderSessionID:      req.SessionID,
		HeaderTenant:         req.TenantID,
		HeaderIdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", httpclient.ParseResponseError(resp, serviceName)
	}

	var decoded response
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return "", apperrors.Upstream("order service returned an unreadable response", err)
	}

	orderID := formatID(decoded.ID)
	if orderID == "" {
		return "", apperrors.Upstream("order service returned no order id", nil)
	}

	logger.FromContext(ctx, c.logger).InfoContext(ctx, "order submitted",
		slog.String("order_id", orderID),
		slog.Int("lines", len(req.Lines)),
	)

	return orderID, nil
}

type paymentRequest struct {
	Method    string `json:"method"`
	SessionID string `json:"session_id"`
}

type paymentResponse struct {
	Success       *bool  `json:"success"`
	PaymentStatus string `json:"payment_status"`
	Message       string `json:"message"`
}

func (r paymentResponse) failed() bool {
	return r.PaymentStatus == "failed" || (r.Success != nil && !*r.Success)
}

// PayOrder charges a placed order. A declined payment or a payment the service
// refuses is reported as apperrors.ErrPaymentFailed.
func (c *Client) PayOrder(ctx context.Context, req domain.PaymentRequest) error {
	path := "/api/orders/" + url.PathEscape(req.OrderID) + "/payment/"

	resp, err := c.post(ctx, path, paymentRequest{Method: string(req.Method), SessionID: req.SessionID}, map[string]string{
		HeaderSessionID: req.SessionID,
		HeaderTenant:    req.TenantID,
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NotFound("order", req.OrderID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := httpclient.ParseResponseError(resp, serviceName)
		var appErr *apperrors.AppError
		if errors.Is(err, apperrors.ErrOrderRejected) && errors.As(err, &appErr) {
			return apperrors.PaymentFailed(appErr.Message)
		}
		return err
	}

	var decoded paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return apperrors.Upstream("order service returned an unreadable payment response", err)
	}
	if decoded.failed() {
		msg := decoded.Message
		if msg == "" {
			msg = "payment for order " + req.OrderID + " failed"
		}
		return apperrors.PaymentFailed(msg)
	}

	logger.FromContext(ctx, c.logger).InfoContext(ctx, "order paid",
		slog.String("order_id", req.OrderID),
		slog.String("method", string(req.Method)),
	)

	return nil
}

type customerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SaveCustomer looks the customer up by phone and creates or renames them.
func (c *Client) SaveCustomer(ctx context.Context, tenantID string, customer domain.Customer) error {
	resp, err := c.post(ctx, "/api/customers/lookup_or_create/", customerRequest{Name: customer.Name, Phone: customer.Phone}, map[string]string{
		HeaderTenant: tenantID,
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, serviceName)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any, headers map[string]string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Correlation-ID", id)
	}

	resp, err := c.doer.Do(ctx, httpReq)
	if err != nil {
		return nil, c.transportError(ctx, path, err)
	}
	return resp, nil
}

func (c *Client) transportError(ctx context.Context, path string, err error) error {
	switch {
	case httpclient.IsRejected(err):
		return apperrors.ServiceUnavailable("order service is unavailable, try again later")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("POST %s: %w", path, err)
	}

	var serverErr *httpclient.ServerError
	if errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusServiceUnavailable {
		return apperrors.ServiceUnavailable("order service is unavailable, try again later")
	}

	logger.FromContext(ctx, c.logger).ErrorContext(ctx, "order service call failed",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
	return apperrors.Upstream("order service is failing, try again later", err)
}

func formatID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
