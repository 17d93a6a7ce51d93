package http

import (
	"github.com/shopspring/decimal"

	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/nikolayk812/orderup-cart/internal/session"
)

// --- Request DTOs ---

type ModifierRequest struct {
	GroupID         int64           `json:"group_id" validate:"gte=0"`
	GroupName       string          `json:"group_name" validate:"max=200"`
	OptionID        int64           `json:"option_id" validate:"required,gte=1"`
	OptionName      string          `json:"option_name" validate:"required,max=200"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// AddItemRequest carries the menu item as the menu showed it. Quantity
// defaults to 1.
type AddItemRequest struct {
	ItemID      int64             `json:"item_id" validate:"required,gte=1"`
	Name        string            `json:"name" validate:"required,max=200"`
	Description string            `json:"description" validate:"max=2000"`
	ImageURL    string            `json:"image_url" validate:"omitempty,url"`
	Price       decimal.Decimal   `json:"price" validate:"gte=0"`
	Quantity    *int              `json:"quantity" validate:"omitempty,gte=1,lte=999"`
	Modifiers   []ModifierRequest `json:"modifiers" validate:"max=50,dive"`
}

func (req AddItemRequest) item() domain.Item {
	item := domain.Item{
		ID:          req.ItemID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		UnitPrice:   req.Price,
	}
	for _, m := range req.Modifiers {
		item.Modifiers = append(item.Modifiers, domain.SelectedModifier{
			GroupID:         m.GroupID,
			GroupName:       m.GroupName,
			OptionID:        m.OptionID,
			OptionName:      m.OptionName,
			PriceAdjustment: m.PriceAdjustment,
		})
	}
	return item
}

func (req AddItemRequest) quantity() int {
	if req.Quantity == nil {
		return 1
	}
	return *req.Quantity
}

// UpdateQuantityRequest sets a quantity, 0 removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=999"`
}

type CheckoutRequest struct {
	CustomerName        string            `json:"customer_name" validate:"required,max=200"`
	CustomerPhone       string            `json:"customer_phone" validate:"max=32"`
	PaymentMethod       string            `json:"payment_method" validate:"required,oneof=cash credit_card promptpay"`
	SpecialInstructions string            `json:"special_instructions" validate:"max=1000"`
	LineInstructions    map[string]string `json:"line_instructions" validate:"max=100,dive,max=500"`
}

func (req CheckoutRequest) input(idempotencyKey string) session.CheckoutInput {
	return session.CheckoutInput{
		Customer:            domain.Customer{Name: req.CustomerName, Phone: req.CustomerPhone},
		PaymentMethod:       domain.PaymentMethod(req.PaymentMethod),
		SpecialInstructions: req.SpecialInstructions,
		LineInstructions:    req.LineInstructions,
		IdempotencyKey:      idempotencyKey,
	}
}

// --- Response DTOs ---

// CartResponse amounts are display values rounded half-up to two places. The
// ledger keeps exact amounts, so a subtotal of 99.995 shows as "100.00".
type CartResponse struct {
	TenantID    string         `json:"tenant_id"`
	SessionID   string         `json:"session_id"`
	MergePolicy string         `json:"merge_policy"`
	Items       []LineResponse `json:"items"`
	ItemCount   int            `json:"item_count"`
	Subtotal    string         `json:"subtotal"`
	Tax         string         `json:"tax"`
	DeliveryFee string         `json:"delivery_fee"`
	Total       string         `json:"total"`
	Currency    string         `json:"currency"`
}

type LineResponse struct {
	Key         string             `json:"key"`
	ItemID      int64              `json:"item_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ImageURL    string             `json:"image_url,omitempty"`
	UnitPrice   string             `json:"unit_price"`
	UnitTotal   string             `json:"unit_total"`
	Quantity    int                `json:"quantity"`
	LineTotal   string             `json:"line_total"`
	Modifiers   []ModifierResponse `json:"modifiers"`
}

type ModifierResponse struct {
	GroupID         int64  `json:"group_id"`
	GroupName       string `json:"group_name"`
	OptionID        int64  `json:"option_id"`
	OptionName      string `json:"option_name"`
	PriceAdjustment string `json:"price_adjustment"`
}

type ItemStatusResponse struct {
	ItemID   int64 `json:"item_id"`
	InCart   bool  `json:"in_cart"`
	Quantity int   `json:"quantity"`
}

type CheckoutResponse struct {
	OrderID string `json:"order_id"`
}

type SessionResponse struct {
	TenantID  string `json:"tenant_id"`
	SessionID string `json:"session_id"`
}

// money renders an amount for display, see CartResponse.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func newCartResponse(s *session.Session) CartResponse {
	totals := s.Totals()
	lines := s.Lines()

	items := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		modifiers := make([]ModifierResponse, 0, len(l.Modifiers))
		for _, m := range l.Modifiers {
			modifiers = append(modifiers, ModifierResponse{
				GroupID:         m.GroupID,
				GroupName:       m.GroupName,
				OptionID:        m.OptionID,
				OptionName:      m.OptionName,
				PriceAdjustment: money(m.PriceAdjustment),
			})
		}

		items = append(items, LineResponse{
			Key:         l.Key,
			ItemID:      l.ID,
			Name:        l.Name,
			Description: l.Description,
			ImageURL:    l.ImageURL,
			UnitPrice:   money(l.UnitPrice),
			UnitTotal:   money(l.UnitTotal()),
			Quantity:    l.Quantity,
			LineTotal:   money(l.Total()),
			Modifiers:   modifiers,
		})
	}

	return CartResponse{
		TenantID:    s.Key().TenantID,
		SessionID:   s.Key().SessionID,
		MergePolicy: s.Policy().String(),
		Items:       items,
		ItemCount:   s.ItemCount(),
		Subtotal:    money(totals.Subtotal),
		Tax:         money(totals.Tax),
		DeliveryFee: money(totals.DeliveryFee),
		Total:       money(totals.Total),
		Currency:    totals.Currency.String(),
	}
}
