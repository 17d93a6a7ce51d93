package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikolayk812/orderup-cart/internal/session"
	"github.com/nikolayk812/orderup-cart/internal/tenant"
	"github.com/nikolayk812/orderup-cart/internal/validator"
)

const HeaderIdempotencyKey = "Idempotency-Key"

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

func NewCartHandler(sessions *session.Manager, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, response{Data: newCartResponse(s)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	s, ok := h.open(w, r)
	if !ok {
		return
	}

	s.AddItem(r.Context(), req.item(), req.quantity())
	writeJSON(w, http.StatusOK, response{Data: newCartResponse(s)})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{itemId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseItemID(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	s, ok := h.open(w, r)
	if !ok {
		return
	}

	s.UpdateQuantity(r.Context(), itemID, *req.Quantity)
	writeJSON(w, http.StatusOK, response{Data: newCartResponse(s)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseItemID(w, r)
	if !ok {
		return
	}

	s, ok := h.open(w, r)
	if !ok {
		return
	}

	s.RemoveItem(r.Context(), itemID)
	writeJSON(w, http.StatusOK, response{Data: newCartResponse(s)})
}

// GetItem handles GET /api/v1/cart/items/{itemId}
func (h *CartHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := parseItemID(w, r)
	if !ok {
		return
	}

	s, ok := h.open(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, response{Data: ItemStatusResponse{
		ItemID:   itemID,
		InCart:   s.IsInCart(itemID),
		Quantity: s.ItemQuantity(itemID),
	}})
}

// UpdateLine handles PUT /api/v1/cart/lines/{lineKey}
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	key := lineKey(r)

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	s, ok := h.open(w, r)
	if !ok {
		return
	}

	s.UpdateLine(r.Context(), key, *req.Quantity)
	writeJSON(w, http.StatusOK, response{Data: newCartResponse(s)})
}

// RemoveLine handles DELETE /api/v1/cart/lines/{lineKey}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}

	s.RemoveLine(r.Context(), lineKey(r))
	writeJSON(w, http.StatusOK, response{Data: newCartResponse(s)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.open(w, r)
	if !ok {
		return
	}

	s.Clear(r.Context())
	writeJSON(w, http.StatusOK, response{Data: newCartResponse(s)})
}

// Checkout handles POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeValidationError(w, r, err)
		return
	}

	s, ok := h.open(w, r)
	if !ok {
		return
	}

	orderID, err := s.Checkout(r.Context(), req.input(r.Header.Get(HeaderIdempotencyKey)))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: CheckoutResponse{OrderID: orderID}})
}

// CreateSession handles POST /api/v1/sessions. Clients without a session id
// get a fresh one for the resolved tenant.
func (h *CartHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, response{Data: SessionResponse{
		TenantID:  tenant.FromContext(r.Context()),
		SessionID: uuid.NewString(),
	}})
}

func (h *CartHandler) open(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	key := session.Key{
		TenantID:  tenant.FromContext(r.Context()),
		SessionID: sessionIDFromContext(r.Context()),
	}

	s, err := h.sessions.Open(r.Context(), key)
	if err != nil {
		writeError(w, r, err, h.logger)
		return nil, false
	}
	return s, true
}

// lineKey returns the decoded key, "12:3,7" may arrive percent-encoded.
func lineKey(r *http.Request) string {
	raw := chi.URLParam(r, "lineKey")
	if key, err := url.PathUnescape(raw); err == nil {
		return key
	}
	return raw
}

func parseItemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "itemId"))

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeErrorCode(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid item id: "+raw)
		return 0, false
	}
	return id, true
}
