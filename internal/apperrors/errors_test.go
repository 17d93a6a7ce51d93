package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: NotFound("cart line", "7"), want: http.StatusNotFound},
		{name: "invalid input", err: InvalidInput("cart is empty"), want: http.StatusBadRequest},
		{name: "conflict", err: Conflict("busy"), want: http.StatusConflict},
		{name: "order rejected", err: OrderRejected("kitchen closed"), want: http.StatusUnprocessableEntity},
		{name: "payment failed", err: PaymentFailed("card declined"), want: http.StatusPaymentRequired},
		{name: "wrapped payment sentinel", err: fmt.Errorf("pay: %w", ErrPaymentFailed), want: http.StatusPaymentRequired},
		{name: "unavailable", err: ServiceUnavailable("retry later"), want: http.StatusServiceUnavailable},
		{name: "upstream", err: Upstream("order service failed", errors.New("dial tcp")), want: http.StatusBadGateway},
		{name: "wrapped app error", err: fmt.Errorf("checkout: %w", InvalidInput("x")), want: http.StatusBadRequest},
		{name: "wrapped sentinel", err: fmt.Errorf("load: %w", ErrNotFound), want: http.StatusNotFound},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("order service failed", cause)

	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UPSTREAM_ERROR: order service failed")
}

func TestAppError_ErrorWithoutCause(t *testing.T) {
	err := &AppError{Code: "X", Message: "y"}
	assert.Equal(t, "X: y", err.Error())
}
