package validator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceRequest struct {
	Name   string          `json:"name" validate:"required,max=10"`
	Price  decimal.Decimal `json:"price" validate:"gte=0"`
	Method string          `json:"method" validate:"oneof=cash card"`
	Opts   []option        `json:"opts" validate:"dive"`
}

type option struct {
	ID int64 `json:"id" validate:"gte=1"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(priceRequest{Name: "Tea", Price: decimal.RequireFromString("12.5"), Method: "cash"})
	assert.NoError(t, err)
}

func TestValidate_Fields(t *testing.T) {
	err := Validate(priceRequest{
		Price:  decimal.RequireFromString("-0.01"),
		Method: "iou",
		Opts:   []option{{ID: 0}},
	})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, map[string]string{
		"name":       "is required",
		"price":      "must be greater than or equal to 0",
		"method":     "must be one of: cash card",
		"opts[0].id": "must be greater than or equal to 1",
	}, valErr.Fields())
	assert.Contains(t, err.Error(), "field 'priceRequest.name' is required")
}
