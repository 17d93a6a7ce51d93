package repository_test

import (
	"testing"

	"github.com/nikolayk812/orderup-cart/internal/domain"
	"github.com/nikolayk812/orderup-cart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalLines_Schema(t *testing.T) {
	lines := []domain.Line{
		{
			Item: domain.Item{
				ID:          7,
				Name:        "Green Curry",
				Description: "spicy",
				UnitPrice:   decimal.RequireFromString("180.50"),
				Modifiers: []domain.SelectedModifier{{
					GroupID:         1,
					GroupName:       "Protein",
					OptionID:        3,
					OptionName:      "Chicken",
					PriceAdjustment: decimal.NewFromInt(20),
				}},
			},
			Key:      "7",
			Quantity: 2,
		},
		{
			Item: domain.Item{
				ID:        8,
				Name:      "Rice",
				ImageURL:  "https://img.example.com/rice.jpg",
				UnitPrice: decimal.NewFromInt(20),
			},
			Key:      "8",
			Quantity: 1,
		},
	}

	data, err := repository.MarshalLines(lines)
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"id":7,"name":"Green Curry","price":180.5,"description":"spicy","quantity":2,
		 "selectedModifiers":[{"groupId":1,"groupName":"Protein","optionId":3,"optionName":"Chicken","priceAdjustment":20}]},
		{"id":8,"name":"Rice","price":20,"description":"","image_url":"https://img.example.com/rice.jpg","quantity":1}
	]`, string(data))
}

func TestMarshalLines_Empty(t *testing.T) {
	data, err := repository.MarshalLines(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestUnmarshalLines(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		want      []domain.Line
		wantError string
	}{
		{
			name: "numbers and quoted numbers: ok",
			data: `[{"id":1,"name":"Tea","price":35.25,"description":"","quantity":3,
				"selectedModifiers":[{"groupId":2,"groupName":"Sugar","optionId":4,"optionName":"Less","priceAdjustment":"0"}]}]`,
			want: []domain.Line{{
				Item: domain.Item{
					ID:        1,
					Name:      "Tea",
					UnitPrice: decimal.RequireFromString("35.25"),
					Modifiers: []domain.SelectedModifier{{
						GroupID: 2, GroupName: "Sugar", OptionID: 4, OptionName: "Less", PriceAdjustment: decimal.Zero,
					}},
				},
				Quantity: 3,
			}},
		},
		{
			name: "empty array: ok",
			data: `[]`,
			want: []domain.Line{},
		},
		{
			name:      "corrupt data: error",
			data:      `{{not-json`,
			wantError: "json.Unmarshal",
		},
		{
			name:      "bad price: error",
			data:      `[{"id":1,"price":"abc","quantity":1}]`,
			wantError: "json.Unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repository.UnmarshalLines([]byte(tt.data))
			if tt.wantError != "" {
				require.ErrorContains(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assertLines(t, tt.want, got)
			assert.Len(t, got, len(tt.want))
		})
	}
}

func TestLines_RoundTripKeepsPrecision(t *testing.T) {
	lines := []domain.Line{{
		Item:     domain.Item{ID: 1, Name: "Odd", UnitPrice: decimal.RequireFromString("99.995")},
		Quantity: 1,
	}}

	data, err := repository.MarshalLines(lines)
	require.NoError(t, err)

	got, err := repository.UnmarshalLines(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, decimal.RequireFromString("99.995").Equal(got[0].UnitPrice))
}
