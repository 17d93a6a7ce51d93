package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8003, cfg.HTTPPort)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, 168, cfg.CartTTL)
	assert.Equal(t, "pizza", cfg.DefaultTenant)
	assert.Empty(t, cfg.KafkaBrokers)

	pricing, err := cfg.Pricing()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.07").Equal(pricing.TaxRate))
	assert.True(t, decimal.NewFromInt(30).Equal(pricing.DeliveryFee))
	assert.Equal(t, "THB", pricing.Currency.String())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CART_STORE", "postgres")
	t.Setenv("CART_TAX_RATE", "0.1")
	t.Setenv("CART_CURRENCY", "USD")
	t.Setenv("CART_MERGE_POLICY", "modifiers")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "modifiers", cfg.MergePolicy)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)

	pricing, err := cfg.Pricing()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.1").Equal(pricing.TaxRate))
	assert.Equal(t, "USD", pricing.Currency.String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantError string
	}{
		{
			name:      "port out of range",
			env:       map[string]string{"CART_HTTP_PORT": "70000"},
			wantError: "invalid HTTP port: 70000",
		},
		{
			name:      "unknown store",
			env:       map[string]string{"CART_STORE": "memcached"},
			wantError: `invalid cart store: "memcached"`,
		},
		{
			name:      "negative ttl",
			env:       map[string]string{"CART_TTL_HOURS": "-1"},
			wantError: "invalid cart TTL: -1",
		},
		{
			name:      "unknown merge policy",
			env:       map[string]string{"CART_MERGE_POLICY": "sku"},
			wantError: "merge policy[sku] is not valid",
		},
		{
			name:      "negative delivery fee",
			env:       map[string]string{"CART_DELIVERY_FEE": "-5"},
			wantError: "delivery fee[-5] is negative",
		},
		{
			name:      "failure ratio out of range",
			env:       map[string]string{"CB_FAILURE_RATIO": "1.5"},
			wantError: "invalid circuit breaker failure ratio: 1.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.EqualError(t, err, tt.wantError)
		})
	}
}

func TestLoad_InvalidCurrency(t *testing.T) {
	t.Setenv("CART_CURRENCY", "XYZW")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currency[XYZW] is not valid")
}
