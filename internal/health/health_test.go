package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveness(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, StatusUp, resp.Status)
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		redisErr   error
		wantStatus int
		wantBody   Status
	}{
		{name: "all up", wantStatus: http.StatusOK, wantBody: StatusUp},
		{name: "redis down", redisErr: errors.New("dial tcp: refused"), wantStatus: http.StatusServiceUnavailable, wantBody: StatusDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler()
			h.Register("redis", func(ctx context.Context) error { return tt.redisErr })
			h.Register("order-service", func(ctx context.Context) error { return nil })

			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.Equal(t, StatusUp, resp.Checks["order-service"].Status)
			if tt.redisErr != nil {
				assert.Equal(t, "dial tcp: refused", resp.Checks["redis"].Error)
			}
		})
	}
}
