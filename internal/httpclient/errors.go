package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nikolayk812/orderup-cart/internal/apperrors"
)

// downstreamError covers both error shapes the order service emits: the
// {"error":{"code","message"}} envelope and a DRF style {"detail": "..."}.
type downstreamError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail string `json:"detail"`
}

// ParseResponseError reads a non-2xx response and translates it into an
// apperrors value. The body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Upstream(
			fmt.Sprintf("%s returned status %d", serviceName, resp.StatusCode),
			fmt.Errorf("read body: %w", err),
		)
	}

	code, message := "", strings.TrimSpace(string(bodyBytes))

	var downstream downstreamError
	if json.Unmarshal(bodyBytes, &downstream) == nil {
		switch {
		case downstream.Error != nil:
			code, message = downstream.Error.Code, downstream.Error.Message
		case downstream.Detail != "":
			message = downstream.Detail
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return mapDownstreamError(resp.StatusCode, code, message, serviceName)
}

func mapDownstreamError(status int, code, message, serviceName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.OrderRejected(qualifiedMsg)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(qualifiedMsg)
	case status >= 500:
		return apperrors.Upstream(
			fmt.Sprintf("%s is failing, try again later", serviceName),
			fmt.Errorf("status %d (%s): %s", status, code, message),
		)
	default:
		return apperrors.Upstream(
			qualifiedMsg,
			fmt.Errorf("unexpected status %d (%s)", status, code),
		)
	}
}
