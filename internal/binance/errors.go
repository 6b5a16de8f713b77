package binance

import (
	"encoding/json"
	"fmt"
)

// NetworkError indicates a transport-level failure (DNS, timeout, malformed
// payload). Retryable from the caller's point of view.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("binance %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ExchangeError indicates a non-200 response from the exchange, such as a
// rate limit (429/418) or an unknown symbol (-1121).
type ExchangeError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *ExchangeError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("binance API error %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("binance API error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimit reports whether the exchange rejected the request for rate limiting.
func (e *ExchangeError) IsRateLimit() bool {
	return e.StatusCode == 429 || e.StatusCode == 418
}

func newExchangeError(status int, body []byte) *ExchangeError {
	var parsed struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Msg != "" {
		return &ExchangeError{StatusCode: status, Code: parsed.Code, Message: parsed.Msg}
	}
	return &ExchangeError{StatusCode: status, Message: string(body)}
}
