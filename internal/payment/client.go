package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// ErrGatewayUnavailable covers transport failures and timeouts talking to the
// gateway. The fate of the charge is unknown in that case, so callers must not
// map it to a declined verdict.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Client talks to the payment gateway over HTTP. It keeps no local state and
// never retries; whether an authorization may be attempted again is the
// caller's call.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Authorize sends one authorization request and reports the gateway verdict.
// Any failure to obtain a verdict (connect error, timeout, non-2xx, bad body)
// surfaces as ErrGatewayUnavailable.
func (c *Client) Authorize(ctx context.Context, card Card, amount decimal.Decimal) (Authorization, error) {
	body, err := json.Marshal(NewAuthorizationRequest(card, amount))
	if err != nil {
		return Authorization{}, fmt.Errorf("encode authorization: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mockpayment/paymentRequest", bytes.NewReader(body))
	if err != nil {
		return Authorization{}, fmt.Errorf("build authorization request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Authorization{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Authorization{}, fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var auth Authorization
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return Authorization{}, fmt.Errorf("%w: decode response: %v", ErrGatewayUnavailable, err)
	}
	return auth, nil
}
