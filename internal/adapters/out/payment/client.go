// Package payment calls the payment gateway to return money to buyers.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
)

// IdempotencyHeader makes repeated refunds of one order safe on the gateway side.
const IdempotencyHeader = "Idempotency-Key"

// RefundPath is appended to the gateway base URL.
const RefundPath = "/refunds"

type refundRequest struct {
	OrderID string `json:"orderId"`
	Amount  string `json:"amount"`
}

// StatusError is returned when the gateway answers with a non 2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("payment gateway returned %d: %s", e.StatusCode, e.Body)
}

// Client implements ports.PaymentCollaborator with one JSON POST per refund.
// It sets no timeout of its own; callers bound each call with the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(&http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			}),
		},
	}
}

// Refund posts the refund. The order id doubles as the idempotency key, so a
// retried settlement cannot pay twice.
func (c *Client) Refund(ctx context.Context, orderID kernel.UUID, amount kernel.Money) error {
	body, err := json.Marshal(refundRequest{OrderID: orderID.String(), Amount: amount.String()})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RefundPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyHeader, orderID.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
