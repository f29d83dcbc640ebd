package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"foodstore/internal/checkout"
)

// StatusError is returned when the order endpoint answers outside 2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("create order failed: http=%d body=%s", e.StatusCode, e.Body)
}

// Client talks to the order API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/v1". A nil httpClient means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) orderURL() string {
	return c.baseURL + "/order"
}

// CreateOrder posts req to /order as the bearer of token and returns the
// response body untouched.
func (c *Client) CreateOrder(ctx context.Context, token string, req checkout.OrderRequest) (checkout.OrderResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.orderURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("create order: response is not JSON: %s", string(raw))
	}

	return checkout.OrderResult(raw), nil
}
