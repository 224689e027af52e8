package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tourbackend/internal/domain"
)

// Client talks to the external payment gateway. Only two calls are needed:
// Initialize to obtain a hosted checkout URL, and Verify to re-check a
// transaction's final status out of band.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type InitializeRequest struct {
	Amount    float64 `json:"amount"`
	TxRef     string  `json:"tx_ref"`
	Method    string  `json:"payment_method"`
	ReturnURL string  `json:"return_url,omitempty"`
}

type InitializeResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

type VerifyResponse struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

// Initialize creates a checkout session at the gateway and returns its URL.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (string, error) {
	if c == nil || c.BaseURL == "" {
		// Gateway unconfigured (local dev): checkout happens out of band and
		// only the webhook drives reconciliation.
		return "", nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", domain.InternalError{Msg: "encode gateway request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/transactions/initialize", bytes.NewReader(body))
	if err != nil {
		return "", domain.InternalError{Msg: "build gateway request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", domain.UpstreamError{Service: "payment gateway", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", domain.UpstreamError{Service: "payment gateway", Err: fmt.Errorf("initialize returned %d", resp.StatusCode)}
	}

	var out InitializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", domain.UpstreamError{Service: "payment gateway", Err: fmt.Errorf("decode initialize response: %w", err)}
	}
	return out.CheckoutURL, nil
}

// Verify re-fetches a transaction's status by gateway reference.
func (c *Client) Verify(ctx context.Context, txRef string) (VerifyResponse, error) {
	if c == nil || c.BaseURL == "" {
		return VerifyResponse{}, domain.UpstreamError{Service: "payment gateway", Err: fmt.Errorf("gateway not configured")}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/transactions/verify/"+txRef, nil)
	if err != nil {
		return VerifyResponse{}, domain.InternalError{Msg: "build gateway request", Err: err}
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return VerifyResponse{}, domain.UpstreamError{Service: "payment gateway", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return VerifyResponse{}, domain.NotFoundError{Resource: "transaction"}
	}
	if resp.StatusCode != http.StatusOK {
		return VerifyResponse{}, domain.UpstreamError{Service: "payment gateway", Err: fmt.Errorf("verify returned %d", resp.StatusCode)}
	}

	var out VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return VerifyResponse{}, domain.UpstreamError{Service: "payment gateway", Err: fmt.Errorf("decode verify response: %w", err)}
	}
	return out, nil
}
