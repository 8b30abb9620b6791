// File: internal/services/billing/client.go
package billing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// CheckoutSession is the provider's hosted-checkout handle. The client is
// redirected to URL; SessionID is kept against the payment record.
type CheckoutSession struct {
	SessionID string `json:"id"`
	URL       string `json:"url"`
}

// PortalSession is the provider's hosted customer-portal handle.
type PortalSession struct {
	URL string `json:"url"`
}

// Provider creates hosted checkout and portal sessions.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, customerEmail, priceID string) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID string) (*PortalSession, error)
}

// Client talks to a Stripe-style billing API: form-encoded requests, secret
// key as bearer auth, idempotency via a request header.
type Client struct {
	config *Config
	client *http.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, customerEmail, priceID string) (*CheckoutSession, error) {
	if customerEmail == "" || priceID == "" {
		return nil, &BillingError{Type: ErrTypeValidation, Message: "customer email and price ID are required"}
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("customer_email", customerEmail)
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", c.config.SuccessURL)
	form.Set("cancel_url", c.config.CancelURL)

	var session CheckoutSession
	if err := c.post(ctx, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) CreatePortalSession(ctx context.Context, customerID string) (*PortalSession, error) {
	if customerID == "" {
		return nil, &BillingError{Type: ErrTypeValidation, Message: "customer ID is required"}
	}

	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("return_url", c.config.PortalReturnURL)

	var session PortalSession
	if err := c.post(ctx, "/v1/billing_portal/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	endpoint := strings.TrimRight(c.config.APIBaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &BillingError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	// A fresh idempotency key per call; the provider dedupes retried posts.
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return &BillingError{Type: ErrTypeNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &BillingError{
			Type:    ErrTypeProvider,
			Code:    resp.StatusCode,
			Message: string(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &BillingError{Type: ErrTypeProvider, Message: "invalid response body", Cause: err}
	}
	return nil
}
