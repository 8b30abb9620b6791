// File: internal/services/email/provider.go
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type Provider interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

// HTTPProvider sends verification-code emails through a transactional mail
// API (SendGrid-style JSON POST with a bearer key).
type HTTPProvider struct {
	config *Config
	client *http.Client
}

func NewHTTPProvider(config *Config) *HTTPProvider {
	return &HTTPProvider{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (p *HTTPProvider) SendVerificationCode(ctx context.Context, to, code string) error {
	if to == "" || code == "" {
		return &EmailError{Type: ErrTypeValidation, Message: "recipient and code are required"}
	}

	payload := map[string]interface{}{
		"from":    p.config.FromAddress,
		"to":      to,
		"subject": "Your JucoReach verification code",
		"text":    fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &EmailError{Type: ErrTypeValidation, Message: "invalid payload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.config.APIURL, bytes.NewBuffer(body))
	if err != nil {
		return &EmailError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return &EmailError{Type: ErrTypeNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	return p.handleResponse(resp)
}

func (p *HTTPProvider) handleResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	responseBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return &EmailError{
			Type:    ErrTypeRateLimit,
			Code:    resp.StatusCode,
			Message: "rate limit exceeded",
		}
	}

	return &EmailError{
		Type:    ErrTypeProvider,
		Code:    resp.StatusCode,
		Message: string(responseBody),
	}
}
