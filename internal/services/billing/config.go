// File: internal/services/billing/config.go
package billing

import (
	"fmt"
	"time"
)

type Config struct {
	SecretKey       string
	APIBaseURL      string
	ProPriceID      string
	SuccessURL      string
	CancelURL       string
	PortalReturnURL string
	Timeout         time.Duration
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("BILLING_SECRET_KEY is required")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("BILLING_API_BASE_URL is required")
	}
	if c.ProPriceID == "" {
		return fmt.Errorf("BILLING_PRO_PRICE_ID is required")
	}
	return nil
}
