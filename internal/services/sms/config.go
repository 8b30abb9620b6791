// File: internal/services/sms/config.go
package sms

import (
	"fmt"
	"time"
)

// Config describes the SMS gateway. Retry behavior lives in RetryConfig,
// not here, because retries wrap the provider rather than configure it.
type Config struct {
	AccessKey  string
	TemplateID int
	APIURL     string
	Timeout    time.Duration
}

func (c *Config) Validate() error {
	if c.AccessKey == "" {
		return fmt.Errorf("SMS_ACCESS_KEY is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("SMS_API_URL is required")
	}
	if c.TemplateID == 0 {
		return fmt.Errorf("SMS_TEMPLATE_ID is required")
	}
	return nil
}
