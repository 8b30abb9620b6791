// File: internal/services/email/config.go
package email

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey      string
	APIURL      string
	FromAddress string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("EMAIL_API_KEY is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("EMAIL_API_URL is required")
	}
	if c.FromAddress == "" {
		return fmt.Errorf("EMAIL_FROM_ADDRESS is required")
	}
	return nil
}
