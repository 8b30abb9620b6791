// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	JWTSecretKey string

	// Phone number that is granted the admin role at registration.
	AdminPhoneNumber string

	// SMS code delivery (template-based provider).
	SMSAccessKey  string
	SMSAPIURL     string
	SMSTemplateID int

	// Email code delivery.
	EmailAPIKey      string
	EmailAPIURL      string
	EmailFromAddress string

	// Billing provider (hosted checkout + customer portal).
	BillingSecretKey    string
	BillingAPIBaseURL   string
	BillingProPriceID   string
	BillingSuccessURL   string
	BillingCancelURL    string
	BillingPortalReturn string

	Environment string
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "jucoreach.db"),
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),

		AdminPhoneNumber: getEnv("ADMIN_PHONE_NUMBER", ""),

		SMSAccessKey:  getEnv("SMS_ACCESS_KEY", ""),
		SMSAPIURL:     getEnv("SMS_API_URL", ""),
		SMSTemplateID: getEnvAsInt("SMS_TEMPLATE_ID", 0),

		EmailAPIKey:      getEnv("EMAIL_API_KEY", ""),
		EmailAPIURL:      getEnv("EMAIL_API_URL", ""),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", "verify@jucoreach.com"),

		BillingSecretKey:    getEnv("BILLING_SECRET_KEY", ""),
		BillingAPIBaseURL:   getEnv("BILLING_API_BASE_URL", "https://api.stripe.com"),
		BillingProPriceID:   getEnv("BILLING_PRO_PRICE_ID", ""),
		BillingSuccessURL:   getEnv("BILLING_SUCCESS_URL", "http://localhost:5173/billing/success"),
		BillingCancelURL:    getEnv("BILLING_CANCEL_URL", "http://localhost:5173/billing/cancelled"),
		BillingPortalReturn: getEnv("BILLING_PORTAL_RETURN_URL", "http://localhost:5173/account"),

		Environment: env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.SMSAccessKey == "" {
			missing = append(missing, "SMS_ACCESS_KEY")
		}
		if cfg.SMSAPIURL == "" {
			missing = append(missing, "SMS_API_URL")
		}
		if cfg.EmailAPIKey == "" {
			missing = append(missing, "EMAIL_API_KEY")
		}
		if cfg.EmailAPIURL == "" {
			missing = append(missing, "EMAIL_API_URL")
		}
		if cfg.BillingSecretKey == "" {
			missing = append(missing, "BILLING_SECRET_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
