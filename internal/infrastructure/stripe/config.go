package stripe

import (
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v81"
)

// Config holds configuration for the Stripe platform account
type Config struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`

	// IsTestMode indicates if using Stripe test mode
	IsTestMode bool `json:"is_test_mode" mapstructure:"is_test_mode"`
}

// Validate validates the Stripe configuration
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}

	if c.IsTestMode {
		if len(c.SecretKey) > 7 && c.SecretKey[:7] != "sk_test" {
			return fmt.Errorf("stripe: test mode enabled but secret key is not a test key")
		}
	} else {
		if len(c.SecretKey) > 7 && c.SecretKey[:7] != "sk_live" {
			return fmt.Errorf("stripe: live mode enabled but secret key is not a live key")
		}
	}

	return nil
}

// InitClient initializes the Stripe client with the configured API key
func (c *Config) InitClient() {
	stripeapi.Key = c.SecretKey
}
