package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/mercatohq/mercato-backend/pkg/config"
	"github.com/mercatohq/mercato-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)
)

// WebhookSecrets holds the signing secrets configured for one webhook
// endpoint. Platform is tried first; Connect covers events signed under a
// connected account. Either may be empty.
type WebhookSecrets struct {
	Platform string
	Connect  string
}

// Ordered returns the non-empty secrets in verification order.
func (s WebhookSecrets) Ordered() []string {
	var secrets []string
	if s.Platform != "" {
		secrets = append(secrets, s.Platform)
	}
	if s.Connect != "" {
		secrets = append(secrets, s.Connect)
	}
	return secrets
}

// Client wraps Stripe's API client plus env-specific metadata.
type Client struct {
	api            *stripe.Client
	environment    string
	salesSecrets   WebhookSecrets
	creditsSecrets WebhookSecrets
}

// NewClient initializes Stripe once with the configured secrets and env.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}

	api := stripe.NewClient(apiKey)
	stripe.Key = apiKey

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe client initialized (%s)", env))
	}

	return &Client{
		api:         api,
		environment: env,
		salesSecrets: WebhookSecrets{
			Platform: strings.TrimSpace(cfg.SalesWebhookSecret),
			Connect:  strings.TrimSpace(cfg.SalesConnectWebhookSecret),
		},
		creditsSecrets: WebhookSecrets{
			Platform: strings.TrimSpace(cfg.CreditsWebhookSecret),
			Connect:  strings.TrimSpace(cfg.CreditsConnectWebhookSecret),
		},
	}, nil
}

// API returns the underlying Stripe API client.
func (c *Client) API() *stripe.Client {
	if c == nil {
		return nil
	}
	return c.api
}

// Environment reports the normalized Stripe environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// SalesSecrets returns the sale receiver's webhook signing secrets.
func (c *Client) SalesSecrets() WebhookSecrets {
	if c == nil {
		return WebhookSecrets{}
	}
	return c.salesSecrets
}

// CreditsSecrets returns the credits receiver's webhook signing secrets.
func (c *Client) CreditsSecrets() WebhookSecrets {
	if c == nil {
		return WebhookSecrets{}
	}
	return c.creditsSecrets
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", liveEnv)
	default:
		return errInvalidStripeEnv
	}
}
