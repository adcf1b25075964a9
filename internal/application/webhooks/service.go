// Package webhooks implements webhook management for a merchant service:
// listing, registering and updating subscriptions and retrieving the
// signing secret used to verify deliveries.
package webhooks

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/shared"
	"github.com/selfservice/portal/internal/infrastructure/clients/webhooks"
)

// Webhook lifecycle statuses accepted by the webhooks service
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// SubscriptionEvents are the payment event types a webhook can subscribe to
var SubscriptionEvents = []string{
	"card_payment_started",
	"card_payment_succeeded",
	"card_payment_captured",
	"card_payment_refunded",
	"card_payment_failed",
	"card_payment_expired",
}

var (
	errCallbackURLNotValid = shared.NewDomainError("CALLBACK_URL_NOT_VALID",
		"Enter a valid callback url beginning with https://")
	errSubscriptionsEmpty = shared.NewDomainError("SUBSCRIPTIONS_EMPTY",
		"Select at least one payment event")
	errSubscriptionUnknown = shared.NewDomainError("SUBSCRIPTION_UNKNOWN",
		"Select a payment event from the list")
	errStatusNotValid = shared.NewDomainError("STATUS_NOT_VALID",
		"Webhook status must be ACTIVE or INACTIVE")
)

// BackendClient is the webhooks service client surface used here
type BackendClient interface {
	List(ctx context.Context, params webhooks.ListParams) ([]webhooks.Webhook, error)
	Get(ctx context.Context, webhookID, serviceID, correlationID string) (*webhooks.Webhook, error)
	Create(ctx context.Context, payload webhooks.CreateWebhookRequest, correlationID string) (*webhooks.Webhook, error)
	Update(ctx context.Context, webhookID string, payload webhooks.UpdateWebhookRequest, correlationID string) (*webhooks.Webhook, error)
	SigningSecret(ctx context.Context, webhookID, correlationID string) (*webhooks.SigningSecret, error)
}

// ServiceScope identifies the merchant service whose webhooks are managed
type ServiceScope struct {
	ServiceID        string
	GatewayAccountID string
	Live             bool
	CorrelationID    string
}

// CreateInput is a new webhook registration
type CreateInput struct {
	CallbackURL   string   `json:"callback_url" binding:"required"`
	Description   string   `json:"description" binding:"required,max=50"`
	Subscriptions []string `json:"subscriptions" binding:"required"`
}

// UpdateInput carries the attributes being changed. Empty fields are left
// untouched on the webhook.
type UpdateInput struct {
	CallbackURL   string   `json:"callback_url"`
	Description   string   `json:"description" binding:"max=50"`
	Status        string   `json:"status"`
	Subscriptions []string `json:"subscriptions"`
}

// Service manages webhooks for merchant services
type Service struct {
	client BackendClient
	logger *zap.Logger
}

// NewService creates the webhook management service
func NewService(client BackendClient, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// List returns the webhooks registered for the service
func (s *Service) List(ctx context.Context, scope ServiceScope) ([]webhooks.Webhook, error) {
	return s.client.List(ctx, webhooks.ListParams{
		ServiceID:        scope.ServiceID,
		GatewayAccountID: scope.GatewayAccountID,
		Live:             scope.Live,
		CorrelationID:    scope.CorrelationID,
	})
}

// Get returns one webhook scoped to the service
func (s *Service) Get(ctx context.Context, scope ServiceScope, webhookID string) (*webhooks.Webhook, error) {
	return s.client.Get(ctx, webhookID, scope.ServiceID, scope.CorrelationID)
}

// Create validates and registers a new webhook
func (s *Service) Create(ctx context.Context, scope ServiceScope, input CreateInput) (*webhooks.Webhook, error) {
	if err := validateCallbackURL(input.CallbackURL); err != nil {
		return nil, err
	}
	if err := validateSubscriptions(input.Subscriptions, true); err != nil {
		return nil, err
	}

	webhook, err := s.client.Create(ctx, webhooks.CreateWebhookRequest{
		ServiceID:        scope.ServiceID,
		GatewayAccountID: scope.GatewayAccountID,
		Live:             scope.Live,
		CallbackURL:      input.CallbackURL,
		Description:      input.Description,
		Subscriptions:    input.Subscriptions,
	}, scope.CorrelationID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Registered webhook",
		zap.String("service_id", scope.ServiceID),
		zap.String("webhook_external_id", webhook.ExternalID),
		zap.String("correlation_id", scope.CorrelationID))
	return webhook, nil
}

// Update validates and applies changes to an existing webhook
func (s *Service) Update(ctx context.Context, scope ServiceScope, webhookID string, input UpdateInput) (*webhooks.Webhook, error) {
	if input.CallbackURL != "" {
		if err := validateCallbackURL(input.CallbackURL); err != nil {
			return nil, err
		}
	}
	if input.Status != "" && input.Status != StatusActive && input.Status != StatusInactive {
		return nil, errStatusNotValid
	}
	if err := validateSubscriptions(input.Subscriptions, false); err != nil {
		return nil, err
	}

	webhook, err := s.client.Update(ctx, webhookID, webhooks.UpdateWebhookRequest{
		CallbackURL:   input.CallbackURL,
		Description:   input.Description,
		Status:        input.Status,
		Subscriptions: input.Subscriptions,
	}, scope.CorrelationID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated webhook",
		zap.String("service_id", scope.ServiceID),
		zap.String("webhook_external_id", webhookID),
		zap.String("correlation_id", scope.CorrelationID))
	return webhook, nil
}

// SigningSecret returns the webhook's delivery-verification secret
func (s *Service) SigningSecret(ctx context.Context, scope ServiceScope, webhookID string) (*webhooks.SigningSecret, error) {
	return s.client.SigningSecret(ctx, webhookID, scope.CorrelationID)
}

func validateCallbackURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return errCallbackURLNotValid
	}
	return nil
}

func validateSubscriptions(subscriptions []string, required bool) error {
	if len(subscriptions) == 0 {
		if required {
			return errSubscriptionsEmpty
		}
		return nil
	}
	for _, sub := range subscriptions {
		if !knownSubscription(sub) {
			return errSubscriptionUnknown
		}
	}
	return nil
}

func knownSubscription(name string) bool {
	for _, event := range SubscriptionEvents {
		if event == name {
			return true
		}
	}
	return false
}
