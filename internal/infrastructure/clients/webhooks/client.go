// Package webhooks is the client for the webhooks backend service, which
// manages merchant webhook subscriptions and their signing secrets.
package webhooks

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/selfservice/portal/internal/infrastructure/clients"
)

// ServiceName tags log entries and classified errors
const ServiceName = "webhooks"

// Paths holds the endpoint templates for the webhooks service
type Paths struct {
	Webhooks      string
	Webhook       string
	SigningSecret string
}

func DefaultPaths() Paths {
	return Paths{
		Webhooks:      "/v1/webhook",
		Webhook:       "/v1/webhook/{webhookId}",
		SigningSecret: "/v1/webhook/{webhookId}/signing-key",
	}
}

// Client wraps the shared transport with webhooks-service endpoints
type Client struct {
	transport *clients.Client
	paths     Paths
}

func NewClient(transport *clients.Client, paths Paths) *Client {
	return &Client{transport: transport, paths: paths}
}

// ListParams scopes a webhook listing to one service and environment
type ListParams struct {
	ServiceID        string
	GatewayAccountID string
	Live             bool
	CorrelationID    string
}

// List returns the webhooks registered for a service
func (c *Client) List(ctx context.Context, params ListParams) ([]Webhook, error) {
	query := url.Values{}
	query.Set("service_id", params.ServiceID)
	query.Set("gateway_account_id", params.GatewayAccountID)
	query.Set("live", strconv.FormatBool(params.Live))

	resp, err := c.transport.Do(ctx, clients.Request{
		Method:        http.MethodGet,
		Path:          c.paths.Webhooks,
		Query:         query,
		CorrelationID: params.CorrelationID,
		Description:   "list webhooks",
		Transform: func(body []byte) (any, error) {
			return clients.DecodeJSON[[]Webhook](body)
		},
	})
	if err != nil {
		return nil, err
	}
	return *resp.Data.(*[]Webhook), nil
}

// Get returns a single webhook by its external id
func (c *Client) Get(ctx context.Context, webhookID, serviceID, correlationID string) (*Webhook, error) {
	query := url.Values{}
	query.Set("service_id", serviceID)

	resp, err := c.transport.Do(ctx, clients.Request{
		Method:        http.MethodGet,
		Path:          c.paths.Webhook,
		PathParams:    map[string]string{"webhookId": webhookID},
		Query:         query,
		CorrelationID: correlationID,
		Description:   "get webhook",
		Transform: func(body []byte) (any, error) {
			return clients.DecodeJSON[Webhook](body)
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.(*Webhook), nil
}

// Create registers a new webhook and returns the stored representation
func (c *Client) Create(ctx context.Context, payload CreateWebhookRequest, correlationID string) (*Webhook, error) {
	resp, err := c.transport.Do(ctx, clients.Request{
		Method:        http.MethodPost,
		Path:          c.paths.Webhooks,
		Body:          payload,
		CorrelationID: correlationID,
		Description:   "create webhook",
		Transform: func(body []byte) (any, error) {
			return clients.DecodeJSON[Webhook](body)
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.(*Webhook), nil
}

// Update patches the mutable attributes of a webhook. Only the fields set
// on the request are included in the patch document.
func (c *Client) Update(ctx context.Context, webhookID string, payload UpdateWebhookRequest, correlationID string) (*Webhook, error) {
	var ops []patchOp
	if payload.CallbackURL != "" {
		ops = append(ops, patchOp{Op: "replace", Path: "callback_url", Value: payload.CallbackURL})
	}
	if payload.Description != "" {
		ops = append(ops, patchOp{Op: "replace", Path: "description", Value: payload.Description})
	}
	if payload.Status != "" {
		ops = append(ops, patchOp{Op: "replace", Path: "status", Value: payload.Status})
	}
	if payload.Subscriptions != nil {
		ops = append(ops, patchOp{Op: "replace", Path: "subscriptions", Value: payload.Subscriptions})
	}

	resp, err := c.transport.Do(ctx, clients.Request{
		Method:        http.MethodPatch,
		Path:          c.paths.Webhook,
		PathParams:    map[string]string{"webhookId": webhookID},
		Body:          ops,
		CorrelationID: correlationID,
		Description:   "update webhook",
		Transform: func(body []byte) (any, error) {
			return clients.DecodeJSON[Webhook](body)
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.(*Webhook), nil
}

// SigningSecret returns the secret merchants use to verify webhook signatures
func (c *Client) SigningSecret(ctx context.Context, webhookID, correlationID string) (*SigningSecret, error) {
	resp, err := c.transport.Do(ctx, clients.Request{
		Method:        http.MethodGet,
		Path:          c.paths.SigningSecret,
		PathParams:    map[string]string{"webhookId": webhookID},
		CorrelationID: correlationID,
		Description:   "get webhook signing secret",
		Transform: func(body []byte) (any, error) {
			return clients.DecodeJSON[SigningSecret](body)
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.(*SigningSecret), nil
}
