// Package connector is the thin client for the connector backend service:
// gateway accounts, credentials, refunds, and the Stripe setup resources.
package connector

import (
	"context"
	"net/http"

	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/infrastructure/clients"
)

// ServiceName tags connector calls in logs and classified errors
const ServiceName = "connector"

// Paths is the immutable table of connector path templates, loaded once at
// process start and passed into the client rather than referenced as
// ambient state.
type Paths struct {
	Account             string
	AccountByExternalID string
	AccountAPI          string
	AccountCredentials  string
	ChargeRefunds       string
	StripeAccountSetup  string
	StripeAccount       string
}

// DefaultPaths returns the connector's path templates
func DefaultPaths() Paths {
	return Paths{
		Account:             "/v1/frontend/accounts/{accountId}",
		AccountByExternalID: "/v1/api/accounts/external-id/{externalId}",
		AccountAPI:          "/v1/api/accounts/{accountId}",
		AccountCredentials:  "/v1/frontend/accounts/{accountId}/credentials",
		ChargeRefunds:       "/v1/api/accounts/{accountId}/charges/{chargeId}/refunds",
		StripeAccountSetup:  "/v1/api/accounts/{accountId}/stripe-setup",
		StripeAccount:       "/v1/api/accounts/{accountId}/stripe-account",
	}
}

// Client issues connector calls over the shared transport
type Client struct {
	transport *clients.Client
	paths     Paths
}

// NewClient creates a connector client
func NewClient(transport *clients.Client, paths Paths) *Client {
	return &Client{transport: transport, paths: paths}
}

// doLegacy drives req through the callback transport the stripe-setup
// resources still speak. Leaving Accept empty pins the legacy {200, 202}
// accepted set.
func (c *Client) doLegacy(ctx context.Context, req clients.Request) (*clients.Response, error) {
	return c.transport.DoLegacy(ctx, req, func(cb clients.Callback) {
		c.transport.StartCallback(ctx, req, cb)
	})
}

// GetAccountParams identifies the account for a frontend-resource fetch
type GetAccountParams struct {
	GatewayAccountID string
	CorrelationID    string
}

// GetAccount retrieves the given gateway account
func (c *Client) GetAccount(ctx context.Context, params GetAccountParams) (*Account, error) {
	resp, err := c.transport.Do(ctx, clients.Request{
		Method:        http.MethodGet,
		Path:          c.paths.Account,
		PathParams:    map[string]string{"accountId": params.GatewayAccountID},
		CorrelationID: params.CorrelationID,
		Description:   "get an account",
		Transform: func(body []byte) (any, error) {
			return clients.DecodeJSON[Account](body)
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.(*Account), nil
}

// GetAccountByExternalID retrieves a gateway account by its external id
func (c *Client) GetAccountByExternalID(ctx context.Context, externalID, correlationID string) (*Account, error) {
	resp, err := c.transport.Do(ctx, clients.Request{
		Method:        http.MethodGet,
		Path:          c.paths.AccountByExternalID,
		PathParams:    map[string]string{"externalId": externalID},
		CorrelationID: correlationID,
		Description:   "get an account",
		Transform: func(body []byte) (any, error) {
			return clients.DecodeJSON[Account](body)
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.(*Account), nil
}

// PatchCredentialsParams carries a credentials update
type PatchCredentialsParams struct {
	GatewayAccountID string
	Payload          Credentials
	CorrelationID    string
}

// PatchAccountCredentials updates the gateway account's credentials
func (c *Client) PatchAccountCredentials(ctx context.Context, params PatchCredentialsParams) error {
	_, err := c.transport.Do(ctx, clients.Request{
		Method:        http.MethodPatch,
		Path:          c.paths.AccountCredentials,
		PathParams:    map[string]string{"accountId": params.GatewayAccountID},
		Body:          params.Payload,
		CorrelationID: params.CorrelationID,
		Description:   "patch gateway account credentials",
	})
	return err
}

// PostChargeRefundParams carries a refund submission
type PostChargeRefundParams struct {
	GatewayAccountID string
	ChargeID         string
	Payload          RefundRequest
	CorrelationID    string
}

// PostChargeRefund submits a refund against a charge. The client performs
// no retry; retry policy belongs to the caller.
func (c *Client) PostChargeRefund(ctx context.Context, params PostChargeRefundParams) error {
	_, err := c.transport.Do(ctx, clients.Request{
		Method: http.MethodPost,
		Path:   c.paths.ChargeRefunds,
		PathParams: map[string]string{
			"accountId": params.GatewayAccountID,
			"chargeId":  params.ChargeID,
		},
		Body:          params.Payload,
		CorrelationID: params.CorrelationID,
		Description:   "submit refund",
	})
	return err
}

// GetStripeAccountSetup retrieves the Stripe setup-progress flags for a
// gateway account
func (c *Client) GetStripeAccountSetup(ctx context.Context, gatewayAccountID, correlationID string) (*onboarding.SetupProgress, error) {
	resp, err := c.doLegacy(ctx, clients.Request{
		Method:        http.MethodGet,
		Path:          c.paths.StripeAccountSetup,
		PathParams:    map[string]string{"accountId": gatewayAccountID},
		CorrelationID: correlationID,
		Description:   "get stripe account setup flags for gateway account",
		Transform: func(body []byte) (any, error) {
			return clients.DecodeJSON[onboarding.SetupProgress](body)
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.(*onboarding.SetupProgress), nil
}

// SetStripeAccountSetupFlag marks one setup flag true for a gateway
// account. Flags are monotonic so repeating the call is a no-op upstream.
func (c *Client) SetStripeAccountSetupFlag(ctx context.Context, gatewayAccountID string, flag onboarding.Flag, correlationID string) error {
	_, err := c.doLegacy(ctx, clients.Request{
		Method:     http.MethodPatch,
		Path:       c.paths.StripeAccountSetup,
		PathParams: map[string]string{"accountId": gatewayAccountID},
		Body: []patchOp{
			{Op: "replace", Path: string(flag), Value: true},
		},
		CorrelationID: correlationID,
		Description:   "set stripe account setup flag to true for gateway account",
	})
	return err
}

// GetStripeAccount retrieves the Stripe account id linked to a gateway
// account
func (c *Client) GetStripeAccount(ctx context.Context, gatewayAccountID, correlationID string) (*StripeAccount, error) {
	resp, err := c.doLegacy(ctx, clients.Request{
		Method:        http.MethodGet,
		Path:          c.paths.StripeAccount,
		PathParams:    map[string]string{"accountId": gatewayAccountID},
		CorrelationID: correlationID,
		Description:   "get stripe account for gateway account",
		Transform: func(body []byte) (any, error) {
			return clients.DecodeJSON[StripeAccount](body)
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data.(*StripeAccount), nil
}

// patchAccount applies one JSON-Patch operation to the account resource
func (c *Client) patchAccount(ctx context.Context, gatewayAccountID string, op patchOp, correlationID, description string) error {
	_, err := c.transport.Do(ctx, clients.Request{
		Method:        http.MethodPatch,
		Path:          c.paths.AccountAPI,
		PathParams:    map[string]string{"accountId": gatewayAccountID},
		Body:          op,
		CorrelationID: correlationID,
		Description:   description,
	})
	return err
}

// ToggleApplePay enables or disables Apple Pay for the account
func (c *Client) ToggleApplePay(ctx context.Context, gatewayAccountID string, allow bool, correlationID string) error {
	return c.patchAccount(ctx, gatewayAccountID,
		patchOp{Op: "replace", Path: "allow_apple_pay", Value: allow},
		correlationID, "toggle allow apple pay")
}

// ToggleGooglePay enables or disables Google Pay for the account
func (c *Client) ToggleGooglePay(ctx context.Context, gatewayAccountID string, allow bool, correlationID string) error {
	return c.patchAccount(ctx, gatewayAccountID,
		patchOp{Op: "replace", Path: "allow_google_pay", Value: allow},
		correlationID, "toggle allow google pay")
}

// ToggleMotoMaskCardNumberInput toggles card number masking for MOTO payments
func (c *Client) ToggleMotoMaskCardNumberInput(ctx context.Context, gatewayAccountID string, mask bool, correlationID string) error {
	return c.patchAccount(ctx, gatewayAccountID,
		patchOp{Op: "replace", Path: "moto_mask_card_number_input", Value: mask},
		correlationID, "toggle gateway account card number masking setting")
}

// ToggleMotoMaskSecurityCodeInput toggles security code masking for MOTO payments
func (c *Client) ToggleMotoMaskSecurityCodeInput(ctx context.Context, gatewayAccountID string, mask bool, correlationID string) error {
	return c.patchAccount(ctx, gatewayAccountID,
		patchOp{Op: "replace", Path: "moto_mask_card_security_code_input", Value: mask},
		correlationID, "toggle gateway account card security code masking setting")
}

// SetGatewayMerchantID sets the Google Pay gateway merchant id on the
// account's credentials
func (c *Client) SetGatewayMerchantID(ctx context.Context, gatewayAccountID, merchantID, correlationID string) error {
	return c.patchAccount(ctx, gatewayAccountID,
		patchOp{Op: "add", Path: "credentials/gateway_merchant_id", Value: merchantID},
		correlationID, "set gateway merchant id")
}

// UpdateIntegrationVersion3DS sets the 3DS integration version used when
// authorising with the gateway
func (c *Client) UpdateIntegrationVersion3DS(ctx context.Context, gatewayAccountID string, version int, correlationID string) error {
	return c.patchAccount(ctx, gatewayAccountID,
		patchOp{Op: "replace", Path: "integration_version_3ds", Value: version},
		correlationID, "set the 3DS integration version to use when authorising with the gateway")
}
