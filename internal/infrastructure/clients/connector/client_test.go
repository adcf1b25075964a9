package connector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/infrastructure/clients"
)

type recordedRequest struct {
	method string
	path   string
	body   []byte
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	transport := clients.New(ServiceName, server.URL, 5*time.Second, zap.NewNop())
	return NewClient(transport, DefaultPaths()), server
}

func TestGetAccount(t *testing.T) {
	var got recordedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = recordedRequest{method: r.Method, path: r.URL.Path}
		_, _ = w.Write([]byte(`{
			"gateway_account_id": "42",
			"external_id": "a-valid-external-id",
			"type": "live",
			"payment_provider": "stripe",
			"requires_additional_kyc_data": true
		}`))
	})

	account, err := client.GetAccount(context.Background(), GetAccountParams{
		GatewayAccountID: "42",
		CorrelationID:    "corr-1",
	})

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/v1/frontend/accounts/42", got.path)
	assert.Equal(t, "42", account.GatewayAccountID)
	assert.Equal(t, "stripe", account.PaymentProvider)
	assert.True(t, account.RequiresAdditionalKYCData)
}

func TestGetAccountByExternalID(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"gateway_account_id":"42","external_id":"ext-1"}`))
	})

	account, err := client.GetAccountByExternalID(context.Background(), "ext-1", "corr-2")

	require.NoError(t, err)
	assert.Equal(t, "/v1/api/accounts/external-id/ext-1", gotPath)
	assert.Equal(t, "ext-1", account.ExternalID)
}

func TestGetStripeAccountSetup(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/accounts/42/stripe-setup", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"bank_account": true,
			"organisation_details": false,
			"responsible_person": true,
			"vat_number": false,
			"company_number": false,
			"government_entity_document": false
		}`))
	})

	progress, err := client.GetStripeAccountSetup(context.Background(), "42", "corr-3")

	require.NoError(t, err)
	assert.True(t, progress.BankAccount)
	assert.True(t, progress.ResponsiblePerson)
	assert.False(t, progress.OrganisationDetails)
}

func TestSetStripeAccountSetupFlag(t *testing.T) {
	var got recordedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = recordedRequest{method: r.Method, path: r.URL.Path, body: body}
		w.WriteHeader(http.StatusOK)
	})

	err := client.SetStripeAccountSetupFlag(context.Background(), "42", onboarding.FlagResponsiblePerson, "corr-4")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "/v1/api/accounts/42/stripe-setup", got.path)
	assert.JSONEq(t, `[{"op":"replace","path":"responsible_person","value":true}]`, string(got.body))
}

func TestSetStripeAccountSetupFlagIsIdempotentForCaller(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.SetStripeAccountSetupFlag(context.Background(), "42", onboarding.FlagBankAccount, "corr-5"))
	require.NoError(t, client.SetStripeAccountSetupFlag(context.Background(), "42", onboarding.FlagBankAccount, "corr-5"))
	assert.Equal(t, 2, calls)
}

func TestGetStripeAccount(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/accounts/42/stripe-account", r.URL.Path)
		_, _ = w.Write([]byte(`{"stripe_account_id":"acct_123example123"}`))
	})

	account, err := client.GetStripeAccount(context.Background(), "42", "corr-6")

	require.NoError(t, err)
	assert.Equal(t, "acct_123example123", account.StripeAccountID)
}

func TestPostChargeRefund(t *testing.T) {
	var got recordedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = recordedRequest{method: r.Method, path: r.URL.Path, body: body}
		w.WriteHeader(http.StatusAccepted)
	})

	err := client.PostChargeRefund(context.Background(), PostChargeRefundParams{
		GatewayAccountID: "42",
		ChargeID:         "ch_123",
		Payload:          RefundRequest{Amount: 1050, RefundAmountAvailable: 5000},
		CorrelationID:    "corr-7",
	})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/v1/api/accounts/42/charges/ch_123/refunds", got.path)
	assert.JSONEq(t, `{"amount":1050,"refund_amount_available":5000}`, string(got.body))
}

func TestAccountPatchOperations(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		wantBody map[string]any
	}{
		{
			name: "toggle apple pay",
			call: func(c *Client) error {
				return c.ToggleApplePay(context.Background(), "42", true, "corr")
			},
			wantBody: map[string]any{"op": "replace", "path": "allow_apple_pay", "value": true},
		},
		{
			name: "toggle google pay",
			call: func(c *Client) error {
				return c.ToggleGooglePay(context.Background(), "42", false, "corr")
			},
			wantBody: map[string]any{"op": "replace", "path": "allow_google_pay", "value": false},
		},
		{
			name: "toggle moto card number masking",
			call: func(c *Client) error {
				return c.ToggleMotoMaskCardNumberInput(context.Background(), "42", true, "corr")
			},
			wantBody: map[string]any{"op": "replace", "path": "moto_mask_card_number_input", "value": true},
		},
		{
			name: "toggle moto security code masking",
			call: func(c *Client) error {
				return c.ToggleMotoMaskSecurityCodeInput(context.Background(), "42", true, "corr")
			},
			wantBody: map[string]any{"op": "replace", "path": "moto_mask_card_security_code_input", "value": true},
		},
		{
			name: "set gateway merchant id",
			call: func(c *Client) error {
				return c.SetGatewayMerchantID(context.Background(), "42", "merchant-1", "corr")
			},
			wantBody: map[string]any{"op": "add", "path": "credentials/gateway_merchant_id", "value": "merchant-1"},
		},
		{
			name: "update 3ds integration version",
			call: func(c *Client) error {
				return c.UpdateIntegrationVersion3DS(context.Background(), "42", 2, "corr")
			},
			wantBody: map[string]any{"op": "replace", "path": "integration_version_3ds", "value": float64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got recordedRequest
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				got = recordedRequest{method: r.Method, path: r.URL.Path, body: body}
				w.WriteHeader(http.StatusOK)
			})

			require.NoError(t, tt.call(client))
			assert.Equal(t, http.MethodPatch, got.method)
			assert.Equal(t, "/v1/api/accounts/42", got.path)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(got.body, &decoded))
			assert.Equal(t, tt.wantBody, decoded)
		})
	}
}

func TestStripeSetupCallsAccept202(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	err := client.SetStripeAccountSetupFlag(context.Background(), "42", onboarding.FlagVATNumber, "corr-9")

	require.NoError(t, err)
}

func TestStripeSetupCallsClassifyConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	transport := clients.New(ServiceName, server.URL, time.Second, zap.NewNop())
	client := NewClient(transport, DefaultPaths())

	_, err := client.GetStripeAccount(context.Background(), "42", "corr-10")

	var transportErr *clients.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, ServiceName, transportErr.Service)
	assert.Equal(t, "corr-10", transportErr.CorrelationID)
}

func TestConnectorErrorsPropagateClassified(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetStripeAccountSetup(context.Background(), "42", "corr-8")

	var statusErr *clients.UnexpectedStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, ServiceName, statusErr.Service)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
}
