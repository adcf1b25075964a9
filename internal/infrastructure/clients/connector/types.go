package connector

import "github.com/selfservice/portal/internal/domain/onboarding"

// Account is the gateway account resource owned by the connector
type Account struct {
	GatewayAccountID          string `json:"gateway_account_id"`
	ExternalID                string `json:"external_id"`
	Type                      string `json:"type"`
	PaymentProvider           string `json:"payment_provider"`
	ServiceName               string `json:"service_name"`
	Live                      bool   `json:"live"`
	RequiresAdditionalKYCData bool   `json:"requires_additional_kyc_data"`

	// StripeSetupProgress is attached by the account-context middleware
	// after a separate stripe-setup fetch; the connector does not embed it.
	StripeSetupProgress *onboarding.SetupProgress `json:"-"`
}

// StripeAccount wraps the connector's stripe-account resource
type StripeAccount struct {
	StripeAccountID string `json:"stripe_account_id"`
}

// Credentials is the payload for patching gateway account credentials
type Credentials struct {
	Username          string `json:"username,omitempty"`
	Password          string `json:"password,omitempty"`
	MerchantID        string `json:"merchant_id,omitempty"`
	ShaInPassphrase   string `json:"sha_in_passphrase,omitempty"`
	ShaOutPassphrase  string `json:"sha_out_passphrase,omitempty"`
	GatewayMerchantID string `json:"gateway_merchant_id,omitempty"`
}

// RefundRequest is the payload for submitting a refund against a charge.
// Amounts are in pence.
type RefundRequest struct {
	Amount                int64 `json:"amount"`
	RefundAmountAvailable int64 `json:"refund_amount_available"`
}

// patchOp is the JSON-Patch-like envelope used for partial updates to the
// account resource
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}
