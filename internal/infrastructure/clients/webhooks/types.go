package webhooks

// Webhook is a single outbound event subscription held by the webhooks
// service for a merchant service.
type Webhook struct {
	ExternalID       string   `json:"external_id"`
	ServiceID        string   `json:"service_id"`
	GatewayAccountID string   `json:"gateway_account_id"`
	Live             bool     `json:"live"`
	CallbackURL      string   `json:"callback_url"`
	Description      string   `json:"description"`
	Status           string   `json:"status"`
	Subscriptions    []string `json:"subscriptions"`
	CreatedDate      string   `json:"created_date,omitempty"`
}

// CreateWebhookRequest is the payload for registering a new webhook.
type CreateWebhookRequest struct {
	ServiceID        string   `json:"service_id"`
	GatewayAccountID string   `json:"gateway_account_id"`
	Live             bool     `json:"live"`
	CallbackURL      string   `json:"callback_url"`
	Description      string   `json:"description"`
	Subscriptions    []string `json:"subscriptions"`
}

// UpdateWebhookRequest carries the mutable webhook attributes. Zero-value
// fields are skipped when building the patch document.
type UpdateWebhookRequest struct {
	CallbackURL   string
	Description   string
	Status        string
	Subscriptions []string
}

// SigningSecret is the shared secret merchants use to verify webhook
// message signatures.
type SigningSecret struct {
	SigningKey string `json:"signing_key"`
}

type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}
