// Package settings exposes the gateway account configuration the portal
// lets merchants change: wallet payments, MOTO input masking, the 3DS
// integration version, the Google Pay merchant id and gateway credentials.
package settings

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/shared"
	"github.com/selfservice/portal/internal/infrastructure/clients/connector"
)

// Supported 3DS integration versions
const (
	IntegrationVersion3DS1 = 1
	IntegrationVersion3DS2 = 2
)

// gatewayMerchantIDPattern matches the identifier Google issues for a
// payment gateway integration
var gatewayMerchantIDPattern = regexp.MustCompile(`^[0-9a-f]{15,16}$`)

var (
	errMerchantIDNotValid = shared.NewDomainError("GATEWAY_MERCHANT_ID_NOT_VALID",
		"Enter a valid Google Pay merchant ID")
	errVersion3DSNotValid = shared.NewDomainError("INTEGRATION_VERSION_3DS_NOT_VALID",
		"3DS integration version must be 1 or 2")
	errCredentialsNotValid = shared.NewDomainError("CREDENTIALS_NOT_VALID",
		"Enter a merchant code, username and password")
	errCredentialsNotSupported = shared.NewDomainError("CREDENTIALS_NOT_SUPPORTED",
		"Credentials cannot be changed for this payment provider")
)

// credentialProviders are the providers whose accounts hold merchant
// credentials the portal can change
var credentialProviders = map[string]bool{
	"worldpay": true,
	"smartpay": true,
	"epdq":     true,
}

// ConnectorClient is the subset of connector operations settings use
type ConnectorClient interface {
	GetAccount(ctx context.Context, params connector.GetAccountParams) (*connector.Account, error)
	PatchAccountCredentials(ctx context.Context, params connector.PatchCredentialsParams) error
	ToggleApplePay(ctx context.Context, gatewayAccountID string, allow bool, correlationID string) error
	ToggleGooglePay(ctx context.Context, gatewayAccountID string, allow bool, correlationID string) error
	ToggleMotoMaskCardNumberInput(ctx context.Context, gatewayAccountID string, mask bool, correlationID string) error
	ToggleMotoMaskSecurityCodeInput(ctx context.Context, gatewayAccountID string, mask bool, correlationID string) error
	SetGatewayMerchantID(ctx context.Context, gatewayAccountID, merchantID, correlationID string) error
	UpdateIntegrationVersion3DS(ctx context.Context, gatewayAccountID string, version int, correlationID string) error
}

// Service applies gateway account setting changes through the connector
type Service struct {
	connector ConnectorClient
	logger    *zap.Logger
}

// NewService creates the settings service
func NewService(connectorClient ConnectorClient, logger *zap.Logger) *Service {
	return &Service{connector: connectorClient, logger: logger}
}

// SetApplePayEnabled turns Apple Pay on or off for the account
func (s *Service) SetApplePayEnabled(ctx context.Context, gatewayAccountID string, enabled bool, correlationID string) error {
	if err := s.connector.ToggleApplePay(ctx, gatewayAccountID, enabled, correlationID); err != nil {
		return err
	}
	s.logToggle("apple pay", gatewayAccountID, enabled, correlationID)
	return nil
}

// SetGooglePayEnabled turns Google Pay on or off for the account
func (s *Service) SetGooglePayEnabled(ctx context.Context, gatewayAccountID string, enabled bool, correlationID string) error {
	if err := s.connector.ToggleGooglePay(ctx, gatewayAccountID, enabled, correlationID); err != nil {
		return err
	}
	s.logToggle("google pay", gatewayAccountID, enabled, correlationID)
	return nil
}

// SetMotoMaskCardNumber controls whether MOTO card number input is hidden
// from call-centre agents as it is typed
func (s *Service) SetMotoMaskCardNumber(ctx context.Context, gatewayAccountID string, mask bool, correlationID string) error {
	if err := s.connector.ToggleMotoMaskCardNumberInput(ctx, gatewayAccountID, mask, correlationID); err != nil {
		return err
	}
	s.logToggle("moto mask card number", gatewayAccountID, mask, correlationID)
	return nil
}

// SetMotoMaskSecurityCode controls whether MOTO security code input is
// hidden from call-centre agents as it is typed
func (s *Service) SetMotoMaskSecurityCode(ctx context.Context, gatewayAccountID string, mask bool, correlationID string) error {
	if err := s.connector.ToggleMotoMaskSecurityCodeInput(ctx, gatewayAccountID, mask, correlationID); err != nil {
		return err
	}
	s.logToggle("moto mask security code", gatewayAccountID, mask, correlationID)
	return nil
}

// CredentialsInput carries a gateway credentials change
type CredentialsInput struct {
	MerchantID string
	Username   string
	Password   string
}

// UpdateCredentials replaces the account's gateway credentials. Only
// credential-holding providers accept the change; the account's provider
// is checked before anything is sent.
func (s *Service) UpdateCredentials(ctx context.Context, gatewayAccountID string, input CredentialsInput, correlationID string) error {
	if strings.TrimSpace(input.MerchantID) == "" ||
		strings.TrimSpace(input.Username) == "" ||
		input.Password == "" {
		return errCredentialsNotValid
	}

	account, err := s.connector.GetAccount(ctx, connector.GetAccountParams{
		GatewayAccountID: gatewayAccountID,
		CorrelationID:    correlationID,
	})
	if err != nil {
		return err
	}
	if !credentialProviders[account.PaymentProvider] {
		return errCredentialsNotSupported
	}

	if err := s.connector.PatchAccountCredentials(ctx, connector.PatchCredentialsParams{
		GatewayAccountID: gatewayAccountID,
		Payload: connector.Credentials{
			MerchantID: strings.TrimSpace(input.MerchantID),
			Username:   strings.TrimSpace(input.Username),
			Password:   input.Password,
		},
		CorrelationID: correlationID,
	}); err != nil {
		return err
	}
	s.logger.Info("Updated gateway credentials",
		zap.String("gateway_account_id", gatewayAccountID),
		zap.String("payment_provider", account.PaymentProvider),
		zap.String("correlation_id", correlationID))
	return nil
}

// SetGatewayMerchantID records the merchant's Google Pay gateway merchant id
func (s *Service) SetGatewayMerchantID(ctx context.Context, gatewayAccountID, merchantID, correlationID string) error {
	if !gatewayMerchantIDPattern.MatchString(merchantID) {
		return errMerchantIDNotValid
	}
	if err := s.connector.SetGatewayMerchantID(ctx, gatewayAccountID, merchantID, correlationID); err != nil {
		return err
	}
	s.logger.Info("Updated gateway merchant id",
		zap.String("gateway_account_id", gatewayAccountID),
		zap.String("correlation_id", correlationID))
	return nil
}

// SetIntegrationVersion3DS switches the account between 3DS1 and 3DS2
func (s *Service) SetIntegrationVersion3DS(ctx context.Context, gatewayAccountID string, version int, correlationID string) error {
	if version != IntegrationVersion3DS1 && version != IntegrationVersion3DS2 {
		return errVersion3DSNotValid
	}
	if err := s.connector.UpdateIntegrationVersion3DS(ctx, gatewayAccountID, version, correlationID); err != nil {
		return err
	}
	s.logger.Info("Updated 3DS integration version",
		zap.String("gateway_account_id", gatewayAccountID),
		zap.Int("version", version),
		zap.String("correlation_id", correlationID))
	return nil
}

func (s *Service) logToggle(setting, gatewayAccountID string, value bool, correlationID string) {
	s.logger.Info("Updated account setting",
		zap.String("setting", setting),
		zap.Bool("enabled", value),
		zap.String("gateway_account_id", gatewayAccountID),
		zap.String("correlation_id", correlationID))
}
