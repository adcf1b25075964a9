package onboarding

import (
	"context"

	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/form"
	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/domain/validation"
)

// Organisation details form fields
const (
	FieldAddressLine1    = "address-line1"
	FieldAddressLine2    = "address-line2"
	FieldAddressCity     = "address-city"
	FieldAddressCountry  = "address-country"
	FieldAddressPostcode = "address-postcode"
	FieldTelephoneNumber = "telephone-number"
)

// OrganisationDetailsService collects the merchant's registered organisation
// address and contact number. Completion is recorded on the connector only;
// no Stripe resource is created for this step.
type OrganisationDetailsService struct {
	connector ConnectorClient
	logger    *zap.Logger
	flow      stepFlow
}

// NewOrganisationDetailsService creates the organisation-details step service
func NewOrganisationDetailsService(connectorClient ConnectorClient, logger *zap.Logger) *OrganisationDetailsService {
	return &OrganisationDetailsService{
		connector: connectorClient,
		logger:    logger,
		flow: stepFlow{
			flag: onboarding.FlagOrganisationDetails,
			fields: []form.Field{
				{Name: FieldAddressLine1, MaxLength: 200, Validate: validation.MandatoryField},
				{Name: FieldAddressLine2, MaxLength: 200, Validate: validation.OptionalField},
				{Name: FieldAddressCity, MaxLength: 100, Validate: validation.MandatoryField},
				{Name: FieldAddressCountry, MaxLength: 2, Validate: validation.MandatoryField},
				{Name: FieldAddressPostcode, Validate: postcodeField},
				{Name: FieldTelephoneNumber, Validate: phoneNumberField},
			},
			formView:  "stripe-setup/organisation-details/index",
			checkView: "stripe-setup/organisation-details/check-your-answers",
		},
	}
}

// Show gates and renders the collection form
func (s *OrganisationDetailsService) Show(progress *onboarding.SetupProgress) (*StepOutcome, error) {
	return s.flow.show(progress)
}

// Submit runs the step state machine
func (s *OrganisationDetailsService) Submit(ctx context.Context, req StepRequest) (*StepOutcome, error) {
	hooks := stepHooks{
		confirm: func(ctx context.Context, values form.Values) error {
			s.logger.Info("Recorded organisation details",
				zap.String("gateway_account_id", req.GatewayAccountID),
				zap.String("correlation_id", req.CorrelationID))
			return nil
		},
	}

	return s.flow.submit(ctx, req, hooks, func(ctx context.Context) error {
		return s.connector.SetStripeAccountSetupFlag(ctx, req.GatewayAccountID, onboarding.FlagOrganisationDetails, req.CorrelationID)
	})
}

func phoneNumberField(value string, _ int) validation.Result {
	return validation.PhoneNumber(value)
}
