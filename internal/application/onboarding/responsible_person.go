package onboarding

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/form"
	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/domain/validation"
	"github.com/selfservice/portal/internal/infrastructure/stripe"
)

// Responsible person form fields
const (
	FieldFirstName           = "first-name"
	FieldLastName            = "last-name"
	FieldHomeAddressLine1    = "home-address-line-1"
	FieldHomeAddressLine2    = "home-address-line-2"
	FieldHomeAddressCity     = "home-address-city"
	FieldHomeAddressPostcode = "home-address-postcode"
	FieldDOBDay              = "dob-day"
	FieldDOBMonth            = "dob-month"
	FieldDOBYear             = "dob-year"
	FieldDOB                 = "dob"
)

// ResponsiblePersonService collects the person legally responsible for the
// merchant's service and registers them on the connected Stripe account.
type ResponsiblePersonService struct {
	connector ConnectorClient
	stripe    StripeAdapter
	logger    *zap.Logger
	flow      stepFlow
}

// NewResponsiblePersonService creates the responsible-person step service
func NewResponsiblePersonService(connectorClient ConnectorClient, stripeAdapter StripeAdapter, logger *zap.Logger) *ResponsiblePersonService {
	return &ResponsiblePersonService{
		connector: connectorClient,
		stripe:    stripeAdapter,
		logger:    logger,
		flow: stepFlow{
			flag: onboarding.FlagResponsiblePerson,
			fields: []form.Field{
				{Name: FieldFirstName, MaxLength: 100, Validate: validation.MandatoryField},
				{Name: FieldLastName, MaxLength: 100, Validate: validation.MandatoryField},
				{Name: FieldHomeAddressLine1, MaxLength: 200, Validate: validation.MandatoryField},
				{Name: FieldHomeAddressLine2, MaxLength: 200, Validate: validation.OptionalField},
				{Name: FieldHomeAddressCity, MaxLength: 100, Validate: validation.MandatoryField},
				{Name: FieldHomeAddressPostcode, Validate: postcodeField},
			},
			extraFields: []string{FieldDOBDay, FieldDOBMonth, FieldDOBYear},
			formView:    "stripe-setup/responsible-person/index",
			checkView:   "stripe-setup/responsible-person/check-your-answers",
		},
	}
}

// Show gates and renders the collection form
func (s *ResponsiblePersonService) Show(progress *onboarding.SetupProgress) (*StepOutcome, error) {
	return s.flow.show(progress)
}

// Submit runs the step state machine. A confirmed submission creates the
// person on the connected Stripe account, then records completion on the
// connector.
func (s *ResponsiblePersonService) Submit(ctx context.Context, req StepRequest) (*StepOutcome, error) {
	hooks := stepHooks{
		crossValidate: func(values form.Values, errs *form.Errors) {
			result := validation.DateOfBirth(
				values.Get(FieldDOBDay),
				values.Get(FieldDOBMonth),
				values.Get(FieldDOBYear),
			)
			if !result.Valid {
				errs.Add(FieldDOB, result.Message)
			}
		},
		reviewData: func(values form.Values) map[string]any {
			return map[string]any{
				"friendlyDateOfBirth": onboarding.FormatDateOfBirth(
					values.Get(FieldDOBDay),
					values.Get(FieldDOBMonth),
					values.Get(FieldDOBYear),
				),
			}
		},
		confirm: func(ctx context.Context, values form.Values) error {
			account, err := s.connector.GetStripeAccount(ctx, req.GatewayAccountID, req.CorrelationID)
			if err != nil {
				return err
			}

			day, _ := strconv.Atoi(values.Get(FieldDOBDay))
			month, _ := strconv.Atoi(values.Get(FieldDOBMonth))
			year, _ := strconv.Atoi(values.Get(FieldDOBYear))

			personID, err := s.stripe.CreateResponsiblePerson(ctx, stripe.ResponsiblePersonInput{
				StripeAccountID: account.StripeAccountID,
				FirstName:       values.Get(FieldFirstName),
				LastName:        values.Get(FieldLastName),
				AddressLine1:    values.Get(FieldHomeAddressLine1),
				AddressLine2:    values.Get(FieldHomeAddressLine2),
				AddressCity:     values.Get(FieldHomeAddressCity),
				AddressPostcode: values.Get(FieldHomeAddressPostcode),
				DOBDay:          day,
				DOBMonth:        month,
				DOBYear:         year,
			})
			if err != nil {
				return err
			}

			s.logger.Info("Registered responsible person",
				zap.String("gateway_account_id", req.GatewayAccountID),
				zap.String("person_id", personID),
				zap.String("correlation_id", req.CorrelationID))
			return nil
		},
	}

	return s.flow.submit(ctx, req, hooks, func(ctx context.Context) error {
		return s.connector.SetStripeAccountSetupFlag(ctx, req.GatewayAccountID, onboarding.FlagResponsiblePerson, req.CorrelationID)
	})
}

func postcodeField(value string, _ int) validation.Result {
	return validation.Postcode(value)
}
