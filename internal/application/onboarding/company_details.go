package onboarding

import (
	"context"

	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/form"
	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/domain/validation"
	"github.com/selfservice/portal/internal/infrastructure/stripe"
)

// Company identifier form fields
const (
	FieldVATNumber     = "vat-number"
	FieldCompanyNumber = "company-number"
)

// CompanyDetailsService collects the merchant's VAT registration number and
// Companies House number, recording each on the connected Stripe account.
// The two identifiers are separate onboarding steps with separate flags.
type CompanyDetailsService struct {
	connector ConnectorClient
	stripe    StripeAdapter
	logger    *zap.Logger
	vatFlow   stepFlow
	numFlow   stepFlow
}

// NewCompanyDetailsService creates the company-identifier step service
func NewCompanyDetailsService(connectorClient ConnectorClient, stripeAdapter StripeAdapter, logger *zap.Logger) *CompanyDetailsService {
	return &CompanyDetailsService{
		connector: connectorClient,
		stripe:    stripeAdapter,
		logger:    logger,
		vatFlow: stepFlow{
			flag: onboarding.FlagVATNumber,
			fields: []form.Field{
				{Name: FieldVATNumber, Validate: vatNumberField},
			},
			formView:  "stripe-setup/vat-number/index",
			checkView: "stripe-setup/vat-number/check-your-answers",
		},
		numFlow: stepFlow{
			flag: onboarding.FlagCompanyNumber,
			fields: []form.Field{
				{Name: FieldCompanyNumber, Validate: companyNumberField},
			},
			formView:  "stripe-setup/company-number/index",
			checkView: "stripe-setup/company-number/check-your-answers",
		},
	}
}

// ShowVATNumber gates and renders the VAT number form
func (s *CompanyDetailsService) ShowVATNumber(progress *onboarding.SetupProgress) (*StepOutcome, error) {
	return s.vatFlow.show(progress)
}

// SubmitVATNumber runs the VAT number step state machine
func (s *CompanyDetailsService) SubmitVATNumber(ctx context.Context, req StepRequest) (*StepOutcome, error) {
	hooks := stepHooks{
		confirm: func(ctx context.Context, values form.Values) error {
			return s.updateCompany(ctx, req, stripe.CompanyInput{
				VATNumber: values.Get(FieldVATNumber),
			})
		},
	}

	return s.vatFlow.submit(ctx, req, hooks, func(ctx context.Context) error {
		return s.connector.SetStripeAccountSetupFlag(ctx, req.GatewayAccountID, onboarding.FlagVATNumber, req.CorrelationID)
	})
}

// ShowCompanyNumber gates and renders the company number form
func (s *CompanyDetailsService) ShowCompanyNumber(progress *onboarding.SetupProgress) (*StepOutcome, error) {
	return s.numFlow.show(progress)
}

// SubmitCompanyNumber runs the company number step state machine
func (s *CompanyDetailsService) SubmitCompanyNumber(ctx context.Context, req StepRequest) (*StepOutcome, error) {
	hooks := stepHooks{
		confirm: func(ctx context.Context, values form.Values) error {
			return s.updateCompany(ctx, req, stripe.CompanyInput{
				CompanyNumber: values.Get(FieldCompanyNumber),
			})
		},
	}

	return s.numFlow.submit(ctx, req, hooks, func(ctx context.Context) error {
		return s.connector.SetStripeAccountSetupFlag(ctx, req.GatewayAccountID, onboarding.FlagCompanyNumber, req.CorrelationID)
	})
}

func (s *CompanyDetailsService) updateCompany(ctx context.Context, req StepRequest, input stripe.CompanyInput) error {
	account, err := s.connector.GetStripeAccount(ctx, req.GatewayAccountID, req.CorrelationID)
	if err != nil {
		return err
	}

	if err := s.stripe.UpdateCompany(ctx, account.StripeAccountID, input); err != nil {
		return err
	}

	s.logger.Info("Updated company identifiers",
		zap.String("gateway_account_id", req.GatewayAccountID),
		zap.String("correlation_id", req.CorrelationID))
	return nil
}

func vatNumberField(value string, _ int) validation.Result {
	return validation.VATNumber(value)
}

func companyNumberField(value string, _ int) validation.Result {
	return validation.CompanyNumber(value)
}
