package onboarding

import (
	"context"

	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/form"
	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/domain/validation"
	"github.com/selfservice/portal/internal/infrastructure/stripe"
)

// Bank details form fields
const (
	FieldSortCode      = "sort-code"
	FieldAccountNumber = "account-number"
)

// BankDetailsService collects the merchant's payout bank account and
// attaches it to the connected Stripe account.
type BankDetailsService struct {
	connector ConnectorClient
	stripe    StripeAdapter
	logger    *zap.Logger
	flow      stepFlow
}

// NewBankDetailsService creates the bank-details step service
func NewBankDetailsService(connectorClient ConnectorClient, stripeAdapter StripeAdapter, logger *zap.Logger) *BankDetailsService {
	return &BankDetailsService{
		connector: connectorClient,
		stripe:    stripeAdapter,
		logger:    logger,
		flow: stepFlow{
			flag: onboarding.FlagBankAccount,
			fields: []form.Field{
				{Name: FieldSortCode, Validate: sortCodeField},
				{Name: FieldAccountNumber, Validate: accountNumberField},
			},
			formView:  "stripe-setup/bank-details/index",
			checkView: "stripe-setup/bank-details/check-your-answers",
		},
	}
}

// Show gates and renders the collection form
func (s *BankDetailsService) Show(progress *onboarding.SetupProgress) (*StepOutcome, error) {
	return s.flow.show(progress)
}

// Submit runs the step state machine. A confirmed submission sets the
// external bank account on the connected Stripe account.
func (s *BankDetailsService) Submit(ctx context.Context, req StepRequest) (*StepOutcome, error) {
	hooks := stepHooks{
		confirm: func(ctx context.Context, values form.Values) error {
			bankAccount, err := stripe.NewBankAccount(
				values.Get(FieldSortCode),
				values.Get(FieldAccountNumber),
			)
			if err != nil {
				return err
			}

			account, err := s.connector.GetStripeAccount(ctx, req.GatewayAccountID, req.CorrelationID)
			if err != nil {
				return err
			}

			if err := s.stripe.SetBankAccount(ctx, account.StripeAccountID, bankAccount); err != nil {
				return err
			}

			s.logger.Info("Attached payout bank account",
				zap.String("gateway_account_id", req.GatewayAccountID),
				zap.String("correlation_id", req.CorrelationID))
			return nil
		},
	}

	return s.flow.submit(ctx, req, hooks, func(ctx context.Context) error {
		return s.connector.SetStripeAccountSetupFlag(ctx, req.GatewayAccountID, onboarding.FlagBankAccount, req.CorrelationID)
	})
}

func sortCodeField(value string, _ int) validation.Result {
	return validation.SortCode(value)
}

func accountNumberField(value string, _ int) validation.Result {
	return validation.AccountNumber(value)
}
