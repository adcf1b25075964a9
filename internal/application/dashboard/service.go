// Package dashboard assembles the merchant dashboard view: the gateway
// account, its Stripe onboarding progress and whether the additional-KYC
// banner should show.
package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/infrastructure/clients/connector"
)

const stripeProvider = "stripe"

// ConnectorClient is the subset of connector operations the dashboard uses
type ConnectorClient interface {
	GetAccountByExternalID(ctx context.Context, externalID, correlationID string) (*connector.Account, error)
	GetStripeAccountSetup(ctx context.Context, gatewayAccountID, correlationID string) (*onboarding.SetupProgress, error)
	GetStripeAccount(ctx context.Context, gatewayAccountID, correlationID string) (*connector.StripeAccount, error)
}

// ViewRequest identifies whose dashboard to assemble
type ViewRequest struct {
	AccountExternalID string
	CorrelationID     string
}

// View is the assembled dashboard page data. SetupProgress and
// StripeAccountID are only populated for Stripe accounts.
type View struct {
	Account          *connector.Account
	SetupProgress    *onboarding.SetupProgress
	StripeAccountID  string
	OutstandingSteps []onboarding.Flag
	ShowKYCBanner    bool
}

// Service builds the dashboard view
type Service struct {
	connector ConnectorClient
	logger    *zap.Logger
}

// NewService creates the dashboard service
func NewService(connectorClient ConnectorClient, logger *zap.Logger) *Service {
	return &Service{connector: connectorClient, logger: logger}
}

// View loads the account and, for Stripe accounts, its onboarding state.
// The setup-progress and Stripe-account lookups run concurrently; when one
// fails the other is allowed to finish and its result is discarded.
func (s *Service) View(ctx context.Context, req ViewRequest) (*View, error) {
	account, err := s.connector.GetAccountByExternalID(ctx, req.AccountExternalID, req.CorrelationID)
	if err != nil {
		return nil, err
	}

	view := &View{Account: account}
	if account.PaymentProvider != stripeProvider {
		return view, nil
	}

	var (
		wg          sync.WaitGroup
		progress    *onboarding.SetupProgress
		progressErr error
		stripeAcct  *connector.StripeAccount
		stripeErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		progress, progressErr = s.connector.GetStripeAccountSetup(ctx, account.GatewayAccountID, req.CorrelationID)
	}()
	go func() {
		defer wg.Done()
		stripeAcct, stripeErr = s.connector.GetStripeAccount(ctx, account.GatewayAccountID, req.CorrelationID)
	}()
	wg.Wait()

	if progressErr != nil {
		return nil, progressErr
	}
	if stripeErr != nil {
		return nil, stripeErr
	}

	view.SetupProgress = progress
	view.StripeAccountID = stripeAcct.StripeAccountID
	view.OutstandingSteps = progress.Outstanding()
	view.ShowKYCBanner = account.RequiresAdditionalKYCData && len(view.OutstandingSteps) > 0

	if view.ShowKYCBanner {
		s.logger.Debug("Additional KYC data outstanding",
			zap.String("gateway_account_id", account.GatewayAccountID),
			zap.Int("outstanding_steps", len(view.OutstandingSteps)),
			zap.String("correlation_id", req.CorrelationID))
	}

	return view, nil
}
