package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/infrastructure/clients/connector"
)

type stubConnector struct {
	account     *connector.Account
	accountErr  error
	progress    *onboarding.SetupProgress
	progressErr error
	stripeAcct  *connector.StripeAccount
	stripeErr   error

	setupCalls  int
	stripeCalls int
}

func (c *stubConnector) GetAccountByExternalID(_ context.Context, _, _ string) (*connector.Account, error) {
	return c.account, c.accountErr
}

func (c *stubConnector) GetStripeAccountSetup(_ context.Context, _, _ string) (*onboarding.SetupProgress, error) {
	c.setupCalls++
	return c.progress, c.progressErr
}

func (c *stubConnector) GetStripeAccount(_ context.Context, _, _ string) (*connector.StripeAccount, error) {
	c.stripeCalls++
	return c.stripeAcct, c.stripeErr
}

func stripeAccountFixture(kyc bool) *connector.Account {
	return &connector.Account{
		GatewayAccountID:          "42",
		ExternalID:                "ext-id-1",
		PaymentProvider:           "stripe",
		RequiresAdditionalKYCData: kyc,
	}
}

func TestViewNonStripeAccountSkipsOnboardingLookups(t *testing.T) {
	conn := &stubConnector{
		account: &connector.Account{GatewayAccountID: "42", PaymentProvider: "sandbox"},
	}
	svc := NewService(conn, zap.NewNop())

	view, err := svc.View(context.Background(), ViewRequest{AccountExternalID: "ext-id-1"})

	require.NoError(t, err)
	assert.Nil(t, view.SetupProgress)
	assert.False(t, view.ShowKYCBanner)
	assert.Zero(t, conn.setupCalls)
	assert.Zero(t, conn.stripeCalls)
}

func TestViewStripeAccountAssemblesOnboardingState(t *testing.T) {
	conn := &stubConnector{
		account:    stripeAccountFixture(true),
		progress:   &onboarding.SetupProgress{BankAccount: true, VATNumber: true},
		stripeAcct: &connector.StripeAccount{StripeAccountID: "acct_123abc"},
	}
	svc := NewService(conn, zap.NewNop())

	view, err := svc.View(context.Background(), ViewRequest{AccountExternalID: "ext-id-1"})

	require.NoError(t, err)
	assert.Equal(t, "acct_123abc", view.StripeAccountID)
	assert.True(t, view.ShowKYCBanner)
	assert.Equal(t, []onboarding.Flag{
		onboarding.FlagResponsiblePerson,
		onboarding.FlagCompanyNumber,
		onboarding.FlagOrganisationDetails,
		onboarding.FlagGovernmentEntityDocument,
	}, view.OutstandingSteps)
	assert.Equal(t, 1, conn.setupCalls)
	assert.Equal(t, 1, conn.stripeCalls)
}

func TestViewNoBannerWhenKYCNotRequired(t *testing.T) {
	conn := &stubConnector{
		account:    stripeAccountFixture(false),
		progress:   &onboarding.SetupProgress{},
		stripeAcct: &connector.StripeAccount{StripeAccountID: "acct_123abc"},
	}
	svc := NewService(conn, zap.NewNop())

	view, err := svc.View(context.Background(), ViewRequest{AccountExternalID: "ext-id-1"})

	require.NoError(t, err)
	assert.False(t, view.ShowKYCBanner)
	assert.Len(t, view.OutstandingSteps, 6)
}

func TestViewNoBannerWhenAllStepsComplete(t *testing.T) {
	conn := &stubConnector{
		account: stripeAccountFixture(true),
		progress: &onboarding.SetupProgress{
			BankAccount:              true,
			OrganisationDetails:      true,
			ResponsiblePerson:        true,
			VATNumber:                true,
			CompanyNumber:            true,
			GovernmentEntityDocument: true,
		},
		stripeAcct: &connector.StripeAccount{StripeAccountID: "acct_123abc"},
	}
	svc := NewService(conn, zap.NewNop())

	view, err := svc.View(context.Background(), ViewRequest{AccountExternalID: "ext-id-1"})

	require.NoError(t, err)
	assert.False(t, view.ShowKYCBanner)
	assert.Empty(t, view.OutstandingSteps)
}

func TestViewAccountLookupErrorPropagates(t *testing.T) {
	conn := &stubConnector{accountErr: assert.AnError}
	svc := NewService(conn, zap.NewNop())

	view, err := svc.View(context.Background(), ViewRequest{AccountExternalID: "ext-id-1"})

	assert.Nil(t, view)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestViewOnboardingLookupErrorPropagates(t *testing.T) {
	conn := &stubConnector{
		account:     stripeAccountFixture(true),
		progressErr: assert.AnError,
		stripeAcct:  &connector.StripeAccount{StripeAccountID: "acct_123abc"},
	}
	svc := NewService(conn, zap.NewNop())

	view, err := svc.View(context.Background(), ViewRequest{AccountExternalID: "ext-id-1"})

	assert.Nil(t, view)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, conn.stripeCalls)
}
