package onboarding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/onboarding"
)

func TestVATNumberInvalidFormat(t *testing.T) {
	svc := NewCompanyDetailsService(&stubConnector{}, &stubStripe{}, zap.NewNop())

	outcome, err := svc.SubmitVATNumber(context.Background(), StepRequest{
		GatewayAccountID: "42",
		Progress:         &onboarding.SetupProgress{},
		Form:             formWith(map[string]string{FieldVATNumber: "BADD000000000"}),
	})

	require.NoError(t, err)
	require.NotNil(t, outcome.Render)
	assert.Equal(t, "stripe-setup/vat-number/index", outcome.Render.View)

	errsByField, ok := outcome.Render.Data["errors"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Enter a valid VAT number", errsByField[FieldVATNumber])
}

func TestVATNumberFirstValidShowsCheckPage(t *testing.T) {
	svc := NewCompanyDetailsService(&stubConnector{}, &stubStripe{}, zap.NewNop())

	outcome, err := svc.SubmitVATNumber(context.Background(), StepRequest{
		GatewayAccountID: "42",
		Progress:         &onboarding.SetupProgress{},
		Form:             formWith(map[string]string{FieldVATNumber: "GB999 9999 73"}),
	})

	require.NoError(t, err)
	require.NotNil(t, outcome.Render)
	assert.Equal(t, "stripe-setup/vat-number/check-your-answers", outcome.Render.View)
}

func TestVATNumberConfirmUpdatesCompany(t *testing.T) {
	conn := &stubConnector{}
	adapter := &stubStripe{}
	svc := NewCompanyDetailsService(conn, adapter, zap.NewNop())

	outcome, err := svc.SubmitVATNumber(context.Background(), StepRequest{
		GatewayAccountID: "42",
		Progress:         &onboarding.SetupProgress{},
		Form: formWith(map[string]string{
			FieldVATNumber:                 "GB999999973",
			onboarding.FieldAnswersChecked: "true",
		}),
	})

	require.NoError(t, err)
	assert.Equal(t, DashboardPath, outcome.Redirect)
	assert.Equal(t, []onboarding.Flag{onboarding.FlagVATNumber}, conn.flags)

	assert.Equal(t, "acct_123abc", adapter.companyFor)
	assert.Equal(t, "GB999999973", adapter.companyInput.VATNumber)
	assert.Empty(t, adapter.companyInput.CompanyNumber)
}

func TestCompanyNumberInvalidFormat(t *testing.T) {
	svc := NewCompanyDetailsService(&stubConnector{}, &stubStripe{}, zap.NewNop())

	outcome, err := svc.SubmitCompanyNumber(context.Background(), StepRequest{
		GatewayAccountID: "42",
		Progress:         &onboarding.SetupProgress{},
		Form:             formWith(map[string]string{FieldCompanyNumber: "123"}),
	})

	require.NoError(t, err)
	require.NotNil(t, outcome.Render)
	assert.Equal(t, "stripe-setup/company-number/index", outcome.Render.View)

	errsByField, ok := outcome.Render.Data["errors"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Enter a valid company number", errsByField[FieldCompanyNumber])
}

func TestCompanyNumberConfirmUpdatesCompany(t *testing.T) {
	conn := &stubConnector{}
	adapter := &stubStripe{}
	svc := NewCompanyDetailsService(conn, adapter, zap.NewNop())

	outcome, err := svc.SubmitCompanyNumber(context.Background(), StepRequest{
		GatewayAccountID: "42",
		Progress:         &onboarding.SetupProgress{},
		Form: formWith(map[string]string{
			FieldCompanyNumber:             "01234567",
			onboarding.FieldAnswersChecked: "true",
		}),
	})

	require.NoError(t, err)
	assert.Equal(t, DashboardPath, outcome.Redirect)
	assert.Equal(t, []onboarding.Flag{onboarding.FlagCompanyNumber}, conn.flags)

	assert.Equal(t, "01234567", adapter.companyInput.CompanyNumber)
	assert.Empty(t, adapter.companyInput.VATNumber)
}

func TestCompanyStepsGateIndependently(t *testing.T) {
	svc := NewCompanyDetailsService(&stubConnector{}, &stubStripe{}, zap.NewNop())
	progress := &onboarding.SetupProgress{VATNumber: true}

	_, err := svc.ShowVATNumber(progress)
	assert.Error(t, err)

	outcome, err := svc.ShowCompanyNumber(progress)
	require.NoError(t, err)
	assert.Equal(t, "stripe-setup/company-number/index", outcome.Render.View)
}
