package onboarding

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/onboarding"
)

func bankDetailsForm(extra map[string]string) url.Values {
	values := formWith(map[string]string{
		FieldSortCode:      "10-88-00",
		FieldAccountNumber: "00 01 23 45",
	})
	for name, value := range extra {
		values.Set(name, value)
	}
	return values
}

func TestBankDetailsInvalidSortCode(t *testing.T) {
	svc := NewBankDetailsService(&stubConnector{}, &stubStripe{}, zap.NewNop())

	outcome, err := svc.Submit(context.Background(), StepRequest{
		GatewayAccountID: "42",
		Progress:         &onboarding.SetupProgress{},
		Form: bankDetailsForm(map[string]string{
			FieldSortCode: "12345",
		}),
	})

	require.NoError(t, err)
	require.NotNil(t, outcome.Render)
	assert.Equal(t, "stripe-setup/bank-details/index", outcome.Render.View)

	errsByField, ok := outcome.Render.Data["errors"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Enter a valid sort code", errsByField[FieldSortCode])
}

func TestBankDetailsInvalidAccountNumber(t *testing.T) {
	svc := NewBankDetailsService(&stubConnector{}, &stubStripe{}, zap.NewNop())

	outcome, err := svc.Submit(context.Background(), StepRequest{
		GatewayAccountID: "42",
		Progress:         &onboarding.SetupProgress{},
		Form: bankDetailsForm(map[string]string{
			FieldAccountNumber: "12345",
		}),
	})

	require.NoError(t, err)
	errsByField, ok := outcome.Render.Data["errors"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Enter a valid account number", errsByField[FieldAccountNumber])
}

func TestBankDetailsFirstValidShowsCheckPage(t *testing.T) {
	svc := NewBankDetailsService(&stubConnector{}, &stubStripe{}, zap.NewNop())

	outcome, err := svc.Submit(context.Background(), StepRequest{
		GatewayAccountID: "42",
		Progress:         &onboarding.SetupProgress{},
		Form:             bankDetailsForm(nil),
	})

	require.NoError(t, err)
	require.NotNil(t, outcome.Render)
	assert.Equal(t, "stripe-setup/bank-details/check-your-answers", outcome.Render.View)
}

func TestBankDetailsConfirmAttachesNormalisedAccount(t *testing.T) {
	conn := &stubConnector{}
	adapter := &stubStripe{}
	svc := NewBankDetailsService(conn, adapter, zap.NewNop())

	outcome, err := svc.Submit(context.Background(), StepRequest{
		GatewayAccountID: "42",
		Progress:         &onboarding.SetupProgress{},
		Form: bankDetailsForm(map[string]string{
			onboarding.FieldAnswersChecked: "true",
		}),
	})

	require.NoError(t, err)
	assert.Equal(t, DashboardPath, outcome.Redirect)
	assert.Equal(t, []onboarding.Flag{onboarding.FlagBankAccount}, conn.flags)

	assert.Equal(t, "acct_123abc", adapter.bankAccountFor)
	require.NotNil(t, adapter.bankAccount)
	assert.Equal(t, "108800", adapter.bankAccount.SortCode())
	assert.Equal(t, "00012345", adapter.bankAccount.AccountNumber())
}
