package onboarding

import (
	"context"
	"io"

	"github.com/selfservice/portal/internal/domain/form"
	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/domain/shared"
	"github.com/selfservice/portal/internal/infrastructure/clients/connector"
	"github.com/selfservice/portal/internal/infrastructure/stripe"
)

// ConnectorClient is the subset of connector operations the step services
// use
type ConnectorClient interface {
	SetStripeAccountSetupFlag(ctx context.Context, gatewayAccountID string, flag onboarding.Flag, correlationID string) error
	GetStripeAccount(ctx context.Context, gatewayAccountID, correlationID string) (*connector.StripeAccount, error)
}

// StripeAdapter is the subset of Stripe operations the step services use
type StripeAdapter interface {
	CreateResponsiblePerson(ctx context.Context, input stripe.ResponsiblePersonInput) (string, error)
	SetBankAccount(ctx context.Context, stripeAccountID string, bankAccount *stripe.BankAccount) error
	UpdateCompany(ctx context.Context, stripeAccountID string, input stripe.CompanyInput) error
	UploadGovernmentEntityDocument(ctx context.Context, stripeAccountID, filename string, contents io.Reader) (string, error)
}

// StepRequest carries the request-scoped inputs every step operation needs
type StepRequest struct {
	GatewayAccountID string
	Progress         *onboarding.SetupProgress
	Form             form.Submission
	CorrelationID    string
}

// stepFlow is the shared submit pipeline of a form-review-confirm step.
// Per-step behaviour plugs in through stepHooks.
type stepFlow struct {
	flag        onboarding.Flag
	fields      []form.Field
	extraFields []string
	formView    string
	checkView   string
}

// stepHooks customises the pipeline for one step
type stepHooks struct {
	// crossValidate adds cross-field errors (date of birth) after the
	// per-field validators ran
	crossValidate func(values form.Values, errs *form.Errors)
	// reviewData adds derived page data for check-your-answers
	reviewData func(values form.Values) map[string]any
	// confirm performs the step's side effects before the flag is set
	confirm func(ctx context.Context, values form.Values) error
}

// show gates the collection form on the account's setup progress
func (f *stepFlow) show(progress *onboarding.SetupProgress) (*StepOutcome, error) {
	if err := onboarding.Gate(progress, f.flag); err != nil {
		return nil, err
	}
	return RenderForm(f.formView, nil, nil), nil
}

// submit runs the step state machine over one form submission. setFlag
// records completion on the connector once the confirm side effects
// succeeded.
func (f *stepFlow) submit(ctx context.Context, req StepRequest, hooks stepHooks, setFlag func(ctx context.Context) error) (*StepOutcome, error) {
	if req.Progress == nil {
		return nil, shared.ErrSetupProgressUnavailable
	}

	intent := onboarding.ReadIntent(
		req.Form.Get(onboarding.FieldAnswersChecked),
		req.Form.Get(onboarding.FieldAnswersNeedChanging),
	)

	if req.Progress.Completed(f.flag) {
		// A repeated confirm lands on the dashboard without re-running
		// side effects; the flag is monotonic.
		if intent == onboarding.IntentConfirm {
			return Redirect(DashboardPath), nil
		}
		return nil, shared.ErrStepAlreadyCompleted
	}

	values := form.Collect(req.Form, f.fields, f.extraFields...)
	errs := form.Validate(values, f.fields)
	if hooks.crossValidate != nil {
		hooks.crossValidate(values, errs)
	}
	if !errs.Empty() {
		return RenderForm(f.formView, values, errs), nil
	}

	switch intent {
	case onboarding.IntentConfirm:
		if hooks.confirm != nil {
			if err := hooks.confirm(ctx, values); err != nil {
				return nil, err
			}
		}
		if err := setFlag(ctx); err != nil {
			return nil, err
		}
		return Redirect(DashboardPath), nil
	case onboarding.IntentChange:
		return RenderForm(f.formView, values, nil), nil
	default:
		outcome := RenderForm(f.checkView, values, nil)
		if hooks.reviewData != nil {
			for k, v := range hooks.reviewData(values) {
				outcome.Render.Data[k] = v
			}
		}
		return outcome, nil
	}
}
