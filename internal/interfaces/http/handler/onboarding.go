package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appOnboarding "github.com/selfservice/portal/internal/application/onboarding"
	"github.com/selfservice/portal/internal/domain/onboarding"
	"github.com/selfservice/portal/internal/interfaces/http/middleware"
)

// postForm adapts gin form access to the submission the step services read
type postForm struct {
	c *gin.Context
}

func (f postForm) Get(name string) string {
	return f.c.PostForm(name)
}

// OnboardingHandler serves the Stripe KYC onboarding steps
type OnboardingHandler struct {
	BaseHandler
	bankDetails         *appOnboarding.BankDetailsService
	responsiblePerson   *appOnboarding.ResponsiblePersonService
	organisationDetails *appOnboarding.OrganisationDetailsService
	companyDetails      *appOnboarding.CompanyDetailsService
	governmentDocument  *appOnboarding.GovernmentDocumentService
}

// NewOnboardingHandler creates the onboarding step handler
func NewOnboardingHandler(
	base BaseHandler,
	bankDetails *appOnboarding.BankDetailsService,
	responsiblePerson *appOnboarding.ResponsiblePersonService,
	organisationDetails *appOnboarding.OrganisationDetailsService,
	companyDetails *appOnboarding.CompanyDetailsService,
	governmentDocument *appOnboarding.GovernmentDocumentService,
) *OnboardingHandler {
	return &OnboardingHandler{
		BaseHandler:         base,
		bankDetails:         bankDetails,
		responsiblePerson:   responsiblePerson,
		organisationDetails: organisationDetails,
		companyDetails:      companyDetails,
		governmentDocument:  governmentDocument,
	}
}

// RegisterRoutes mounts the step routes on the account group
func (h *OnboardingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stripe := rg.Group("/your-psp/stripe")

	stripe.GET("/bank-details", h.show(h.bankDetails.Show))
	stripe.POST("/bank-details", h.submit(h.bankDetails.Submit))
	stripe.GET("/responsible-person", h.show(h.responsiblePerson.Show))
	stripe.POST("/responsible-person", h.submit(h.responsiblePerson.Submit))
	stripe.GET("/organisation-details", h.show(h.organisationDetails.Show))
	stripe.POST("/organisation-details", h.submit(h.organisationDetails.Submit))
	stripe.GET("/vat-number", h.show(h.companyDetails.ShowVATNumber))
	stripe.POST("/vat-number", h.submit(h.companyDetails.SubmitVATNumber))
	stripe.GET("/company-number", h.show(h.companyDetails.ShowCompanyNumber))
	stripe.POST("/company-number", h.submit(h.companyDetails.SubmitCompanyNumber))
	stripe.GET("/government-entity-document", h.showGovernmentDocument)
	stripe.POST("/government-entity-document", h.submitGovernmentDocument)
}

func (h *OnboardingHandler) show(fn func(progress *onboarding.SetupProgress) (*appOnboarding.StepOutcome, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		outcome, err := fn(middleware.GetSetupProgress(c))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Outcome(c, outcome)
	}
}

func (h *OnboardingHandler) submit(fn func(ctx context.Context, req appOnboarding.StepRequest) (*appOnboarding.StepOutcome, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		gatewayAccountID, ok := h.requireAccount(c)
		if !ok {
			return
		}

		outcome, err := fn(c.Request.Context(), appOnboarding.StepRequest{
			GatewayAccountID: gatewayAccountID,
			Progress:         middleware.GetSetupProgress(c),
			Form:             postForm{c: c},
			CorrelationID:    middleware.GetCorrelationID(c),
		})
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Outcome(c, outcome)
	}
}

func (h *OnboardingHandler) showGovernmentDocument(c *gin.Context) {
	outcome, err := h.governmentDocument.Show(middleware.GetSetupProgress(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Outcome(c, outcome)
}

func (h *OnboardingHandler) submitGovernmentDocument(c *gin.Context) {
	gatewayAccountID, ok := h.requireAccount(c)
	if !ok {
		return
	}

	req := appOnboarding.DocumentRequest{
		GatewayAccountID: gatewayAccountID,
		Progress:         middleware.GetSetupProgress(c),
		CorrelationID:    middleware.GetCorrelationID(c),
	}

	// A missing file is a validation outcome, not a request error
	if fileHeader, err := c.FormFile("government-entity-document"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			h.HandleError(c, err)
			return
		}
		defer file.Close()

		req.Filename = fileHeader.Filename
		req.Content = file
		req.Size = fileHeader.Size
		req.ContentType = fileHeader.Header.Get("Content-Type")
	}

	outcome, err := h.governmentDocument.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Outcome(c, outcome)
}
