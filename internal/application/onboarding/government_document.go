package onboarding

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/domain/form"
	"github.com/selfservice/portal/internal/domain/onboarding"
)

// MaxGovernmentDocumentSize is the largest upload Stripe accepts for
// account requirement files.
const MaxGovernmentDocumentSize = 10 << 20

const governmentDocumentView = "stripe-setup/government-entity-document/index"

var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// DocumentRequest carries one proof-of-registration upload
type DocumentRequest struct {
	GatewayAccountID string
	Progress         *onboarding.SetupProgress
	Filename         string
	Content          io.Reader
	Size             int64
	ContentType      string
	CorrelationID    string
}

// GovernmentDocumentService handles the proof-of-registration upload a
// government entity must provide before taking payments. Unlike the other
// onboarding steps there is no check-your-answers review, the file goes to
// Stripe on first submission.
type GovernmentDocumentService struct {
	connector ConnectorClient
	stripe    StripeAdapter
	logger    *zap.Logger
}

// NewGovernmentDocumentService creates the document upload service
func NewGovernmentDocumentService(connectorClient ConnectorClient, stripeAdapter StripeAdapter, logger *zap.Logger) *GovernmentDocumentService {
	return &GovernmentDocumentService{
		connector: connectorClient,
		stripe:    stripeAdapter,
		logger:    logger,
	}
}

// Show gates the upload form on the account's setup progress
func (s *GovernmentDocumentService) Show(progress *onboarding.SetupProgress) (*StepOutcome, error) {
	if err := onboarding.Gate(progress, onboarding.FlagGovernmentEntityDocument); err != nil {
		return nil, err
	}
	return RenderForm(governmentDocumentView, form.Values{}, nil), nil
}

// Submit validates and uploads the document, then marks the step complete
func (s *GovernmentDocumentService) Submit(ctx context.Context, req DocumentRequest) (*StepOutcome, error) {
	if err := onboarding.Gate(req.Progress, onboarding.FlagGovernmentEntityDocument); err != nil {
		return nil, err
	}

	if msg := validateDocument(req); msg != "" {
		errs := form.NewErrors()
		errs.Add("government-entity-document", msg)
		return RenderForm(governmentDocumentView, form.Values{}, errs), nil
	}

	account, err := s.connector.GetStripeAccount(ctx, req.GatewayAccountID, req.CorrelationID)
	if err != nil {
		return nil, err
	}

	fileID, err := s.stripe.UploadGovernmentEntityDocument(ctx, account.StripeAccountID, req.Filename, req.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Uploaded government entity document",
		zap.String("gateway_account_id", req.GatewayAccountID),
		zap.String("stripe_file_id", fileID),
		zap.String("correlation_id", req.CorrelationID))

	if err := s.connector.SetStripeAccountSetupFlag(ctx, req.GatewayAccountID, onboarding.FlagGovernmentEntityDocument, req.CorrelationID); err != nil {
		return nil, err
	}

	return Redirect(DashboardPath), nil
}

func validateDocument(req DocumentRequest) string {
	if req.Content == nil || req.Filename == "" {
		return "Select a file to upload"
	}
	if req.Size > MaxGovernmentDocumentSize {
		return "File size must be less than 10MB"
	}
	if !allowedDocumentTypes[req.ContentType] {
		return "File type must be PDF, JPG or PNG"
	}
	return ""
}
