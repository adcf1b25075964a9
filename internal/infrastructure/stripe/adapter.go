// Package stripe implements the KYC operations performed against a
// merchant's connected Stripe account: registering the responsible person,
// attaching the payout bank account, recording company identifiers and
// uploading the government entity document.
package stripe

import (
	"context"
	"fmt"
	"io"

	stripeapi "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/account"
	"github.com/stripe/stripe-go/v81/file"
	"github.com/stripe/stripe-go/v81/person"
	"go.uber.org/zap"
)

// Adapter performs connected-account updates against the Stripe API
type Adapter struct {
	config *Config
	logger *zap.Logger
}

// NewAdapter creates a new Stripe adapter
func NewAdapter(config *Config, logger *zap.Logger) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitClient()

	return &Adapter{
		config: config,
		logger: logger,
	}, nil
}

// ResponsiblePersonInput carries the details of the person legally
// responsible for the merchant's service.
type ResponsiblePersonInput struct {
	StripeAccountID string
	FirstName       string
	LastName        string
	AddressLine1    string
	AddressLine2    string
	AddressCity     string
	AddressPostcode string
	DOBDay          int
	DOBMonth        int
	DOBYear         int
}

// CreateResponsiblePerson registers the responsible person on the connected
// account as its representative and executive.
func (a *Adapter) CreateResponsiblePerson(ctx context.Context, input ResponsiblePersonInput) (string, error) {
	a.logger.Debug("Creating Stripe responsible person",
		zap.String("stripe_account_id", input.StripeAccountID))

	params := &stripeapi.PersonParams{
		Account:   stripeapi.String(input.StripeAccountID),
		FirstName: stripeapi.String(input.FirstName),
		LastName:  stripeapi.String(input.LastName),
		Address: &stripeapi.AddressParams{
			Line1:      stripeapi.String(input.AddressLine1),
			City:       stripeapi.String(input.AddressCity),
			PostalCode: stripeapi.String(input.AddressPostcode),
			Country:    stripeapi.String("GB"),
		},
		DOB: &stripeapi.PersonDOBParams{
			Day:   stripeapi.Int64(int64(input.DOBDay)),
			Month: stripeapi.Int64(int64(input.DOBMonth)),
			Year:  stripeapi.Int64(int64(input.DOBYear)),
		},
		Relationship: &stripeapi.PersonRelationshipParams{
			Representative: stripeapi.Bool(true),
			Executive:      stripeapi.Bool(true),
		},
	}
	if input.AddressLine2 != "" {
		params.Address.Line2 = stripeapi.String(input.AddressLine2)
	}

	created, err := person.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe responsible person",
			zap.String("stripe_account_id", input.StripeAccountID),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create responsible person: %w", err)
	}

	a.logger.Info("Created Stripe responsible person",
		zap.String("stripe_account_id", input.StripeAccountID),
		zap.String("person_id", created.ID))

	return created.ID, nil
}

// SetBankAccount attaches the merchant's payout bank account to the
// connected account.
func (a *Adapter) SetBankAccount(ctx context.Context, stripeAccountID string, bankAccount *BankAccount) error {
	a.logger.Debug("Setting Stripe bank account",
		zap.String("stripe_account_id", stripeAccountID))

	params := &stripeapi.AccountParams{
		ExternalAccount: bankAccount.ExternalAccountParams(),
	}

	if _, err := account.Update(stripeAccountID, params); err != nil {
		a.logger.Error("Failed to set Stripe bank account",
			zap.String("stripe_account_id", stripeAccountID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to set bank account: %w", err)
	}

	a.logger.Info("Set Stripe bank account",
		zap.String("stripe_account_id", stripeAccountID))
	return nil
}

// CompanyInput carries the merchant's registered company identifiers.
// Empty fields are left untouched on the account.
type CompanyInput struct {
	VATNumber     string
	CompanyNumber string
}

// UpdateCompany records the company's VAT and registration numbers on the
// connected account.
func (a *Adapter) UpdateCompany(ctx context.Context, stripeAccountID string, input CompanyInput) error {
	a.logger.Debug("Updating Stripe company details",
		zap.String("stripe_account_id", stripeAccountID))

	company := &stripeapi.AccountCompanyParams{}
	if input.VATNumber != "" {
		company.VATID = stripeapi.String(input.VATNumber)
	}
	if input.CompanyNumber != "" {
		company.TaxID = stripeapi.String(input.CompanyNumber)
	}

	params := &stripeapi.AccountParams{Company: company}

	if _, err := account.Update(stripeAccountID, params); err != nil {
		a.logger.Error("Failed to update Stripe company details",
			zap.String("stripe_account_id", stripeAccountID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to update company details: %w", err)
	}

	a.logger.Info("Updated Stripe company details",
		zap.String("stripe_account_id", stripeAccountID))
	return nil
}

// UploadGovernmentEntityDocument uploads the merchant's proof of
// registration and attaches it to the connected account. Returns the
// Stripe file id.
func (a *Adapter) UploadGovernmentEntityDocument(ctx context.Context, stripeAccountID, filename string, contents io.Reader) (string, error) {
	a.logger.Debug("Uploading government entity document",
		zap.String("stripe_account_id", stripeAccountID),
		zap.String("filename", filename))

	uploaded, err := file.New(&stripeapi.FileParams{
		FileReader: contents,
		Filename:   stripeapi.String(filename),
		Purpose:    stripeapi.String(string(stripeapi.FilePurposeAccountRequirement)),
	})
	if err != nil {
		a.logger.Error("Failed to upload government entity document",
			zap.String("stripe_account_id", stripeAccountID),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to upload government entity document: %w", err)
	}

	params := &stripeapi.AccountParams{
		Documents: &stripeapi.AccountDocumentsParams{
			ProofOfRegistration: &stripeapi.AccountDocumentsProofOfRegistrationParams{
				Files: []*string{stripeapi.String(uploaded.ID)},
			},
		},
	}

	if _, err := account.Update(stripeAccountID, params); err != nil {
		a.logger.Error("Failed to attach government entity document",
			zap.String("stripe_account_id", stripeAccountID),
			zap.String("file_id", uploaded.ID),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to attach government entity document: %w", err)
	}

	a.logger.Info("Uploaded government entity document",
		zap.String("stripe_account_id", stripeAccountID),
		zap.String("file_id", uploaded.ID))

	return uploaded.ID, nil
}
