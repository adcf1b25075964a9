// Package onboarding holds the account setup-progress model and the
// per-step state machine that drives the Stripe KYC collection flows.
package onboarding

import "github.com/selfservice/portal/internal/domain/shared"

// Flag identifies one onboarding requirement. Its value is the JSON-Patch
// path used when setting the flag on the connector's stripe-setup resource.
type Flag string

const (
	FlagBankAccount              Flag = "bank_account"
	FlagOrganisationDetails      Flag = "organisation_details"
	FlagResponsiblePerson        Flag = "responsible_person"
	FlagVATNumber                Flag = "vat_number"
	FlagCompanyNumber            Flag = "company_number"
	FlagGovernmentEntityDocument Flag = "government_entity_document"
)

// SetupProgress is the per-account record of completion flags. It is owned
// by the connector; the portal holds a request-scoped read-through copy.
// Flags are monotonic: once true they are never reset by this system.
type SetupProgress struct {
	BankAccount              bool `json:"bank_account"`
	OrganisationDetails      bool `json:"organisation_details"`
	ResponsiblePerson        bool `json:"responsible_person"`
	VATNumber                bool `json:"vat_number"`
	CompanyNumber            bool `json:"company_number"`
	GovernmentEntityDocument bool `json:"government_entity_document"`
}

// Completed reports whether the given flag is set
func (p *SetupProgress) Completed(flag Flag) bool {
	switch flag {
	case FlagBankAccount:
		return p.BankAccount
	case FlagOrganisationDetails:
		return p.OrganisationDetails
	case FlagResponsiblePerson:
		return p.ResponsiblePerson
	case FlagVATNumber:
		return p.VATNumber
	case FlagCompanyNumber:
		return p.CompanyNumber
	case FlagGovernmentEntityDocument:
		return p.GovernmentEntityDocument
	default:
		return false
	}
}

// Outstanding returns the flags not yet completed, in the order the steps
// appear in the onboarding journey
func (p *SetupProgress) Outstanding() []Flag {
	all := []Flag{
		FlagBankAccount,
		FlagResponsiblePerson,
		FlagVATNumber,
		FlagCompanyNumber,
		FlagOrganisationDetails,
		FlagGovernmentEntityDocument,
	}
	var out []Flag
	for _, f := range all {
		if !p.Completed(f) {
			out = append(out, f)
		}
	}
	return out
}

// Gate decides whether a collection form for the given flag may be shown.
// A nil progress means the account context was loaded without its
// stripe-setup resource; that is a configuration fault, never a user error,
// and must surface through the central error pipeline. A flag already true
// is terminal: the step can never be re-submitted.
func Gate(progress *SetupProgress, flag Flag) error {
	if progress == nil {
		return shared.ErrSetupProgressUnavailable
	}
	if progress.Completed(flag) {
		return shared.ErrStepAlreadyCompleted
	}
	return nil
}
