package stripe

import (
	"fmt"
	"strings"

	stripeapi "github.com/stripe/stripe-go/v81"
)

// BankAccount carries a merchant's UK bank details bound for a connected
// account's external account. Sort codes and account numbers stay strings
// so leading zeros survive.
type BankAccount struct {
	sortCode      string
	accountNumber string
}

// NewBankAccount normalises and validates bank details. Spaces and dashes
// are stripped; either field left empty after stripping is rejected.
func NewBankAccount(sortCode, accountNumber string) (*BankAccount, error) {
	normalisedSortCode := normaliseBankField(sortCode)
	if normalisedSortCode == "" {
		return nil, fmt.Errorf(`bank account "sort_code" is not allowed to be empty`)
	}

	normalisedAccountNumber := normaliseBankField(accountNumber)
	if normalisedAccountNumber == "" {
		return nil, fmt.Errorf(`bank account "account_number" is not allowed to be empty`)
	}

	return &BankAccount{
		sortCode:      normalisedSortCode,
		accountNumber: normalisedAccountNumber,
	}, nil
}

// SortCode returns the normalised sort code
func (b *BankAccount) SortCode() string {
	return b.sortCode
}

// AccountNumber returns the normalised account number
func (b *BankAccount) AccountNumber() string {
	return b.accountNumber
}

// ExternalAccountParams builds the external account payload attached to a
// connected account. Holder type and locale are fixed for UK companies.
func (b *BankAccount) ExternalAccountParams() *stripeapi.AccountExternalAccountParams {
	return &stripeapi.AccountExternalAccountParams{
		Country:           stripeapi.String("GB"),
		Currency:          stripeapi.String("GBP"),
		AccountHolderType: stripeapi.String("company"),
		RoutingNumber:     stripeapi.String(b.sortCode),
		AccountNumber:     stripeapi.String(b.accountNumber),
	}
}

func normaliseBankField(value string) string {
	replacer := strings.NewReplacer(" ", "", "-", "")
	return replacer.Replace(value)
}
