package payout

import (
	"errors"
	"strings"

	"helperhub/internal/pkg/errs"
)

// BankAccount is where the money goes.
type BankAccount struct {
	BankCode      string
	AccountNumber string
	HolderName    string
}

func NewBankAccount(bankCode, accountNumber, holderName string) (BankAccount, error) {
	b := BankAccount{
		BankCode:      strings.TrimSpace(bankCode),
		AccountNumber: strings.TrimSpace(accountNumber),
		HolderName:    strings.TrimSpace(holderName),
	}
	if err := b.Validate(); err != nil {
		return BankAccount{}, err
	}
	return b, nil
}

func (b BankAccount) Validate() error {
	var all []error
	if b.BankCode == "" {
		all = append(all, errs.NewValueIsRequiredError("bank code"))
	}
	if b.AccountNumber == "" {
		all = append(all, errs.NewValueIsRequiredError("account number"))
	}
	if b.HolderName == "" {
		all = append(all, errs.NewValueIsRequiredError("holder name"))
	}
	return errors.Join(all...)
}

// MaskedAccount hides all but the last four digits for logs and notifications.
func (b BankAccount) MaskedAccount() string {
	n := len(b.AccountNumber)
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	return strings.Repeat("*", n-4) + b.AccountNumber[n-4:]
}
