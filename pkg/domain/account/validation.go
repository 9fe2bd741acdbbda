package account

import (
	"strings"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/shopspring/decimal"
)

// Money is stored as NUMERIC(20,4): at most four decimal places and sixteen
// integer digits.
const (
	MoneyScale         = 4
	moneyIntegerDigits = 16
)

var maxMoney = decimal.New(1, moneyIntegerDigits)

// moneyPrecisionReason explains why v cannot be stored exactly, or returns ""
// when it can.
func moneyPrecisionReason(v decimal.Decimal) string {
	if !v.Equal(v.Truncate(MoneyScale)) {
		return "must have at most 4 decimal places"
	}
	if v.Abs().GreaterThanOrEqual(maxMoney) {
		return "exceeds the maximum supported value"
	}
	return ""
}

// ValidateAmount rejects negative amounts and amounts the store cannot hold
// exactly. Zero is a valid amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.NewFieldError(domain.ErrInvalidAmount, "amount", "cannot be negative")
	}
	if reason := moneyPrecisionReason(amount); reason != "" {
		return domain.NewFieldError(domain.ErrInvalidAmount, "amount", reason)
	}
	return nil
}

func validateBalancePrecision(balance decimal.Decimal) error {
	if reason := moneyPrecisionReason(balance); reason != "" {
		return domain.NewFieldError(domain.ErrInvalidBalance, "balance", reason)
	}
	return nil
}

// ValidateDraftFields checks the non-amount fields of a transaction draft.
func ValidateDraftFields(d Draft) error {
	if !d.Type.Valid() {
		return domain.NewFieldError(domain.ErrInvalidField, "transaction_type", "must be Deposit or Withdraw")
	}
	if strings.TrimSpace(d.Description) == "" {
		return domain.NewFieldError(domain.ErrInvalidField, "description", "is required")
	}
	if strings.TrimSpace(d.Status) == "" {
		return domain.NewFieldError(domain.ErrInvalidField, "status", "is required")
	}
	return nil
}

// CheckFunds rejects a withdrawal larger than the account's balance.
func CheckFunds(a *Account, d Draft) error {
	if d.Type == Withdraw && d.Amount.GreaterThan(a.Balance) {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// PlanCreate validates a new transaction against the account snapshot and
// returns the balance delta to apply. Uniqueness of the transaction id is the
// store's concern and is checked by the caller between amount and fields.
func PlanCreate(a *Account, d Draft) (decimal.Decimal, error) {
	if err := ValidateAmount(d.Amount); err != nil {
		return decimal.Zero, err
	}
	if err := ValidateDraftFields(d); err != nil {
		return decimal.Zero, err
	}
	if err := CheckFunds(a, d); err != nil {
		return decimal.Zero, err
	}
	return Effect(d.Type, d.Amount), nil
}

// PlanUpdate validates replacing old with d against the current account
// snapshot and returns the net delta (new effect minus old effect).
func PlanUpdate(a *Account, old *Transaction, d Draft) (decimal.Decimal, error) {
	if err := ValidateAmount(d.Amount); err != nil {
		return decimal.Zero, err
	}
	if err := ValidateDraftFields(d); err != nil {
		return decimal.Zero, err
	}
	if err := CheckFunds(a, d); err != nil {
		return decimal.Zero, err
	}
	net := Effect(d.Type, d.Amount).Sub(old.Effect())
	if a.Balance.Add(net).IsNegative() {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	return net, nil
}
