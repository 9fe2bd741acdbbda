package account

import (
	"strings"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/shopspring/decimal"
)

// Type is the kind of account.
type Type string

// Supported account types.
const (
	TypeSavings  Type = "Savings"
	TypeChecking Type = "Checking"
)

// ParseType resolves s to a supported account type, ignoring case.
func ParseType(s string) (Type, bool) {
	for _, t := range []Type{TypeSavings, TypeChecking} {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is a supported account type.
func (t Type) Valid() bool {
	return t == TypeSavings || t == TypeChecking
}

// Account is a balance-holding record identified by its account number.
//
// Invariants:
//   - Number is non-empty and never changes once the account exists.
//   - Balance is never negative, and strictly positive when the account is opened.
//   - Version increases on every write so stale snapshots can be detected.
type Account struct {
	ID           uint
	Number       string
	Balance      decimal.Decimal
	CustomerName string
	Type         Type
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Builder provides a fluent API for opening new accounts.
type Builder struct {
	number       string
	balance      decimal.Decimal
	customerName string
	accountType  Type
	now          time.Time
}

// New creates a Builder stamped with the current time.
func New() *Builder {
	return &Builder{now: time.Now().UTC()}
}

// WithNumber sets the account number.
func (b *Builder) WithNumber(number string) *Builder {
	b.number = number
	return b
}

// WithBalance sets the opening balance.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithCustomerName sets the holder's name.
func (b *Builder) WithCustomerName(name string) *Builder {
	b.customerName = name
	return b
}

// WithType sets the account type.
func (b *Builder) WithType(t Type) *Builder {
	b.accountType = t
	return b
}

// WithTime overrides the creation timestamp. Used by tests.
func (b *Builder) WithTime(t time.Time) *Builder {
	b.now = t
	return b
}

// Build validates the opening invariants and returns the new account.
func (b *Builder) Build() (*Account, error) {
	if err := ValidateOpening(b.number, b.balance, b.customerName, b.accountType); err != nil {
		return nil, err
	}
	return &Account{
		Number:       strings.TrimSpace(b.number),
		Balance:      b.balance,
		CustomerName: b.customerName,
		Type:         b.accountType,
		CreatedAt:    b.now,
		UpdatedAt:    b.now,
	}, nil
}

// NewAccountFromData hydrates an Account from stored data without running
// opening validation.
func NewAccountFromData(
	id uint,
	number string,
	balance decimal.Decimal,
	customerName string,
	accountType Type,
	version int64,
	created, updated time.Time,
) *Account {
	return &Account{
		ID:           id,
		Number:       number,
		Balance:      balance,
		CustomerName: customerName,
		Type:         accountType,
		Version:      version,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}
}

// ValidateOpening checks the rules for opening an account. The balance is
// checked first so a non-positive opening balance is always InvalidBalance.
func ValidateOpening(number string, balance decimal.Decimal, customerName string, t Type) error {
	if !balance.IsPositive() {
		return domain.NewFieldError(domain.ErrInvalidBalance, "balance", "opening balance must be greater than zero")
	}
	if err := validateBalancePrecision(balance); err != nil {
		return err
	}
	return validateFields(number, customerName, t)
}

func validateFields(number, customerName string, t Type) error {
	if strings.TrimSpace(number) == "" {
		return domain.NewFieldError(domain.ErrInvalidField, "account_number", "is required")
	}
	if strings.TrimSpace(customerName) == "" {
		return domain.NewFieldError(domain.ErrInvalidField, "customer_name", "is required")
	}
	if !t.Valid() {
		return domain.NewFieldError(domain.ErrInvalidField, "account_type", "must be Savings or Checking")
	}
	return nil
}

// Replacement is the full field set of an account update.
type Replacement struct {
	Number       string
	Balance      decimal.Decimal
	CustomerName string
	Type         Type
}

// ValidateReplacement checks a full-record update against the current account.
func (a *Account) ValidateReplacement(r Replacement) error {
	if err := validateFields(r.Number, r.CustomerName, r.Type); err != nil {
		return err
	}
	if strings.TrimSpace(r.Number) != a.Number {
		return domain.NewFieldError(domain.ErrInvalidField, "account_number", "cannot be changed")
	}
	if r.Balance.IsNegative() {
		return domain.NewFieldError(domain.ErrInvalidBalance, "balance", "cannot be negative")
	}
	return validateBalancePrecision(r.Balance)
}

// Replace applies a validated replacement and re-stamps the account.
func (a *Account) Replace(r Replacement, now time.Time) error {
	if err := a.ValidateReplacement(r); err != nil {
		return err
	}
	a.Balance = r.Balance
	a.CustomerName = r.CustomerName
	a.Type = r.Type
	a.UpdatedAt = now
	return nil
}

// ApplyDelta adds a signed amount to the balance. The account is left
// untouched if the result would be negative or too large to store.
func (a *Account) ApplyDelta(delta decimal.Decimal, now time.Time) error {
	next := a.Balance.Add(delta)
	if next.IsNegative() {
		return domain.NewFieldError(domain.ErrInvalidBalance, "balance", "cannot be negative")
	}
	if err := validateBalancePrecision(next); err != nil {
		return err
	}
	a.Balance = next
	a.UpdatedAt = now
	return nil
}
