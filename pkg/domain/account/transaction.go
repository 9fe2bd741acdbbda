package account

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction.
type TransactionType string

// Supported transaction types.
const (
	Deposit  TransactionType = "Deposit"
	Withdraw TransactionType = "Withdraw"
)

// ParseTransactionType resolves s to a transaction type, ignoring case.
func ParseTransactionType(s string) (TransactionType, bool) {
	for _, t := range []TransactionType{Deposit, Withdraw} {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is Deposit or Withdraw.
func (t TransactionType) Valid() bool {
	return t == Deposit || t == Withdraw
}

// Transaction is a single deposit or withdrawal recorded against one account.
// AccountNumber never changes after creation.
type Transaction struct {
	ID            uint
	TransactionID string
	AccountNumber string
	Amount        decimal.Decimal
	Type          TransactionType
	Description   string
	Status        string
	Timestamp     time.Time
}

// Draft is the caller-controlled part of a transaction, shared by create and update.
type Draft struct {
	Amount      decimal.Decimal
	Type        TransactionType
	Description string
	Status      string
}

// NewTransactionFromData creates a Transaction from raw data (used for DB hydration or test fixtures).
func NewTransactionFromData(
	id uint,
	transactionID, accountNumber string,
	amount decimal.Decimal,
	txType TransactionType,
	description, status string,
	timestamp time.Time,
) *Transaction {
	return &Transaction{
		ID:            id,
		TransactionID: transactionID,
		AccountNumber: accountNumber,
		Amount:        amount,
		Type:          txType,
		Description:   description,
		Status:        status,
		Timestamp:     timestamp,
	}
}

// Effect is the signed balance delta this transaction applies.
func (t *Transaction) Effect() decimal.Decimal {
	return Effect(t.Type, t.Amount)
}

// Effect returns +amount for a deposit and -amount for a withdrawal.
func Effect(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == Withdraw {
		return amount.Neg()
	}
	return amount
}

// Apply overwrites the mutable fields with d. Identity, account and timestamp are kept.
func (t *Transaction) Apply(d Draft) {
	t.Amount = d.Amount
	t.Type = d.Type
	t.Description = d.Description
	t.Status = d.Status
}
