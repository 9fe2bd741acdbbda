package ledger

import (
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// CreateAccountCommand opens a new account.
type CreateAccountCommand struct {
	Number       string
	Balance      decimal.Decimal
	CustomerName string
	Type         account.Type
}

// CreateTransactionCommand records a deposit or withdrawal against one account.
type CreateTransactionCommand struct {
	TransactionID string
	AccountNumber string
	Amount        decimal.Decimal
	Type          account.TransactionType
	Description   string
	Status        string
}

func (c CreateTransactionCommand) draft() account.Draft {
	return account.Draft{Amount: c.Amount, Type: c.Type, Description: c.Description, Status: c.Status}
}

// UpdateTransactionCommand replaces the mutable fields of a transaction.
// AccountNumber may echo the current account; any other value is rejected.
type UpdateTransactionCommand struct {
	AccountNumber string
	Amount        decimal.Decimal
	Type          account.TransactionType
	Description   string
	Status        string
}

func (c UpdateTransactionCommand) draft() account.Draft {
	return account.Draft{Amount: c.Amount, Type: c.Type, Description: c.Description, Status: c.Status}
}
