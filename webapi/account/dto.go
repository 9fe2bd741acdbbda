package account

import (
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents the request body for opening an account.
// Balance accepts a JSON string or number.
type CreateAccountRequest struct {
	AccountNumber string           `json:"account_number" validate:"required"`
	Balance       *decimal.Decimal `json:"balance" validate:"required"`
	CustomerName  string           `json:"customer_name" validate:"required"`
	AccountType   string           `json:"account_type" validate:"required,oneof=Savings Checking"`
}

// UpdateAccountRequest carries the full field set of an account.
type UpdateAccountRequest struct {
	AccountNumber string           `json:"account_number" validate:"required"`
	Balance       *decimal.Decimal `json:"balance" validate:"required"`
	CustomerName  string           `json:"customer_name" validate:"required"`
	AccountType   string           `json:"account_type" validate:"required,oneof=Savings Checking"`
}

// AccountResponse is the JSON view of an account.
type AccountResponse struct {
	ID            uint            `json:"id"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	CustomerName  string          `json:"customer_name"`
	AccountType   account.Type    `json:"account_type"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TransactionResponse is the JSON view of a ledger entry.
type TransactionResponse struct {
	TransactionID   string                  `json:"transaction_id"`
	AccountNumber   string                  `json:"account_number"`
	Amount          decimal.Decimal         `json:"amount"`
	TransactionType account.TransactionType `json:"transaction_type"`
	Description     string                  `json:"description"`
	Status          string                  `json:"status"`
	Timestamp       time.Time               `json:"timestamp"`
}

// ToAccountDTO maps a domain account to its JSON view.
func ToAccountDTO(a *account.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		AccountNumber: a.Number,
		Balance:       a.Balance,
		CustomerName:  a.CustomerName,
		AccountType:   a.Type,
		Version:       a.Version,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ToTransactionDTO maps a domain transaction to its JSON view.
func ToTransactionDTO(tx *account.Transaction) *TransactionResponse {
	return &TransactionResponse{
		TransactionID:   tx.TransactionID,
		AccountNumber:   tx.AccountNumber,
		Amount:          tx.Amount,
		TransactionType: tx.Type,
		Description:     tx.Description,
		Status:          tx.Status,
		Timestamp:       tx.Timestamp,
	}
}

// ToTransactionDTOs maps a slice of transactions, never returning nil.
func ToTransactionDTOs(txs []*account.Transaction) []*TransactionResponse {
	out := make([]*TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionDTO(tx))
	}
	return out
}
