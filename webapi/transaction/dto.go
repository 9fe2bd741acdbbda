package transaction

import (
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest represents the request body for recording a
// deposit or withdrawal. Amount accepts a JSON string or number.
type CreateTransactionRequest struct {
	TransactionID   string           `json:"transaction_id" validate:"required"`
	AccountNumber   string           `json:"account_number" validate:"required"`
	Amount          *decimal.Decimal `json:"amount" validate:"required"`
	TransactionType string           `json:"transaction_type" validate:"required,oneof=Deposit Withdraw"`
	Description     string           `json:"description" validate:"required"`
	Status          string           `json:"status" validate:"required"`
}

// UpdateTransactionRequest replaces the mutable fields of a transaction.
// account_number may be sent back unchanged; any other value is rejected.
type UpdateTransactionRequest struct {
	AccountNumber   string           `json:"account_number,omitempty"`
	Amount          *decimal.Decimal `json:"amount" validate:"required"`
	TransactionType string           `json:"transaction_type" validate:"required,oneof=Deposit Withdraw"`
	Description     string           `json:"description" validate:"required"`
	Status          string           `json:"status" validate:"required"`
}
