// Package events defines the domain events emitted after ledger state changes commit.
package events

import (
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is implemented by every domain event.
type Event interface {
	Type() string
}

// EventType names an event.
type EventType string

const (
	AccountCreated     EventType = "account.created"
	AccountUpdated     EventType = "account.updated"
	AccountDeleted     EventType = "account.deleted"
	TransactionCreated EventType = "transaction.created"
	TransactionUpdated EventType = "transaction.updated"
	TransactionDeleted EventType = "transaction.deleted"
)

func (t EventType) String() string {
	return string(t)
}

// AccountEvent reports a change to an account record.
type AccountEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	Kind          EventType       `json:"kind"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Type implements Event.
func (e *AccountEvent) Type() string { return string(e.Kind) }

// TransactionEvent reports a committed change to the ledger. Balance is the
// account balance after the change.
type TransactionEvent struct {
	EventID         uuid.UUID               `json:"event_id"`
	Kind            EventType               `json:"kind"`
	TransactionID   string                  `json:"transaction_id"`
	AccountNumber   string                  `json:"account_number"`
	Amount          decimal.Decimal         `json:"amount"`
	TransactionType account.TransactionType `json:"transaction_type"`
	Delta           decimal.Decimal         `json:"delta"`
	Balance         decimal.Decimal         `json:"balance"`
	OccurredAt      time.Time               `json:"occurred_at"`
}

// Type implements Event.
func (e *TransactionEvent) Type() string { return string(e.Kind) }

// Key returns the account number an event belongs to. Buses use it to keep
// per-account ordering.
func Key(e Event) string {
	switch evt := e.(type) {
	case *AccountEvent:
		return evt.AccountNumber
	case *TransactionEvent:
		return evt.AccountNumber
	default:
		return ""
	}
}

// NewAccountEvent snapshots a for the given kind.
func NewAccountEvent(kind EventType, a *account.Account) *AccountEvent {
	return &AccountEvent{
		EventID:       uuid.New(),
		Kind:          kind,
		AccountNumber: a.Number,
		Balance:       a.Balance,
		OccurredAt:    time.Now().UTC(),
	}
}

// NewTransactionEvent snapshots tx and the resulting balance for the given kind.
func NewTransactionEvent(
	kind EventType,
	tx *account.Transaction,
	delta, balance decimal.Decimal,
) *TransactionEvent {
	return &TransactionEvent{
		EventID:         uuid.New(),
		Kind:            kind,
		TransactionID:   tx.TransactionID,
		AccountNumber:   tx.AccountNumber,
		Amount:          tx.Amount,
		TransactionType: tx.Type,
		Delta:           delta,
		Balance:         balance,
		OccurredAt:      time.Now().UTC(),
	}
}

// EventTypes maps event type names to constructors, used to decode events
// read back from a transport.
var EventTypes = map[string]func() Event{
	AccountCreated.String():     func() Event { return &AccountEvent{} },
	AccountUpdated.String():     func() Event { return &AccountEvent{} },
	AccountDeleted.String():     func() Event { return &AccountEvent{} },
	TransactionCreated.String(): func() Event { return &TransactionEvent{} },
	TransactionUpdated.String(): func() Event { return &TransactionEvent{} },
	TransactionDeleted.String(): func() Event { return &TransactionEvent{} },
}
