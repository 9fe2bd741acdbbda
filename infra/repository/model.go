package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents an account record in the database.
//
// PostgreSQL columns come from infra/migrations as NUMERIC(20,4). The gorm
// type tags only shape the sqlite schema, where TEXT keeps decimals exact.
type Account struct {
	ID            uint            `gorm:"primaryKey"`
	AccountNumber string          `gorm:"size:200;uniqueIndex;not null"`
	Balance       decimal.Decimal `gorm:"type:text;not null"`
	CustomerName  string          `gorm:"size:200;not null"`
	AccountType   string          `gorm:"size:16;not null"`
	Version       int64           `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Transactions  []Transaction `gorm:"foreignKey:AccountNumber;references:AccountNumber;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction represents a persisted ledger entry. ID orders entries by creation.
type Transaction struct {
	ID              uint            `gorm:"primaryKey"`
	TransactionID   string          `gorm:"size:200;uniqueIndex;not null"`
	AccountNumber   string          `gorm:"size:200;index;not null"`
	Amount          decimal.Decimal `gorm:"type:text;not null"`
	TransactionType string          `gorm:"size:16;not null"`
	Description     string          `gorm:"size:200;not null"`
	Status          string          `gorm:"size:200;not null"`
	Timestamp       time.Time       `gorm:"not null"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// Models lists every persisted model, in dependency order, for AutoMigrate.
func Models() []any {
	return []any{&Account{}, &Transaction{}}
}
