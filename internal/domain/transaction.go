package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType labels the direction and nature of a ledger entry.
type TransactionType string

// The closed set of transaction types.
const (
	TypeDeposit    TransactionType = "Deposit"
	TypeWithdrawal TransactionType = "Withdrawal"
	TypeTransfer   TransactionType = "Transfer"
	TypeInterest   TransactionType = "Interest"
)

// Transaction is an immutable record of a single balance mutation. Amount is
// always positive; the direction is implied by Type, not by sign.
type Transaction struct {
	ID           string          `json:"id"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	AccountID    string          `json:"account_id"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
	Description  string          `json:"description"`
}

// TransferResult holds the two ledger entries produced by a completed
// transfer.
type TransferResult struct {
	FromTransaction Transaction `json:"from_transaction"`
	ToTransaction   Transaction `json:"to_transaction"`
}
