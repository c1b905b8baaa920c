package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankcore/bankcore/pkg/idpkg"
)

// Ledger is an append-only, chronologically ordered transaction history owned
// by one account. Entries are never modified or removed once appended;
// insertion order is chronological order.
type Ledger struct {
	entries []Transaction
}

// Append records a mutation and returns the created transaction. Ids are
// ULIDs, so uniqueness holds even for rapid successive appends within one
// clock tick.
func (l *Ledger) Append(typ TransactionType, amount decimal.Decimal, accountID string, balanceAfter decimal.Decimal, description string) Transaction {
	tx := Transaction{
		ID:           idpkg.New(),
		Type:         typ,
		Amount:       amount,
		AccountID:    accountID,
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now().UTC(),
		Description:  description,
	}
	l.entries = append(l.entries, tx)

	return tx
}

// Entries returns a copy of the history in insertion order.
func (l *Ledger) Entries() []Transaction {
	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)

	return out
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Last returns the most recent transaction, if any.
func (l *Ledger) Last() (Transaction, bool) {
	if len(l.entries) == 0 {
		return Transaction{}, false
	}

	return l.entries[len(l.entries)-1], true
}

// restore replaces the history with entries loaded from a store.
func (l *Ledger) restore(entries []Transaction) {
	l.entries = make([]Transaction, len(entries))
	copy(l.entries, entries)
}
