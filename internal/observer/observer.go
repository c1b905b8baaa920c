// Package observer provides transaction subscribers notified after every
// successful mutating operation.
package observer

import "github.com/bankcore/bankcore/internal/domain"

// Observer receives the account and the transaction just appended to its
// ledger. Subscribers are invoked synchronously, in subscription order, and
// must only read the immutable transaction record and the account's
// immutable attributes.
type Observer interface {
	OnTransaction(account *domain.Account, tx domain.Transaction)
}
