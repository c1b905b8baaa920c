package observer

import (
	"github.com/rs/zerolog"

	"github.com/bankcore/bankcore/internal/domain"
)

// Notification emits a log line per transaction. It retains no state.
type Notification struct {
	logger zerolog.Logger
}

// NewNotification returns a notification observer writing to logger.
func NewNotification(logger zerolog.Logger) *Notification {
	return &Notification{logger: logger}
}

// OnTransaction logs the transaction for the account holder.
func (o *Notification) OnTransaction(account *domain.Account, tx domain.Transaction) {
	o.logger.Info().
		Str("holder", account.HolderName()).
		Str("account_id", account.ID()).
		Str("type", string(tx.Type)).
		Str("amount", tx.Amount.StringFixed(2)).
		Str("balance", tx.BalanceAfter.StringFixed(2)).
		Msg("transaction notification")
}
