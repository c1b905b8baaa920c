package observer

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bankcore/bankcore/internal/domain"
)

var nearTotalShare = decimal.RequireFromString("0.9")

// Flag marks a transaction for review.
type Flag struct {
	AccountID     string
	TransactionID string
	Reason        string
	Amount        decimal.Decimal
}

// FraudDetection flags large transactions and near-total withdrawals.
type FraudDetection struct {
	threshold decimal.Decimal
	logger    zerolog.Logger

	mu    sync.Mutex
	flags []Flag
}

// NewFraudDetection returns a fraud detector flagging transactions above the
// absolute threshold.
func NewFraudDetection(threshold decimal.Decimal, logger zerolog.Logger) *FraudDetection {
	return &FraudDetection{threshold: threshold, logger: logger}
}

// OnTransaction flags the transaction when its amount exceeds the absolute
// threshold, and additionally when a withdrawal takes more than 90% of the
// pre-withdrawal balance.
func (o *FraudDetection) OnTransaction(account *domain.Account, tx domain.Transaction) {
	if tx.Amount.GreaterThan(o.threshold) {
		o.flag(account, tx, "large transaction")
	}

	if tx.Type == domain.TypeWithdrawal {
		balanceBefore := tx.BalanceAfter.Add(tx.Amount)
		if tx.Amount.GreaterThan(balanceBefore.Mul(nearTotalShare)) {
			o.flag(account, tx, "near-total withdrawal")
		}
	}
}

// Flags returns a copy of the accumulated flags in notification order.
func (o *FraudDetection) Flags() []Flag {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Flag, len(o.flags))
	copy(out, o.flags)

	return out
}

func (o *FraudDetection) flag(account *domain.Account, tx domain.Transaction, reason string) {
	o.logger.Warn().
		Str("account_id", account.ID()).
		Str("transaction_id", tx.ID).
		Str("amount", tx.Amount.StringFixed(2)).
		Str("reason", reason).
		Msg("fraud alert")

	o.mu.Lock()
	defer o.mu.Unlock()

	o.flags = append(o.flags, Flag{
		AccountID:     account.ID(),
		TransactionID: tx.ID,
		Reason:        reason,
		Amount:        tx.Amount,
	})
}
