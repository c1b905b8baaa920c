package observer

import (
	"fmt"
	"sync"
	"time"

	"github.com/bankcore/bankcore/internal/domain"
)

// AuditLog accumulates a formatted record per transaction.
type AuditLog struct {
	mu      sync.Mutex
	records []string
}

// NewAuditLog returns an empty audit log.
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// OnTransaction appends a formatted audit record.
func (o *AuditLog) OnTransaction(account *domain.Account, tx domain.Transaction) {
	record := fmt.Sprintf("[%s] Account: %s | %s | Amount: $%s | Balance: $%s",
		tx.CreatedAt.Format(time.RFC3339),
		account.ID(),
		tx.Type,
		tx.Amount.StringFixed(2),
		tx.BalanceAfter.StringFixed(2),
	)

	o.mu.Lock()
	defer o.mu.Unlock()

	o.records = append(o.records, record)
}

// Records returns a copy of the accumulated audit records in notification
// order.
func (o *AuditLog) Records() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]string, len(o.records))
	copy(out, o.records)

	return out
}
