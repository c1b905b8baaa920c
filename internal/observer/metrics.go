package observer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bankcore/bankcore/internal/domain"
)

// Metrics exports transaction counters and an amount distribution.
type Metrics struct {
	transactionsTotal *prometheus.CounterVec
	transactionAmount *prometheus.HistogramVec
}

// NewMetrics registers the transaction metrics with reg and returns the
// observer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_transactions_total",
				Help: "Total number of recorded transactions.",
			},
			[]string{"type"},
		),
		transactionAmount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bank_transaction_amount",
				Help:    "Transaction amounts.",
				Buckets: prometheus.ExponentialBuckets(10, 10, 7), // 10 .. 10M
			},
			[]string{"type"},
		),
	}
	reg.MustRegister(m.transactionsTotal, m.transactionAmount)

	return m
}

// OnTransaction updates the counters for the transaction type.
func (m *Metrics) OnTransaction(_ *domain.Account, tx domain.Transaction) {
	m.transactionsTotal.WithLabelValues(string(tx.Type)).Inc()
	m.transactionAmount.WithLabelValues(string(tx.Type)).Observe(tx.Amount.InexactFloat64())
}
