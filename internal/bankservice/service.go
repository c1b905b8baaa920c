// Package bankservice manages the business logic layer of banking
// operations.
package bankservice

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bankcore/bankcore/internal/domain"
	"github.com/bankcore/bankcore/internal/interest"
	"github.com/bankcore/bankcore/internal/observer"
	"github.com/bankcore/bankcore/pkg/errorspkg"
)

// Repo provides the account storage contract needed by the service layer.
// Any keyed store satisfying it is interchangeable.
//
//go:generate mockgen -source service.go -destination service_mock.go -package bankservice
type Repo interface {
	Save(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	ListByHolder(ctx context.Context, name string) ([]*domain.Account, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// Defaults holds the named account construction constants applied per
// variant when an account is created.
type Defaults struct {
	SavingsInterestRate          decimal.Decimal
	SavingsMinBalanceForInterest decimal.Decimal
	LoanInterestRate             decimal.Decimal
	CurrentOverdraftLimit        decimal.Decimal
}

// Service orchestrates account operations: it validates requests, delegates
// to the account layer, persists the outcome, applies the configured
// interest strategy and drives the observer fan-out.
type Service struct {
	repo     Repo
	defaults Defaults

	mu        sync.RWMutex
	observers []observer.Observer
	strategy  interest.Strategy
}

// New returns a banking service over the given store.
func New(repo Repo, defaults Defaults) *Service {
	return &Service{repo: repo, defaults: defaults}
}

// AddObserver subscribes o. The change takes effect for subsequent
// notifications only.
func (s *Service) AddObserver(o observer.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, o)
}

// RemoveObserver unsubscribes the first subscription of o. The change takes
// effect for subsequent notifications only.
func (s *Service) RemoveObserver(o observer.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.observers {
		if sub == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// SetInterestStrategy installs the pluggable interest policy. A nil strategy
// restores the account-level default behavior.
func (s *Service) SetInterestStrategy(strategy interest.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strategy = strategy
}

// CreateAccount constructs the variant with its configuration defaults and
// persists it.
func (s *Service) CreateAccount(ctx context.Context, typ domain.AccountType, id, holderName string, initialAmount decimal.Decimal) (*domain.Account, error) {
	l := zerolog.Ctx(ctx)

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if exists {
		return nil, domain.ErrAccountExists
	}

	params := domain.NewAccountParams{
		ID:            id,
		HolderName:    holderName,
		Type:          typ,
		InitialAmount: initialAmount,
	}

	switch typ {
	case domain.Savings:
		params.InterestRate = s.defaults.SavingsInterestRate
		params.MinBalanceForInterest = s.defaults.SavingsMinBalanceForInterest
	case domain.Current:
		params.OverdraftLimit = s.defaults.CurrentOverdraftLimit
	case domain.Loan:
		params.InterestRate = s.defaults.LoanInterestRate
	}

	account, err := domain.NewAccount(params)
	if err != nil {
		l.Info().Err(err).Send()
		return nil, err
	}

	if err := s.repo.Save(ctx, account); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return account, nil
}

// Deposit credits the account and notifies the observers. Any account-layer
// validation failure surfaces as ErrInvalidTransaction: the reclassification
// is by call site, not by underlying condition.
func (s *Service) Deposit(ctx context.Context, id string, amount decimal.Decimal) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	account, err := s.repo.Get(ctx, id)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	tx, err := account.Deposit(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, domain.ErrInvalidTransaction
	}

	if err := s.repo.Save(ctx, account); err != nil {
		l.Error().Err(err).Send()
		return tx, errorspkg.ErrInternal
	}

	s.notify(account, tx)

	return tx, nil
}

// Withdraw debits the account and notifies the observers. Any account-layer
// validation failure surfaces as ErrInsufficientFunds, even when the
// underlying condition was an invalid amount or the loan no-withdrawal rule:
// the reclassification is by call site, not by underlying condition.
func (s *Service) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	account, err := s.repo.Get(ctx, id)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, err
	}

	tx, err := account.Withdraw(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, domain.ErrInsufficientFunds
	}

	if err := s.repo.Save(ctx, account); err != nil {
		l.Error().Err(err).Send()
		return tx, errorspkg.ErrInternal
	}

	s.notify(account, tx)

	return tx, nil
}

// Transfer debits the source and credits the target as two sequential,
// non-atomic legs. When the credit leg fails the source stays debited with
// no compensating action; the debit is persisted and the call reports
// ErrInsufficientFunds. Observers are notified for both legs only after
// both succeed. This mirrors the documented limitation of the reference
// behavior.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	if fromID == toID {
		return domain.TransferResult{}, domain.ErrSameAccountTransfer
	}

	from, err := s.repo.Get(ctx, fromID)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.TransferResult{}, err
	}

	to, err := s.repo.Get(ctx, toID)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.TransferResult{}, err
	}

	fromTx, toTx, err := domain.Transfer(from, to, amount)
	if err != nil {
		l.Info().Err(err).Send()

		if fromTx.ID != "" {
			// The debit leg went through. Persist it so the store
			// and the ledger agree on the partial outcome.
			l.Warn().Str("from", fromID).Str("to", toID).Msg("transfer source debited without credit")

			if saveErr := s.repo.Save(ctx, from); saveErr != nil {
				l.Error().Err(saveErr).Send()
				return domain.TransferResult{}, errorspkg.ErrInternal
			}
		}

		return domain.TransferResult{}, domain.ErrInsufficientFunds
	}

	if err := s.repo.Save(ctx, from); err != nil {
		l.Error().Err(err).Send()
		return domain.TransferResult{}, errorspkg.ErrInternal
	}

	if err := s.repo.Save(ctx, to); err != nil {
		l.Error().Err(err).Send()
		return domain.TransferResult{}, errorspkg.ErrInternal
	}

	s.notify(from, fromTx)
	s.notify(to, toTx)

	return domain.TransferResult{FromTransaction: fromTx, ToTransaction: toTx}, nil
}

// CalculateInterest returns the account's interest. With a strategy
// configured the figure is a pure calculation: no balance mutation, no
// ledger entry, no observer fan-out. Without one the account's own accrual
// runs, which mutates the balance and records a transaction for savings and
// loan accounts.
func (s *Service) CalculateInterest(ctx context.Context, id string) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	account, err := s.repo.Get(ctx, id)
	if err != nil {
		l.Info().Err(err).Send()
		return decimal.Zero, err
	}

	s.mu.RLock()
	strategy := s.strategy
	s.mu.RUnlock()

	if strategy != nil {
		return strategy.Calculate(account.Balance(), account.InterestRate()), nil
	}

	applied := account.AccrueInterest()

	if err := s.repo.Save(ctx, account); err != nil {
		l.Error().Err(err).Send()
		return applied, errorspkg.ErrInternal
	}

	return applied, nil
}

// GetAccount returns the account for the given id.
func (s *Service) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// ListAccounts returns all stored accounts.
func (s *Service) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.repo.List(ctx)
}

// ListAccountsByHolder returns the accounts held by name, matched
// case-insensitively.
func (s *Service) ListAccountsByHolder(ctx context.Context, name string) ([]*domain.Account, error) {
	return s.repo.ListByHolder(ctx, name)
}

// TransactionHistory returns a snapshot of the account's ledger.
func (s *Service) TransactionHistory(ctx context.Context, id string) ([]domain.Transaction, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return account.Transactions(), nil
}

// notify drives the observer fan-out for one appended transaction. The
// subscriber list is snapshotted first, so membership changes made during a
// notification apply to subsequent notifications only. No account lock is
// held here.
func (s *Service) notify(account *domain.Account, tx domain.Transaction) {
	s.mu.RLock()
	subscribers := make([]observer.Observer, len(s.observers))
	copy(subscribers, s.observers)
	s.mu.RUnlock()

	for _, sub := range subscribers {
		sub.OnTransaction(account, tx)
	}
}
