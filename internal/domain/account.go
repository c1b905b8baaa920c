// Package domain provides definitions of all entities and their rules.
package domain

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates a non-positive operation amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds indicates a withdrawal exceeding the available
	// balance or overdraft headroom.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrMinimumBalance indicates a withdrawal that would push the balance
	// below the account's floor.
	ErrMinimumBalance = errors.New("balance cannot go below the minimum")
	// ErrOverpayment indicates a loan payment exceeding the outstanding
	// balance.
	ErrOverpayment = errors.New("payment exceeds remaining loan balance")
	// ErrWithdrawalsNotAllowed indicates a direct withdrawal on a loan
	// account.
	ErrWithdrawalsNotAllowed = errors.New("loan accounts do not support withdrawals")
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists indicates that the account id is already taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrSameAccountTransfer indicates a transfer with identical source and
	// target accounts.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
	// ErrInvalidTransaction indicates a deposit rejected by the account
	// layer, whatever the underlying condition was.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrInvalidConfig indicates invalid account construction parameters.
	ErrInvalidConfig = errors.New("invalid account configuration")
)

// AccountType tags the closed set of account variants.
type AccountType string

// The supported account variants.
const (
	Savings AccountType = "Savings"
	Current AccountType = "Current"
	Loan    AccountType = "Loan"
)

// Account is a bank account of one of the closed variants. Variant rules
// dispatch on the type tag. The account exclusively owns its ledger; every
// successful mutation appends exactly one transaction whose BalanceAfter
// matches the balance left behind.
//
// Mutating methods serialize on a per-account mutex. Transfers take both
// account locks in id order; see Transfer.
type Account struct {
	id             string
	holderName     string
	typ            AccountType
	interestRate   decimal.Decimal
	minimumBalance decimal.Decimal
	createdAt      time.Time

	// Variant-specific configuration, immutable after construction.
	minBalanceForInterest decimal.Decimal // Savings
	overdraftLimit        decimal.Decimal // Current
	originalLoanAmount    decimal.Decimal // Loan

	mu      sync.Mutex
	balance decimal.Decimal
	active  bool
	ledger  Ledger
}

// NewAccountParams configures a new account. Zero values are valid for every
// optional field; variant fields not matching Type are ignored.
type NewAccountParams struct {
	ID                    string
	HolderName            string
	Type                  AccountType
	InitialAmount         decimal.Decimal
	InterestRate          decimal.Decimal
	MinimumBalance        decimal.Decimal
	MinBalanceForInterest decimal.Decimal
	OverdraftLimit        decimal.Decimal
}

// NewAccount validates the configuration and returns the account. For loans
// the initial amount is the principal: it must be positive and is kept as
// OriginalLoanAmount while the balance tracks the outstanding debt.
func NewAccount(p NewAccountParams) (*Account, error) {
	if p.ID == "" || p.HolderName == "" {
		return nil, ErrInvalidConfig
	}

	switch p.Type {
	case Savings, Current, Loan:
	default:
		return nil, ErrInvalidConfig
	}

	if p.InterestRate.IsNegative() ||
		p.MinimumBalance.IsNegative() ||
		p.MinBalanceForInterest.IsNegative() ||
		p.OverdraftLimit.IsNegative() {
		return nil, ErrInvalidConfig
	}

	if p.InitialAmount.IsNegative() {
		return nil, ErrInvalidConfig
	}

	if p.Type == Loan && !p.InitialAmount.IsPositive() {
		return nil, ErrInvalidConfig
	}

	a := &Account{
		id:             p.ID,
		holderName:     p.HolderName,
		typ:            p.Type,
		interestRate:   p.InterestRate,
		minimumBalance: p.MinimumBalance,
		createdAt:      time.Now().UTC(),
		balance:        p.InitialAmount,
		active:         true,
	}

	switch p.Type {
	case Savings:
		a.minBalanceForInterest = p.MinBalanceForInterest
	case Current:
		a.overdraftLimit = p.OverdraftLimit
	case Loan:
		a.originalLoanAmount = p.InitialAmount
	}

	return a, nil
}

// RestoreAccountParams carries the persisted state of an account.
type RestoreAccountParams struct {
	ID                    string
	HolderName            string
	Type                  AccountType
	Balance               decimal.Decimal
	InterestRate          decimal.Decimal
	MinimumBalance        decimal.Decimal
	MinBalanceForInterest decimal.Decimal
	OverdraftLimit        decimal.Decimal
	OriginalLoanAmount    decimal.Decimal
	Active                bool
	CreatedAt             time.Time
	Transactions          []Transaction
}

// RestoreAccount rebuilds an account from stored state without revalidating
// it. Intended for repository implementations only.
func RestoreAccount(p RestoreAccountParams) *Account {
	a := &Account{
		id:                    p.ID,
		holderName:            p.HolderName,
		typ:                   p.Type,
		interestRate:          p.InterestRate,
		minimumBalance:        p.MinimumBalance,
		minBalanceForInterest: p.MinBalanceForInterest,
		overdraftLimit:        p.OverdraftLimit,
		originalLoanAmount:    p.OriginalLoanAmount,
		createdAt:             p.CreatedAt,
		balance:               p.Balance,
		active:                p.Active,
	}
	a.ledger.restore(p.Transactions)

	return a
}

// ID returns the globally unique account id.
func (a *Account) ID() string { return a.id }

// HolderName returns the account holder's name.
func (a *Account) HolderName() string { return a.holderName }

// Type returns the variant tag.
func (a *Account) Type() AccountType { return a.typ }

// InterestRate returns the yearly interest rate as a fraction.
func (a *Account) InterestRate() decimal.Decimal { return a.interestRate }

// MinimumBalance returns the floor the balance may not cross on withdrawal.
func (a *Account) MinimumBalance() decimal.Decimal { return a.minimumBalance }

// MinBalanceForInterest returns the savings threshold below which no
// interest accrues.
func (a *Account) MinBalanceForInterest() decimal.Decimal { return a.minBalanceForInterest }

// OverdraftLimit returns the maximum permitted negative balance magnitude of
// a current account.
func (a *Account) OverdraftLimit() decimal.Decimal { return a.overdraftLimit }

// OriginalLoanAmount returns the principal a loan account was opened with.
func (a *Account) OriginalLoanAmount() decimal.Decimal { return a.originalLoanAmount }

// CreatedAt returns the creation instant.
func (a *Account) CreatedAt() time.Time { return a.createdAt }

// Balance returns the current balance. For loans this is the outstanding
// debt.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.balance
}

// RemainingBalance is the loan-flavored alias for Balance.
func (a *Account) RemainingBalance() decimal.Decimal { return a.Balance() }

// Active reports whether the account is active.
func (a *Account) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.active
}

// SetActive toggles the active flag.
func (a *Account) SetActive(active bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.active = active
}

// Transactions returns a snapshot of the account's ledger in chronological
// order.
func (a *Account) Transactions() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.ledger.Entries()
}

// Deposit credits the account. On a loan account it is treated as a payment
// against the outstanding balance and fails with ErrOverpayment when it
// exceeds the remaining debt.
func (a *Account) Deposit(amount decimal.Decimal) (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.deposit(amount)
}

// Withdraw debits the account. Savings accounts keep the balance at or above
// the minimum, current accounts may go negative down to the overdraft limit,
// loan accounts accept no direct withdrawals.
func (a *Account) Withdraw(amount decimal.Decimal) (Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.withdraw(amount)
}

// AccrueInterest computes and applies the account's own interest: savings
// accounts credit balance*rate once the balance reaches the interest
// threshold, loan accounts grow their debt by balance*rate. Both record a
// ledger entry. Current accounts never accrue. The returned figure is the
// applied interest; zero means no mutation and no ledger entry.
func (a *Account) AccrueInterest() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.typ {
	case Savings:
		if a.balance.GreaterThanOrEqual(a.minBalanceForInterest) {
			interest := a.balance.Mul(a.interestRate)
			a.balance = a.balance.Add(interest)
			a.ledger.Append(TypeInterest, interest, a.id, a.balance, "Interest")

			return interest
		}
	case Loan:
		if a.balance.IsPositive() {
			interest := a.balance.Mul(a.interestRate)
			a.balance = a.balance.Add(interest)
			a.ledger.Append(TypeInterest, interest, a.id, a.balance, "Loan Interest Charged")

			return interest
		}
	}

	return decimal.Zero
}

func (a *Account) deposit(amount decimal.Decimal) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}

	if a.typ == Loan {
		if amount.GreaterThan(a.balance) {
			return Transaction{}, ErrOverpayment
		}

		a.balance = a.balance.Sub(amount)

		return a.ledger.Append(TypeDeposit, amount, a.id, a.balance, "Loan Payment"), nil
	}

	a.balance = a.balance.Add(amount)

	return a.ledger.Append(TypeDeposit, amount, a.id, a.balance, "Deposit"), nil
}

func (a *Account) withdraw(amount decimal.Decimal) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}

	switch a.typ {
	case Loan:
		return Transaction{}, ErrWithdrawalsNotAllowed
	case Current:
		if amount.GreaterThan(a.balance.Add(a.overdraftLimit)) {
			return Transaction{}, ErrInsufficientFunds
		}

		a.balance = a.balance.Sub(amount)

		return a.ledger.Append(TypeWithdrawal, amount, a.id, a.balance, "Withdrawal (Current)"), nil
	default:
		if amount.GreaterThan(a.balance) {
			return Transaction{}, ErrInsufficientFunds
		}

		if a.balance.Sub(amount).LessThan(a.minimumBalance) {
			return Transaction{}, ErrMinimumBalance
		}

		a.balance = a.balance.Sub(amount)

		return a.ledger.Append(TypeWithdrawal, amount, a.id, a.balance, "Withdrawal"), nil
	}
}

// Transfer debits from and credits to under both account locks, acquired in
// id order to stay deadlock free. The two legs are not atomic: when the
// credit leg fails the debit is NOT compensated, the source stays debited
// and the returned from-transaction reflects that. The caller decides how to
// surface this.
func Transfer(from, to *Account, amount decimal.Decimal) (fromTx, toTx Transaction, err error) {
	if from.id == to.id {
		return Transaction{}, Transaction{}, ErrSameAccountTransfer
	}

	first, second := from, to
	if second.id < first.id {
		first, second = second, first
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	fromTx, err = from.withdraw(amount)
	if err != nil {
		return Transaction{}, Transaction{}, err
	}

	toTx, err = to.deposit(amount)
	if err != nil {
		return fromTx, Transaction{}, err
	}

	return fromTx, toTx, nil
}
