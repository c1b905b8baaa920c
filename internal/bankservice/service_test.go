package bankservice

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bankcore/bankcore/internal/accountrepo"
	"github.com/bankcore/bankcore/internal/domain"
	"github.com/bankcore/bankcore/internal/interest"
	"github.com/bankcore/bankcore/pkg/errorspkg"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testDefaults() Defaults {
	return Defaults{
		SavingsInterestRate:          dec("0.04"),
		SavingsMinBalanceForInterest: dec("1000"),
		LoanInterestRate:             dec("0.08"),
		CurrentOverdraftLimit:        dec("50000"),
	}
}

func testService(t *testing.T) (*Service, *accountrepo.RepoMem) {
	t.Helper()

	repo := accountrepo.NewRepoMem()

	return New(repo, testDefaults()), repo
}

// recordingObserver captures fan-out events for assertions on order and
// delivery counts.
type recordingObserver struct {
	events []string
}

func (o *recordingObserver) OnTransaction(account *domain.Account, tx domain.Transaction) {
	o.events = append(o.events, account.ID()+":"+string(tx.Type)+":"+tx.Amount.String())
}

func TestCreateAccount(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	testCases := []struct {
		name    string
		typ     domain.AccountType
		id      string
		holder  string
		initial string
		check   func(t *testing.T, account *domain.Account)
		wantErr error
	}{
		{
			name: "Savings", typ: domain.Savings, id: "SA001", holder: "alice", initial: "50000",
			check: func(t *testing.T, account *domain.Account) {
				require.True(t, account.InterestRate().Equal(dec("0.04")))
				require.True(t, account.MinBalanceForInterest().Equal(dec("1000")))
			},
		},
		{
			name: "Current", typ: domain.Current, id: "CA001", holder: "bob", initial: "150000",
			check: func(t *testing.T, account *domain.Account) {
				require.True(t, account.OverdraftLimit().Equal(dec("50000")))
			},
		},
		{
			name: "Loan", typ: domain.Loan, id: "LA001", holder: "charlie", initial: "500000",
			check: func(t *testing.T, account *domain.Account) {
				require.True(t, account.InterestRate().Equal(dec("0.08")))
				require.True(t, account.OriginalLoanAmount().Equal(dec("500000")))
			},
		},
		{
			name: "Duplicate", typ: domain.Savings, id: "SA001", holder: "alice", initial: "100",
			wantErr: domain.ErrAccountExists,
		},
		{
			name: "MissingHolder", typ: domain.Savings, id: "SA002", holder: "", initial: "100",
			wantErr: domain.ErrInvalidConfig,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			account, err := svc.CreateAccount(ctx, tc.typ, tc.id, tc.holder, dec(tc.initial))

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.id, account.ID())
			require.True(t, account.Balance().Equal(dec(tc.initial)))
			tc.check(t, account)

			stored, err := svc.GetAccount(ctx, tc.id)
			require.NoError(t, err)
			require.Equal(t, tc.id, stored.ID())
		})
	}
}

func TestCreateAccountRepoErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	svc := New(repo, testDefaults())
	ctx := context.Background()

	repo.EXPECT().Exists(gomock.Any(), "SA001").Return(false, errors.New("store down"))

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("100"))
	require.ErrorIs(t, err, errorspkg.ErrInternal)

	repo.EXPECT().Exists(gomock.Any(), "SA002").Return(false, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errorspkg.ErrInternal)

	_, err = svc.CreateAccount(ctx, domain.Savings, "SA002", "alice", dec("100"))
	require.ErrorIs(t, err, errorspkg.ErrInternal)
}

func TestDeposit(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("50000"))
	require.NoError(t, err)

	rec := &recordingObserver{}
	svc.AddObserver(rec)

	tx, err := svc.Deposit(ctx, "SA001", dec("25000"))
	require.NoError(t, err)
	require.True(t, tx.BalanceAfter.Equal(dec("75000")))
	require.Equal(t, []string{"SA001:Deposit:25000"}, rec.events)

	_, err = svc.Deposit(ctx, "SA404", dec("100"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestDepositReclassifiesAccountErrors(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Loan, "LA001", "charlie", dec("1000"))
	require.NoError(t, err)

	rec := &recordingObserver{}
	svc.AddObserver(rec)

	// Invalid amount and loan overpayment both surface the same way.
	_, err = svc.Deposit(ctx, "LA001", dec("-5"))
	require.ErrorIs(t, err, domain.ErrInvalidTransaction)

	_, err = svc.Deposit(ctx, "LA001", dec("2000"))
	require.ErrorIs(t, err, domain.ErrInvalidTransaction)

	require.Empty(t, rec.events)
}

func TestWithdraw(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("75000"))
	require.NoError(t, err)

	tx, err := svc.Withdraw(ctx, "SA001", dec("10000"))
	require.NoError(t, err)
	require.True(t, tx.BalanceAfter.Equal(dec("65000")))

	_, err = svc.Withdraw(ctx, "SA404", dec("100"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestWithdrawReclassifiesAccountErrors(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("100"))
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, domain.Loan, "LA001", "charlie", dec("1000"))
	require.NoError(t, err)

	// Insufficient funds, invalid amount and the loan no-withdrawal rule all
	// surface as the same error at this boundary.
	_, err = svc.Withdraw(ctx, "SA001", dec("200"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = svc.Withdraw(ctx, "SA001", dec("-5"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = svc.Withdraw(ctx, "LA001", dec("100"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestTransfer(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("50000"))
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, domain.Current, "CA001", "bob", dec("150000"))
	require.NoError(t, err)

	rec := &recordingObserver{}
	svc.AddObserver(rec)

	res, err := svc.Transfer(ctx, "SA001", "CA001", dec("15000"))
	require.NoError(t, err)
	require.Equal(t, domain.TypeWithdrawal, res.FromTransaction.Type)
	require.True(t, res.FromTransaction.BalanceAfter.Equal(dec("35000")))
	require.Equal(t, domain.TypeDeposit, res.ToTransaction.Type)
	require.True(t, res.ToTransaction.BalanceAfter.Equal(dec("165000")))

	// Both legs notified, source first.
	want := []string{
		"SA001:Withdrawal:15000",
		"CA001:Deposit:15000",
	}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("fan-out events mismatch (-want +got):\n%s", diff)
	}
}

func TestTransferSameAccount(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("50000"))
	require.NoError(t, err)

	_, err = svc.Transfer(ctx, "SA001", "SA001", dec("100"))
	require.ErrorIs(t, err, domain.ErrSameAccountTransfer)
}

func TestTransferInsufficientFunds(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("1000"))
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, domain.Current, "CA001", "bob", dec("150000"))
	require.NoError(t, err)

	rec := &recordingObserver{}
	svc.AddObserver(rec)

	_, err = svc.Transfer(ctx, "SA001", "CA001", dec("5000"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	from, err := svc.GetAccount(ctx, "SA001")
	require.NoError(t, err)
	to, err := svc.GetAccount(ctx, "CA001")
	require.NoError(t, err)

	require.True(t, from.Balance().Equal(dec("1000")))
	require.True(t, to.Balance().Equal(dec("150000")))
	require.Empty(t, from.Transactions())
	require.Empty(t, to.Transactions())
	require.Empty(t, rec.events)
}

func TestTransferSecondLegFailure(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("50000"))
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, domain.Loan, "LA001", "charlie", dec("1000"))
	require.NoError(t, err)

	rec := &recordingObserver{}
	svc.AddObserver(rec)

	// The loan cannot absorb more than its outstanding debt, so the credit
	// leg fails after the debit went through. The source stays debited.
	_, err = svc.Transfer(ctx, "SA001", "LA001", dec("5000"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	from, err := svc.GetAccount(ctx, "SA001")
	require.NoError(t, err)
	to, err := svc.GetAccount(ctx, "LA001")
	require.NoError(t, err)

	require.True(t, from.Balance().Equal(dec("45000")))
	require.True(t, to.Balance().Equal(dec("1000")))
	require.Len(t, from.Transactions(), 1)
	require.Empty(t, to.Transactions())
	require.Empty(t, rec.events, "no fan-out for a failed transfer")
}

func TestCalculateInterestDefault(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("10000"))
	require.NoError(t, err)

	applied, err := svc.CalculateInterest(ctx, "SA001")
	require.NoError(t, err)
	require.True(t, applied.Equal(dec("400")))

	account, err := svc.GetAccount(ctx, "SA001")
	require.NoError(t, err)
	require.True(t, account.Balance().Equal(dec("10400")))

	txs := account.Transactions()
	require.Len(t, txs, 1)
	require.Equal(t, domain.TypeInterest, txs[0].Type)
}

func TestCalculateInterestWithStrategy(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("10400"))
	require.NoError(t, err)

	tiered, err := interest.NewTiered(dec("100000"), dec("0.03"), dec("500000"), dec("0.04"), dec("0.05"))
	require.NoError(t, err)
	svc.SetInterestStrategy(tiered)

	got, err := svc.CalculateInterest(ctx, "SA001")
	require.NoError(t, err)
	require.True(t, got.Equal(dec("312")), "got %s", got)

	// Pure calculation: no mutation, no ledger entry.
	account, err := svc.GetAccount(ctx, "SA001")
	require.NoError(t, err)
	require.True(t, account.Balance().Equal(dec("10400")))
	require.Empty(t, account.Transactions())

	// Clearing the strategy restores the mutating accrual.
	svc.SetInterestStrategy(nil)

	applied, err := svc.CalculateInterest(ctx, "SA001")
	require.NoError(t, err)
	require.True(t, applied.Equal(dec("416")))
	require.True(t, account.Balance().Equal(dec("10816")))
	require.Len(t, account.Transactions(), 1)
}

func TestCalculateInterestNotFound(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.CalculateInterest(context.Background(), "SA404")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestObserverMembership(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("50000"))
	require.NoError(t, err)

	first := &recordingObserver{}
	second := &recordingObserver{}
	svc.AddObserver(first)
	svc.AddObserver(second)

	_, err = svc.Deposit(ctx, "SA001", dec("100"))
	require.NoError(t, err)
	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)

	svc.RemoveObserver(first)

	_, err = svc.Deposit(ctx, "SA001", dec("100"))
	require.NoError(t, err)
	require.Len(t, first.events, 1, "removed observer no longer notified")
	require.Len(t, second.events, 2)
}

func TestListAccounts(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "Alice", dec("100"))
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, domain.Current, "CA001", "alice", dec("100"))
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, domain.Savings, "SA002", "bob", dec("100"))
	require.NoError(t, err)

	accounts, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	byHolder, err := svc.ListAccountsByHolder(ctx, "ALICE")
	require.NoError(t, err)
	require.Len(t, byHolder, 2)
}

func TestTransactionHistory(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, domain.Savings, "SA001", "alice", dec("1000"))
	require.NoError(t, err)

	_, err = svc.Deposit(ctx, "SA001", dec("100"))
	require.NoError(t, err)

	history, err := svc.TransactionHistory(ctx, "SA001")
	require.NoError(t, err)
	require.Len(t, history, 1)

	// The history is a snapshot.
	history[0].AccountID = "mutated"

	fresh, err := svc.TransactionHistory(ctx, "SA001")
	require.NoError(t, err)
	require.Equal(t, "SA001", fresh[0].AccountID)

	_, err = svc.TransactionHistory(ctx, "SA404")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
