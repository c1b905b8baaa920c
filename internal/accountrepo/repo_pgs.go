package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/bankcore/bankcore/internal/domain"
	"github.com/bankcore/bankcore/pkg/dbpkg"
	"github.com/bankcore/bankcore/pkg/errorspkg"
)

// RepoPGS is the Postgres-backed keyed store. Expected schema:
//
//	accounts (
//	    id                       TEXT PRIMARY KEY,
//	    holder_name              TEXT NOT NULL,
//	    type                     TEXT NOT NULL,
//	    balance                  NUMERIC NOT NULL,
//	    interest_rate            NUMERIC NOT NULL,
//	    minimum_balance          NUMERIC NOT NULL,
//	    min_balance_for_interest NUMERIC NOT NULL,
//	    overdraft_limit          NUMERIC NOT NULL,
//	    original_loan_amount     NUMERIC NOT NULL,
//	    active                   BOOLEAN NOT NULL,
//	    created_at               TIMESTAMPTZ NOT NULL
//	)
//	transactions (
//	    id            TEXT PRIMARY KEY,
//	    account_id    TEXT NOT NULL REFERENCES accounts (id),
//	    type          TEXT NOT NULL,
//	    amount        NUMERIC NOT NULL,
//	    balance_after NUMERIC NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    description   TEXT NOT NULL
//	)
//
// Ledger entries are id-ordered on load; ULIDs sort chronologically.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const saveAccountQuery = `
INSERT INTO
    accounts (id, holder_name, type, balance, interest_rate, minimum_balance,
              min_balance_for_interest, overdraft_limit, original_loan_amount,
              active, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE
SET balance = EXCLUDED.balance,
    active  = EXCLUDED.active
`

const saveTransactionQuery = `
INSERT INTO
    transactions (id, account_id, type, amount, balance_after, created_at, description)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING
`

// Save upserts the account row and inserts any ledger entries that are not
// stored yet. Ledger entries are append-only, so re-inserting the full
// history with conflicts ignored converges on the stored ledger.
func (r *RepoPGS) Save(ctx context.Context, account *domain.Account) error {
	l := zerolog.Ctx(ctx)

	_, err := r.db.ExecContext(ctx, saveAccountQuery,
		account.ID(),
		account.HolderName(),
		string(account.Type()),
		account.Balance(),
		account.InterestRate(),
		account.MinimumBalance(),
		account.MinBalanceForInterest(),
		account.OverdraftLimit(),
		account.OriginalLoanAmount(),
		account.Active(),
		account.CreatedAt(),
	)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	for _, tx := range account.Transactions() {
		_, err := r.db.ExecContext(ctx, saveTransactionQuery,
			tx.ID,
			tx.AccountID,
			string(tx.Type),
			tx.Amount,
			tx.BalanceAfter,
			tx.CreatedAt,
			tx.Description,
		)
		if err != nil {
			l.Error().Err(err).Send()

			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
				return domain.ErrAccountNotFound
			}

			return errorspkg.ErrInternal
		}
	}

	return nil
}

const getAccountQuery = `
SELECT id, holder_name, type, balance, interest_rate, minimum_balance,
       min_balance_for_interest, overdraft_limit, original_loan_amount,
       active, created_at
FROM accounts
WHERE id = $1
`

// Get loads the account and its full ledger.
func (r *RepoPGS) Get(ctx context.Context, id string) (*domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getAccountQuery, id)

	p, err := scanAccount(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return nil, errorspkg.ErrInternal
	}

	p.Transactions, err = r.listTransactions(ctx, id)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return domain.RestoreAccount(p), nil
}

const listAccountsQuery = `
SELECT id, holder_name, type, balance, interest_rate, minimum_balance,
       min_balance_for_interest, overdraft_limit, original_loan_amount,
       active, created_at
FROM accounts
ORDER BY id
`

// List loads all accounts with their ledgers.
func (r *RepoPGS) List(ctx context.Context) ([]*domain.Account, error) {
	return r.list(ctx, listAccountsQuery)
}

const listByHolderQuery = `
SELECT id, holder_name, type, balance, interest_rate, minimum_balance,
       min_balance_for_interest, overdraft_limit, original_loan_amount,
       active, created_at
FROM accounts
WHERE LOWER(holder_name) = LOWER($1)
ORDER BY id
`

// ListByHolder loads the accounts whose holder name matches name,
// case-insensitively.
func (r *RepoPGS) ListByHolder(ctx context.Context, name string) ([]*domain.Account, error) {
	return r.list(ctx, listByHolderQuery, name)
}

const deleteAccountQuery = `
DELETE FROM accounts
WHERE id = $1
`

// Delete removes the account row.
func (r *RepoPGS) Delete(ctx context.Context, id string) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteAccountQuery, id)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

const existsQuery = `
SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)
`

// Exists reports whether an account row with the given id exists.
func (r *RepoPGS) Exists(ctx context.Context, id string) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool
	if err := r.db.QueryRowContext(ctx, existsQuery, id).Scan(&exists); err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return exists, nil
}

const listTransactionsQuery = `
SELECT id, account_id, type, amount, balance_after, created_at, description
FROM transactions
WHERE account_id = $1
ORDER BY id
`

func (r *RepoPGS) listTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, listTransactionsQuery, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction

	for rows.Next() {
		var (
			tx  domain.Transaction
			typ string
		)

		err := rows.Scan(&tx.ID, &tx.AccountID, &typ, &tx.Amount, &tx.BalanceAfter, &tx.CreatedAt, &tx.Description)
		if err != nil {
			return nil, err
		}

		tx.Type = domain.TransactionType(typ)
		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	var params []domain.RestoreAccountParams

	for rows.Next() {
		p, err := scanAccount(rows.Scan)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		params = append(params, p)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	accounts := make([]*domain.Account, 0, len(params))

	for _, p := range params {
		p.Transactions, err = r.listTransactions(ctx, p.ID)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		accounts = append(accounts, domain.RestoreAccount(p))
	}

	return accounts, nil
}

func scanAccount(scan func(...interface{}) error) (domain.RestoreAccountParams, error) {
	var (
		p   domain.RestoreAccountParams
		typ string
	)

	err := scan(
		&p.ID,
		&p.HolderName,
		&typ,
		&p.Balance,
		&p.InterestRate,
		&p.MinimumBalance,
		&p.MinBalanceForInterest,
		&p.OverdraftLimit,
		&p.OriginalLoanAmount,
		&p.Active,
		&p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	p.Type = domain.AccountType(typ)

	return p, nil
}
