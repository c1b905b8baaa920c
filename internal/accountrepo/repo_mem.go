// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bankcore/bankcore/internal/domain"
)

// RepoMem is the in-memory keyed store. Accounts are shared aggregates: Get
// hands back the stored pointer, so mutations through the account are
// visible immediately and Save only needs to register new accounts.
type RepoMem struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewRepoMem returns an empty in-memory account store.
func NewRepoMem() *RepoMem {
	return &RepoMem{accounts: make(map[string]*domain.Account)}
}

// Save stores the account under its id.
func (r *RepoMem) Save(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts[account.ID()] = account

	return nil
}

// Get returns the account for the given id.
func (r *RepoMem) Get(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// List returns all accounts ordered by id.
func (r *RepoMem) List(ctx context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID() < accounts[j].ID() })

	return accounts, nil
}

// ListByHolder returns the accounts whose holder name matches name,
// case-insensitively.
func (r *RepoMem) ListByHolder(ctx context.Context, name string) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var accounts []*domain.Account

	for _, account := range r.accounts {
		if strings.EqualFold(account.HolderName(), name) {
			accounts = append(accounts, account)
		}
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID() < accounts[j].ID() })

	return accounts, nil
}

// Delete removes the account for the given id.
func (r *RepoMem) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}

	delete(r.accounts, id)

	return nil
}

// Exists reports whether an account with the given id is stored.
func (r *RepoMem) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.accounts[id]

	return ok, nil
}
