package kvstore

import (
	portsrepo "github.com/SscSPs/finovate_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository onto the same store so that
// they share one document and one lock.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: newKVAccountRepository(store),
		LedgerRepo:  newKVLedgerRepository(store),
		GoalRepo:    newKVGoalRepository(store),
	}
}
