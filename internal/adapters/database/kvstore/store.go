// Package kvstore persists the ledger as one JSON document per namespace on a
// kv.Backend. Every write is a full read-modify-write of that document.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/SscSPs/finovate_app/internal/adapters/database/kv"
	"github.com/SscSPs/finovate_app/internal/apperrors"
	"github.com/SscSPs/finovate_app/internal/core/domain"
)

// Document is the persisted state layout. Collection names are part of the
// storage format and must not change.
type Document struct {
	Accounts      []domain.Account          `json:"accounts"`
	Transactions  []domain.Transaction      `json:"transactions"`
	Goals         []domain.FinancialGoal    `json:"financial_goals"`
	Contributions []domain.GoalContribution `json:"goal_contributions"`
}

// IsEmpty reports whether the document holds no records at all.
func (d *Document) IsEmpty() bool {
	return len(d.Accounts) == 0 && len(d.Transactions) == 0 && len(d.Goals) == 0 && len(d.Contributions) == 0
}

func (d *Document) accountIndex(accountID string) int {
	for i := range d.Accounts {
		if d.Accounts[i].AccountID == accountID {
			return i
		}
	}
	return -1
}

func (d *Document) transactionIndex(transactionID string) int {
	for i := range d.Transactions {
		if d.Transactions[i].TransactionID == transactionID {
			return i
		}
	}
	return -1
}

func (d *Document) goalIndex(goalID string) int {
	for i := range d.Goals {
		if d.Goals[i].GoalID == goalID {
			return i
		}
	}
	return -1
}

// Store serializes access to the state document of one namespace.
type Store struct {
	backend kv.Backend
	key     string
	mu      sync.Mutex
}

// NewStore returns a store keeping its document under namespace on backend.
func NewStore(backend kv.Backend, namespace string) *Store {
	return &Store{backend: backend, key: namespace}
}

func (s *Store) load(ctx context.Context) (*Document, error) {
	doc := &Document{}
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load state document: %w", apperrors.ErrInternal, err)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: decode state document: %w", apperrors.ErrInternal, err)
	}
	return doc, nil
}

func (s *Store) save(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode state document: %w", apperrors.ErrInternal, err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: save state document: %w", apperrors.ErrInternal, err)
	}
	return nil
}

// View runs fn against a freshly loaded document. fn must not retain it.
func (s *Store) View(ctx context.Context, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update loads the document, lets fn mutate it and writes it back. When fn
// returns an error nothing is written, so the mutation is all-or-nothing.
func (s *Store) Update(ctx context.Context, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(ctx, doc)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
