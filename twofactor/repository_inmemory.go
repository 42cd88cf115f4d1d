// SPDX-License-Identifier: MIT

package twofactor

import (
	"context"
	"slices"
	"sync"

	"github.com/jschibelli/accountguard/connectors/storage"
)

type (
	// InMemoryRepository is the non-durable Repository used by tests and by
	// callers that handle persistence elsewhere.
	InMemoryRepository struct {
		records map[string]*Record
		mx      sync.RWMutex
	}
)

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]*Record)}
}

func (r *InMemoryRepository) GetRecord(_ context.Context, accountID string) (*Record, error) {
	r.mx.RLock()
	defer r.mx.RUnlock()
	record, found := r.records[accountID]
	if !found {
		return nil, storage.ErrNotFound
	}

	return copyRecord(record), nil
}

func (r *InMemoryRepository) SaveRecord(_ context.Context, record *Record) error {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.records[record.AccountID] = copyRecord(record)

	return nil
}

func (r *InMemoryRepository) DeleteRecord(_ context.Context, accountID string) error {
	r.mx.Lock()
	defer r.mx.Unlock()
	delete(r.records, accountID)

	return nil
}

func copyRecord(record *Record) *Record {
	clone := *record
	clone.BackupCodes = slices.Clone(record.BackupCodes)

	return &clone
}
