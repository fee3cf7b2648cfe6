package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/ledger"
)

type LedgerRepository struct {
	mu      sync.Mutex
	entries map[ledger.Key]ledger.Entry
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{entries: make(map[ledger.Key]ledger.Entry)}
}

func (r *LedgerRepository) TryAdmit(_ context.Context, entry ledger.Entry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[entry.Key]; ok && !existing.Expired(entry.RecordedAt) {
		return false, nil
	}
	r.entries[entry.Key] = entry

	return true, nil
}

func (r *LedgerRepository) Seen(_ context.Context, key ledger.Key, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[key]
	return ok && !existing.Expired(now), nil
}

func (r *LedgerRepository) Release(_ context.Context, key ledger.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

func (r *LedgerRepository) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var purged int64
	for key, entry := range r.entries {
		if entry.Expired(now) {
			delete(r.entries, key)
			purged++
		}
	}

	return purged, nil
}

func (r *LedgerRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}
