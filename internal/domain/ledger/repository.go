package ledger

import (
	"context"
	"time"
)

// Repository is the idempotency ledger for confirmation events.
type Repository interface {
	// TryAdmit records the entry if its key is absent or expired and reports
	// whether it did. It is a single atomic operation against the store.
	TryAdmit(ctx context.Context, entry Entry) (bool, error)
	// Seen reports whether a live entry exists for key. It is a read only
	// hint; TryAdmit stays the authority.
	Seen(ctx context.Context, key Key, now time.Time) (bool, error)
	// Release forgets a key so a redelivery of the same event can be applied.
	Release(ctx context.Context, key Key) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
