package ledger

import (
	"errors"
	"strings"
	"time"
)

// DefaultRetention bounds how long a processed event key blocks redelivery.
const DefaultRetention = 72 * time.Hour

var ErrInvalidKey = errors.New("ledger key requires event, match and player ids")

// Key identifies one processed confirmation event.
type Key struct {
	EventID  string
	MatchID  string
	PlayerID string
}

func (k Key) Validate() error {
	if strings.TrimSpace(k.EventID) == "" || strings.TrimSpace(k.MatchID) == "" || strings.TrimSpace(k.PlayerID) == "" {
		return ErrInvalidKey
	}
	return nil
}

func (k Key) String() string {
	return k.EventID + "::" + k.MatchID + "::" + k.PlayerID
}

type Entry struct {
	Key           Key
	RecordedAt    time.Time
	RetainedUntil time.Time
}

func NewEntry(key Key, now time.Time, retention time.Duration) Entry {
	if retention <= 0 {
		retention = DefaultRetention
	}
	now = now.UTC()
	return Entry{
		Key:           key,
		RecordedAt:    now,
		RetainedUntil: now.Add(retention),
	}
}

// Expired entries no longer count as processed.
func (e Entry) Expired(now time.Time) bool {
	return !e.RetainedUntil.After(now)
}
