package match

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidEvent = errors.New("invalid confirmation event")

type ConfirmationValue string

const (
	ConfirmationAttending ConfirmationValue = "attending"
	ConfirmationAbsent    ConfirmationValue = "absent"
	ConfirmationUndecided ConfirmationValue = "undecided"
)

// ConfirmationKind describes how a confirmation value is rendered and counted.
type ConfirmationKind struct {
	Value     ConfirmationValue `json:"value"`
	Label     string            `json:"label"`
	Attending bool              `json:"attending"`
}

var confirmationKinds = []ConfirmationKind{
	{Value: ConfirmationAttending, Label: "⚽[PLAY]", Attending: true},
	{Value: ConfirmationAbsent, Label: "💩[SLEEP]"},
	{Value: ConfirmationUndecided, Label: "🤔[?]"},
}

// ConfirmationKinds returns the known kinds in display order.
func ConfirmationKinds() []ConfirmationKind {
	return append([]ConfirmationKind(nil), confirmationKinds...)
}

func KindOf(value ConfirmationValue) (ConfirmationKind, bool) {
	for _, kind := range confirmationKinds {
		if kind.Value == value {
			return kind, true
		}
	}
	return ConfirmationKind{}, false
}

func (v ConfirmationValue) IsValid() bool {
	_, ok := KindOf(v)
	return ok
}

func (v ConfirmationValue) IsAttending() bool {
	kind, ok := KindOf(v)
	return ok && kind.Attending
}

// ConfirmationEvent is one inbound attendance action. EventID is the caller's
// idempotency token; redeliveries reuse it.
type ConfirmationEvent struct {
	MatchID    string
	EventID    string
	PlayerID   string
	PlayerName string
	Value      *ConfirmationValue
	GuestDelta *int
}

func (e ConfirmationEvent) Validate() error {
	if strings.TrimSpace(e.MatchID) == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidEvent)
	}
	if strings.TrimSpace(e.EventID) == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidEvent)
	}
	if strings.TrimSpace(e.PlayerID) == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidEvent)
	}
	if e.Value == nil && e.GuestDelta == nil {
		return fmt.Errorf("%w: confirmation value or guest delta is required", ErrInvalidEvent)
	}
	if e.Value != nil && !e.Value.IsValid() {
		return fmt.Errorf("%w: unknown confirmation value %q", ErrInvalidEvent, *e.Value)
	}
	if e.GuestDelta != nil && *e.GuestDelta == 0 {
		return fmt.Errorf("%w: guest delta must be non-zero", ErrInvalidEvent)
	}

	return nil
}

// IsGuestOnly reports an event that changes the guest count without a primary
// confirmation of its own.
func (e ConfirmationEvent) IsGuestOnly() bool {
	return e.Value == nil && e.GuestDelta != nil
}

// ConfirmationUpdate is the field-level mutation derived from an event.
type ConfirmationUpdate struct {
	MatchID    string
	PlayerID   string
	PlayerName string
	Value      *ConfirmationValue
	GuestDelta int
	RecordedAt time.Time
}

func NewConfirmationUpdate(e ConfirmationEvent, now time.Time) ConfirmationUpdate {
	update := ConfirmationUpdate{
		MatchID:    strings.TrimSpace(e.MatchID),
		PlayerID:   strings.TrimSpace(e.PlayerID),
		PlayerName: strings.TrimSpace(e.PlayerName),
		RecordedAt: now.UTC(),
	}
	if e.Value != nil {
		value := *e.Value
		update.Value = &value
	}
	if e.GuestDelta != nil {
		update.GuestDelta = *e.GuestDelta
	}
	if update.PlayerName == "" {
		update.PlayerName = update.PlayerID
	}
	return update
}

// Apply returns a copy of m with the update applied. Guest counts never go
// below zero.
func (m Match) Apply(u ConfirmationUpdate) Match {
	out := m.Clone()
	if u.Value != nil {
		out.Squad[u.PlayerID] = Confirmation{Value: *u.Value, RecordedAt: u.RecordedAt}
	}
	if u.GuestDelta != 0 {
		guests := out.ExtraGuests[u.PlayerID] + u.GuestDelta
		if guests < 0 {
			guests = 0
		}
		out.ExtraGuests[u.PlayerID] = guests
	}
	out.DisplayNames[u.PlayerID] = u.PlayerName
	out.UpdatedAt = u.RecordedAt
	return out
}
