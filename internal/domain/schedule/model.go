package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrInvalidWeekday = errors.New("weekday must be between 1 and 7")
	ErrInvalidTime    = errors.New("time of day must be between 00:00 and 23:59")
)

// WeeklySlot is one repeating (ISO weekday, time of day) pair. Monday=1, Sunday=7.
type WeeklySlot struct {
	Weekday int `json:"day"`
	Hour    int `json:"hour"`
	Minute  int `json:"minute"`
}

// DefaultSchedule is assigned to newly registered teams.
func DefaultSchedule() []WeeklySlot {
	return []WeeklySlot{
		{Weekday: 1, Hour: 5, Minute: 0},
		{Weekday: 4, Hour: 5, Minute: 0},
	}
}

func (s WeeklySlot) Validate() error {
	if s.Weekday < 1 || s.Weekday > 7 {
		return fmt.Errorf("%w: got %d", ErrInvalidWeekday, s.Weekday)
	}
	if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("%w: got %02d:%02d", ErrInvalidTime, s.Hour, s.Minute)
	}

	return nil
}

// String renders the slot in the same weekday@HH:mm form ParseRecurrence accepts.
func (s WeeklySlot) String() string {
	return fmt.Sprintf("%d@%02d:%02d", s.Weekday, s.Hour, s.Minute)
}

func (s WeeklySlot) Label() string {
	return fmt.Sprintf("%s %02d:%02d", isoWeekday(s.Weekday).String()[:3], s.Hour, s.Minute)
}

func (s WeeklySlot) minuteOfWeek() int {
	return (s.Weekday-1)*24*60 + s.Hour*60 + s.Minute
}

func (s WeeklySlot) less(other WeeklySlot) bool {
	return s.minuteOfWeek() < other.minuteOfWeek()
}

// Normalize drops invalid slots and duplicates and returns the rest in weekly order.
func Normalize(slots []WeeklySlot) []WeeklySlot {
	seen := make(map[WeeklySlot]struct{}, len(slots))
	out := make([]WeeklySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Validate() != nil {
			continue
		}
		if _, ok := seen[slot]; ok {
			continue
		}
		seen[slot] = struct{}{}
		out = append(out, slot)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].less(out[j])
	})

	return out
}

func isoWeekday(weekday int) time.Weekday {
	return time.Weekday(weekday % 7)
}
