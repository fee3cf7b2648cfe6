package schedule

import "time"

// NextOccurrence returns the earliest slot timestamp strictly after now, in UTC
// with minute precision. An empty schedule yields now unchanged; callers decide
// what an undefined schedule means for them.
func NextOccurrence(slots []WeeklySlot, now time.Time) time.Time {
	ordered := Normalize(slots)
	if len(ordered) == 0 {
		return now
	}

	now = now.UTC()
	weekStart := startOfISOWeek(now)
	for _, slot := range ordered {
		candidate := slotInWeek(weekStart, slot)
		if candidate.After(now) {
			return candidate
		}
	}

	return slotInWeek(weekStart.AddDate(0, 0, 7), ordered[0])
}

func startOfISOWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}

func slotInWeek(weekStart time.Time, slot WeeklySlot) time.Time {
	return time.Date(
		weekStart.Year(),
		weekStart.Month(),
		weekStart.Day()+slot.Weekday-1,
		slot.Hour,
		slot.Minute,
		0, 0, time.UTC,
	)
}
