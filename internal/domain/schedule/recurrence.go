package schedule

import (
	"strconv"
	"strings"
)

// ParseRecurrence reads a comma-separated list of weekday@HH:mm tokens
// (e.g. "1@05:00,4@05:00"). Tokens that do not parse are skipped, so a fully
// malformed definition comes back empty rather than as an error.
func ParseRecurrence(definition string) []WeeklySlot {
	tokens := strings.Split(definition, ",")
	slots := make([]WeeklySlot, 0, len(tokens))
	for _, token := range tokens {
		slot, ok := parseToken(token)
		if !ok {
			continue
		}
		slots = append(slots, slot)
	}

	return Normalize(slots)
}

func FormatRecurrence(slots []WeeklySlot) string {
	ordered := Normalize(slots)
	parts := make([]string, 0, len(ordered))
	for _, slot := range ordered {
		parts = append(parts, slot.String())
	}

	return strings.Join(parts, ",")
}

func parseToken(token string) (WeeklySlot, bool) {
	day, clock, found := strings.Cut(strings.TrimSpace(token), "@")
	if !found {
		return WeeklySlot{}, false
	}
	hourPart, minutePart, found := strings.Cut(strings.TrimSpace(clock), ":")
	if !found {
		return WeeklySlot{}, false
	}

	weekday, ok := parseBoundedInt(day, 1)
	if !ok {
		return WeeklySlot{}, false
	}
	hour, ok := parseBoundedInt(hourPart, 2)
	if !ok {
		return WeeklySlot{}, false
	}
	minute, ok := parseBoundedInt(minutePart, 2)
	if !ok {
		return WeeklySlot{}, false
	}

	slot := WeeklySlot{Weekday: weekday, Hour: hour, Minute: minute}
	if slot.Validate() != nil {
		return WeeklySlot{}, false
	}

	return slot, true
}

func parseBoundedInt(raw string, maxDigits int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxDigits {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return value, true
}
