package schedule

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []WeeklySlot
	}{
		{
			name: "two slots",
			in:   "1@05:00,4@05:00",
			want: []WeeklySlot{{Weekday: 1, Hour: 5}, {Weekday: 4, Hour: 5}},
		},
		{
			name: "whitespace and single digit hour",
			in:   " 6 @ 7:30 , 2@19:05",
			want: []WeeklySlot{{Weekday: 2, Hour: 19, Minute: 5}, {Weekday: 6, Hour: 7, Minute: 30}},
		},
		{
			name: "bad tokens are dropped",
			in:   "1@05:00,8@05:00,3@25:00,mon@05:00,4@0500,5@18:60,7@23:59",
			want: []WeeklySlot{{Weekday: 1, Hour: 5}, {Weekday: 7, Hour: 23, Minute: 59}},
		},
		{
			name: "duplicates collapse",
			in:   "4@05:00,4@5:00,4@05:00",
			want: []WeeklySlot{{Weekday: 4, Hour: 5}},
		},
		{
			name: "nothing parses",
			in:   "every monday at five",
			want: []WeeklySlot{},
		},
		{
			name: "empty definition",
			in:   "",
			want: []WeeklySlot{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRecurrence(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseRecurrence(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatRecurrence_RoundTrip(t *testing.T) {
	in := "4@05:00,1@05:00,7@23:59"

	formatted := FormatRecurrence(ParseRecurrence(in))
	if formatted != "1@05:00,4@05:00,7@23:59" {
		t.Fatalf("unexpected formatted recurrence: %q", formatted)
	}
	if got := FormatRecurrence(ParseRecurrence(formatted)); got != formatted {
		t.Fatalf("expected stable format, got %q", got)
	}
}

func TestWeeklySlot_Validate(t *testing.T) {
	if err := (WeeklySlot{Weekday: 0, Hour: 5}).Validate(); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
	if err := (WeeklySlot{Weekday: 1, Hour: 5, Minute: 60}).Validate(); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
	if err := (WeeklySlot{Weekday: 7, Hour: 23, Minute: 59}).Validate(); err != nil {
		t.Fatalf("expected valid slot, got %v", err)
	}
}

func TestWeeklySlot_Label(t *testing.T) {
	if got := (WeeklySlot{Weekday: 7, Hour: 9, Minute: 5}).Label(); got != "Sun 09:05" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := (WeeklySlot{Weekday: 1, Hour: 5}).Label(); got != "Mon 05:00" {
		t.Fatalf("unexpected label: %q", got)
	}
}
