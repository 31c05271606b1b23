package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"zero padded", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "2024-05-01"},
		{"late evening stays on the same day", time.Date(2024, 5, 1, 23, 59, 0, 0, time.Local), "2024-05-01"},
		{"double digits", time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC), "2025-12-31"},
		{"small year", time.Date(987, 1, 2, 0, 0, 0, 0, time.UTC), "0987-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateKey(tt.in); got != tt.want {
				t.Errorf("DateKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDateKey(t *testing.T) {
	got, err := ParseDateKey("2024-05-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if DateKey(got) != "2024-05-02" {
		t.Errorf("round trip: got %s", DateKey(got))
	}

	if _, err := ParseDateKey("05/02/2024"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
	}
}

func TestParseDate(t *testing.T) {
	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2025, 1, 10, 14, 30, 12, 99, time.UTC)
	want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if got := TruncateToDay(in); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 1, 10, 0, 1, 0, 0, time.UTC)
	b := time.Date(2025, 1, 10, 23, 0, 0, 0, time.UTC)
	c := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("expected same day")
	}
	if SameDay(a, c) {
		t.Error("expected different days")
	}
}

func TestParseRelativeDate(t *testing.T) {
	// Friday, January 10, 2025
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"empty returns today", "", day(10)},
		{"today keyword", "TODAY", day(10)},
		{"tomorrow", "tomorrow", day(11)},
		{"yesterday", "yesterday", day(9)},
		{"plus offset", "+3", day(13)},
		{"minus offset", "-2", day(8)},
		{"next monday", "monday", day(13)},
		{"same weekday is next week", "friday", day(17)},
		{"absolute date in the past", "2025-01-02", day(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, friday)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRelativeDate_Errors(t *testing.T) {
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	for _, input := range []string{"next-year", "+x", "2025/01/10", "someday"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseRelativeDate(input, friday); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
			}
		})
	}
}

func TestWeekRange(t *testing.T) {
	monday := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC)

	for _, day := range []int{13, 15, 19} {
		in := time.Date(2025, 1, day, 17, 45, 0, 0, time.UTC)
		start, end := WeekRange(in)
		if !start.Equal(monday) || !end.Equal(sunday) {
			t.Errorf("WeekRange(%s) = %s..%s, want %s..%s",
				DateKey(in), DateKey(start), DateKey(end), DateKey(monday), DateKey(sunday))
		}
	}
}
