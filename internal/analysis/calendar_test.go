package analysis

import (
	"testing"
	"time"
)

func TestBuildMonth(t *testing.T) {
	sessions := sessionsAt(day(1, 9), day(12, 9), day(12, 11), day(12, 14), day(31, 20), time.Date(2024, 2, 29, 9, 0, 0, 0, testLoc))

	tests := []struct {
		name      string
		weekStart time.Weekday
		firstCol  int
		weeks     int
	}{
		// March 1st 2024 is a Friday
		{"sunday start", time.Sunday, 5, 6},
		{"monday start", time.Monday, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := BuildMonth(sessions, 3, 2024, time.March, day(12, 18), tt.weekStart, testLoc)

			if cal.Title() != "March 2024" {
				t.Errorf("Title() = %q", cal.Title())
			}
			if len(cal.Weeks) != tt.weeks {
				t.Fatalf("len(Weeks) = %d, want %d", len(cal.Weeks), tt.weeks)
			}

			first := cal.Weeks[0]
			for col := 0; col < tt.firstCol; col++ {
				if first[col].Day != 0 {
					t.Errorf("padding cell %d has day %d", col, first[col].Day)
				}
			}
			if first[tt.firstCol].Day != 1 || first[tt.firstCol].Count != 1 {
				t.Errorf("first day cell = %+v", first[tt.firstCol])
			}

			days := 0
			var twelfth, eleventh CalendarDay
			for _, w := range cal.Weeks {
				for _, c := range w {
					if c.Day == 0 {
						continue
					}
					days++
					switch c.Day {
					case 12:
						twelfth = c
					case 11:
						eleventh = c
					}
				}
			}
			if days != 31 {
				t.Errorf("day cells = %d, want 31", days)
			}
			if !twelfth.Today || !twelfth.GoalReached || twelfth.Count != 3 {
				t.Errorf("12th = %+v, want today with goal reached", twelfth)
			}
			if eleventh.Today || eleventh.Progress != 0 {
				t.Errorf("11th = %+v", eleventh)
			}
		})
	}
}

func TestWeekdayHeaders(t *testing.T) {
	cal := MonthCalendar{WeekStart: time.Monday}
	if got := cal.WeekdayHeaders(); got != [7]string{"M", "T", "W", "T", "F", "S", "S"} {
		t.Errorf("WeekdayHeaders() = %v", got)
	}
}

func TestShiftMonth(t *testing.T) {
	tests := []struct {
		year      int
		month     time.Month
		delta     int
		wantYear  int
		wantMonth time.Month
	}{
		{2024, time.March, -1, 2024, time.February},
		{2024, time.January, -1, 2023, time.December},
		{2024, time.December, 1, 2025, time.January},
	}
	for _, tt := range tests {
		y, m := ShiftMonth(tt.year, tt.month, tt.delta)
		if y != tt.wantYear || m != tt.wantMonth {
			t.Errorf("ShiftMonth(%d, %v, %d) = %d %v", tt.year, tt.month, tt.delta, y, m)
		}
	}
}

func TestParseWeekStart(t *testing.T) {
	if ParseWeekStart("monday") != time.Monday || ParseWeekStart("sunday") != time.Sunday || ParseWeekStart("") != time.Sunday {
		t.Error("ParseWeekStart mismatch")
	}
}
