package analysis

import (
	"time"

	"rehab/internal/ledger"
)

// CalendarDay is one cell of a month grid. Padding cells have Day == 0.
type CalendarDay struct {
	Day         int
	Count       int
	Progress    float64
	GoalReached bool
	Today       bool
}

// MonthCalendar is a month laid out in weeks of seven cells
type MonthCalendar struct {
	Year      int
	Month     time.Month
	WeekStart time.Weekday
	Weeks     [][7]CalendarDay
}

// Title is e.g. "March 2024"
func (c MonthCalendar) Title() string {
	return time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// WeekdayHeaders returns single-letter day names starting at WeekStart
func (c MonthCalendar) WeekdayHeaders() [7]string {
	letters := [7]string{"S", "M", "T", "W", "T", "F", "S"}
	var out [7]string
	for i := range out {
		out[i] = letters[(int(c.WeekStart)+i)%7]
	}
	return out
}

// BuildMonth lays out year/month with per-day counts against goal
func BuildMonth(sessions []ledger.Session, goal int, year int, month time.Month, today time.Time, weekStart time.Weekday, loc *time.Location) MonthCalendar {
	counts := DailyCounts(sessions, loc)
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	todayKey := DayKey(today, loc)

	cal := MonthCalendar{Year: first.Year(), Month: first.Month(), WeekStart: weekStart}

	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	var week [7]CalendarDay
	col := offset

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, loc)
		key := DayKey(date, loc)
		count := counts[key]
		progress := GoalProgress(count, goal)

		week[col] = CalendarDay{
			Day:         day,
			Count:       count,
			Progress:    progress,
			GoalReached: progress >= 1,
			Today:       key == todayKey,
		}
		col++
		if col == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = [7]CalendarDay{}
			col = 0
		}
	}
	if col > 0 {
		cal.Weeks = append(cal.Weeks, week)
	}
	return cal
}

// ShiftMonth moves year/month by delta months
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// ParseWeekStart maps "monday" to time.Monday and anything else to Sunday
func ParseWeekStart(s string) time.Weekday {
	if s == "monday" {
		return time.Monday
	}
	return time.Sunday
}
