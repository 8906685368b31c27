package analysis

import (
	"sort"
	"time"

	"rehab/internal/ledger"
)

const dayKeyLayout = "2006-01-02"

// DayKey identifies t's calendar day in loc
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

// StartOfDay returns local midnight of t's calendar day
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DailyCounts counts sessions per calendar day
func DailyCounts(sessions []ledger.Session, loc *time.Location) map[string]int {
	counts := make(map[string]int)
	for _, s := range sessions {
		counts[DayKey(s.Date, loc)]++
	}
	return counts
}

// GoalProgress is count/goal clamped to [0, 1]
func GoalProgress(count, goal int) float64 {
	if goal <= 0 || count <= 0 {
		return 0
	}
	return min(float64(count)/float64(goal), 1)
}

// DayGroup is one calendar day of history
type DayGroup struct {
	Date     time.Time
	Sessions []ledger.Session
}

// GroupByDay buckets sessions by calendar day, most recent day first.
// Within a day sessions keep the order they were given in.
func GroupByDay(sessions []ledger.Session, loc *time.Location) []DayGroup {
	index := make(map[string]int)
	var groups []DayGroup

	for _, s := range sessions {
		key := DayKey(s.Date, loc)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Date: StartOfDay(s.Date, loc)})
		}
		groups[i].Sessions = append(groups[i].Sessions, s)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return groups
}

// CurrentStreak counts consecutive days on which the goal was met, ending
// today. A today that has not met the goal yet does not break the streak.
func CurrentStreak(sessions []ledger.Session, goal int, today time.Time, loc *time.Location) int {
	if goal <= 0 {
		return 0
	}
	counts := DailyCounts(sessions, loc)

	day := StartOfDay(today, loc)
	if counts[DayKey(day, loc)] < goal {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for counts[DayKey(day, loc)] >= goal {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LastNDays returns per-day session counts for the n days ending today,
// oldest first, with short date labels.
func LastNDays(sessions []ledger.Session, n int, today time.Time, loc *time.Location) ([]float64, []string) {
	if n <= 0 {
		return nil, nil
	}
	counts := DailyCounts(sessions, loc)
	start := StartOfDay(today, loc).AddDate(0, 0, -(n - 1))

	values := make([]float64, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		day := start.AddDate(0, 0, i)
		values[i] = float64(counts[DayKey(day, loc)])
		labels[i] = day.Format("Jan 02")
	}
	return values, labels
}

// TotalSeconds sums the planned duration of every session
func TotalSeconds(sessions []ledger.Session) int {
	total := 0
	for _, s := range sessions {
		total += s.Plan.TotalSeconds()
	}
	return total
}

// Summary holds headline numbers for the stats screen and CLI
type Summary struct {
	TotalSessions  int
	TotalSeconds   int
	CompletedToday int
	Goal           int
	Streak         int
	DaysGoalMet    int
}

// Summarize computes the headline numbers
func Summarize(sessions []ledger.Session, goal int, today time.Time, loc *time.Location) Summary {
	counts := DailyCounts(sessions, loc)
	met := 0
	for _, c := range counts {
		if goal > 0 && c >= goal {
			met++
		}
	}
	return Summary{
		TotalSessions:  len(sessions),
		TotalSeconds:   TotalSeconds(sessions),
		CompletedToday: counts[DayKey(today, loc)],
		Goal:           goal,
		Streak:         CurrentStreak(sessions, goal, today, loc),
		DaysGoalMet:    met,
	}
}
