package tui

import (
	"fmt"
	"strings"
	"time"

	"rehab/internal/analysis"
	"rehab/internal/ledger"
	"rehab/internal/plan"
	"rehab/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
)

// statsChromeHeight is what the header, nav, cards and footer take up
// above the history viewport.
const statsChromeHeight = 32

// StatsModel shows the month calendar, headline numbers, a daily chart and
// the scrollable session history.
type StatsModel struct {
	tracker     *service.Tracker
	weekStart   time.Weekday
	historyDays int

	year  int
	month time.Month

	viewport viewport.Model
	ready    bool
}

// NewStatsModel creates a new stats model showing the current month
func NewStatsModel(tracker *service.Tracker, weekStart time.Weekday, historyDays int) StatsModel {
	now := tracker.Now()
	return StatsModel{
		tracker:     tracker,
		weekStart:   weekStart,
		historyDays: historyDays,
		year:        now.Year(),
		month:       now.Month(),
	}
}

// Refresh rebuilds the history after the ledger changed
func (m StatsModel) Refresh() StatsModel {
	if m.ready {
		m.viewport.SetContent(m.renderHistory())
	}
	return m
}

// Update handles messages
func (m StatsModel) Update(msg tea.Msg) (StatsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-statsChromeHeight, 5)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.viewport.SetContent(m.renderHistory())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "h", "left":
			m.year, m.month = analysis.ShiftMonth(m.year, m.month, -1)
			return m, nil
		case "l", "right":
			m.year, m.month = analysis.ShiftMonth(m.year, m.month, 1)
			return m, nil
		case "t":
			now := m.tracker.Now()
			m.year, m.month = now.Year(), now.Month()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// View renders the stats screen
func (m StatsModel) View() string {
	sessions := m.tracker.Sessions()
	now := m.tracker.Now()
	loc := m.tracker.Location()

	cal := analysis.BuildMonth(sessions, m.tracker.Goal(), m.year, m.month, now, m.weekStart, loc)
	summary := analysis.Summarize(sessions, m.tracker.Goal(), now, loc)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderCalendar(cal), "  ", m.renderSummary(summary))

	sections := []string{topRow, m.renderChart(sessions, now)}

	history := cardTitleStyle.Render("Recent History")
	if m.ready {
		history = lipgloss.JoinVertical(lipgloss.Left, history, m.viewport.View())
	} else {
		history = lipgloss.JoinVertical(lipgloss.Left, history, m.renderHistory())
	}
	sections = append(sections, history,
		statusStyle.Render("h/l: previous/next month  t: this month  j/k: scroll history"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m StatsModel) renderCalendar(cal analysis.MonthCalendar) string {
	title := cardTitleStyle.Render(cal.Title())

	var header strings.Builder
	for _, d := range cal.WeekdayHeaders() {
		header.WriteString(calendarCellStyle.Foreground(mutedColor).Render(d))
	}

	rows := []string{header.String()}
	for _, week := range cal.Weeks {
		var row strings.Builder
		for _, day := range week {
			row.WriteString(renderCalendarDay(day))
		}
		rows = append(rows, row.String())
	}

	legend := mutedStyle.Render("green: goal met  orange: some sessions")
	rows = append(rows, "", legend)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func renderCalendarDay(d analysis.CalendarDay) string {
	if d.Day == 0 {
		return calendarCellStyle.Render("")
	}

	style := calendarCellStyle
	switch {
	case d.GoalReached:
		style = calendarGoalStyle
	case d.Count > 0:
		style = calendarPartialStyle
	}
	if d.Today {
		style = style.Underline(true).Bold(true)
	}
	return style.Render(fmt.Sprint(d.Day))
}

func (m StatsModel) renderSummary(s analysis.Summary) string {
	title := cardTitleStyle.Render("Your Progress")

	lines := []string{
		RenderMetric("Total sessions", humanize.Comma(int64(s.TotalSessions))),
		RenderMetric("Time exercising", formatDuration(s.TotalSeconds)),
		RenderMetric("Today", fmt.Sprintf("%d / %d", s.CompletedToday, s.Goal)),
		RenderMetric("Current streak", plural(s.Streak, "day")),
		RenderMetric("Days goal met", humanize.Comma(int64(s.DaysGoalMet))),
	}
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m StatsModel) renderChart(sessions []ledger.Session, now time.Time) string {
	title := cardTitleStyle.Render(fmt.Sprintf("Sessions per Day - Last %d Days", m.historyDays))

	values, labels := analysis.LastNDays(sessions, m.historyDays, now, m.tracker.Location())
	if len(values) < 2 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "Not enough data"))
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(6),
		asciigraph.Width(60),
		asciigraph.Precision(0),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(float64(m.tracker.Goal())),
	)
	span := mutedStyle.Render(fmt.Sprintf("%s to %s", labels[0], labels[len(labels)-1]))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, span))
}

func (m StatsModel) renderHistory() string {
	sessions := m.tracker.Sessions()
	if len(sessions) == 0 {
		return mutedStyle.Render("Start a session to see your progress here!")
	}

	now := m.tracker.Now()
	loc := m.tracker.Location()
	var lines []string
	for _, g := range analysis.GroupByDay(sessions, loc) {
		day := g.Date.Format("Monday, January 2, 2006")
		lines = append(lines, sectionStyle.Render(day)+"  "+mutedStyle.Render(plural(len(g.Sessions), "Session")))
		for _, s := range g.Sessions {
			lines = append(lines, renderHistoryRow(s.Plan, s.Date.In(loc), now))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func renderHistoryRow(p plan.Plan, at, now time.Time) string {
	return rowStyle.Render(fmt.Sprintf("%-20s %s  %s  %s",
		p.Name,
		at.Format("15:04"),
		formatClock(p.TotalSeconds()),
		mutedStyle.Render(humanize.RelTime(at, now, "ago", "from now")),
	))
}
