package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/pomocycle/internal/cycles"
	"github.com/sadopc/pomocycle/internal/store"
)

const chartTasks = 8

var statusFilters = []cycles.Status{"", cycles.StatusInProgress, cycles.StatusFinished, cycles.StatusInterrupted}

type historyModel struct {
	store  *store.Store
	width  int
	height int
	now    func() time.Time

	filter    int // index into statusFilters
	cycles    []cycles.Cycle
	summaries []store.TaskSummary
	offset    int

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		now:   time.Now,
		chart: barchart.New(60, 10),
	}
}

func (h *historyModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

type historyDataMsg struct {
	cycles    []cycles.Cycle
	summaries []store.TaskSummary
}

func (h historyModel) refresh() tea.Cmd {
	f := store.CycleFilter{Status: statusFilters[h.filter]}
	return func() tea.Msg {
		list, err := h.store.ListCycles(f)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("History error: %v", err), isError: true}
		}
		sums, err := h.store.TaskSummaries()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("History error: %v", err), isError: true}
		}
		return historyDataMsg{cycles: list, summaries: sums}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.cycles = msg.cycles
		h.summaries = msg.summaries
		if h.offset > max(0, len(h.cycles)-1) {
			h.offset = max(0, len(h.cycles)-1)
		}
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if h.offset > 0 {
				h.offset--
			}
		case key.Matches(msg, keys.Down):
			if h.offset < len(h.cycles)-1 {
				h.offset++
			}
		case key.Matches(msg, keys.Filter):
			h.filter = (h.filter + 1) % len(statusFilters)
			h.offset = 0
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if h.height > 30 {
		chartHeight = 12
	}
	h.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, s := range h.topTasks() {
		bars = append(bars, barchart.BarData{
			Label: truncate(s.Task, 10),
			Values: []barchart.BarValue{{
				Name:  s.Task,
				Value: float64(s.FocusSeconds) / 60,
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}
	h.chart.PushAll(bars)
	h.chart.Draw()
}

// topTasks returns the tasks with the most focus time, longest first.
func (h historyModel) topTasks() []store.TaskSummary {
	sums := append([]store.TaskSummary(nil), h.summaries...)
	sort.SliceStable(sums, func(i, j int) bool {
		return sums[i].FocusSeconds > sums[j].FocusSeconds
	})
	if len(sums) > chartTasks {
		sums = sums[:chartTasks]
	}
	return sums
}

func (h historyModel) renderTaskTotals(w int) string {
	taskWidth := max(12, min(w-50, 30))
	var rows []string
	for _, s := range h.topTasks() {
		rows = append(rows, fmt.Sprintf("  %-*s %s  %s  %s  %s",
			taskWidth, truncate(s.Task, taskWidth),
			mutedStyle.Render(fmt.Sprintf("%d cycles", s.Cycles)),
			successStyle.Render(fmt.Sprintf("%d finished", s.Finished)),
			errorStyle.Render(fmt.Sprintf("%d interrupted", s.Interrupted)),
			highlightStyle.Render(formatFocus(s.FocusSeconds)),
		))
	}
	return strings.Join(rows, "\n")
}

func (h historyModel) view() string {
	w := h.width - 4

	filterName := "all"
	if f := statusFilters[h.filter]; f != "" {
		filterName = statusLabel(f)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("My history"), "  ",
		mutedStyle.Render(fmt.Sprintf("showing: %s", filterName)),
	)

	chartView := mutedStyle.Render("  Focus minutes per task will appear here")
	if len(h.summaries) > 0 {
		chartView = lipgloss.JoinVertical(lipgloss.Left, h.chart.View(), "", h.renderTaskTotals(w))
	}

	nav := mutedStyle.Render("  ↑/↓: scroll  f: filter  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", h.renderTable(w), "", nav,
		),
	)
}

func (h historyModel) visibleRows() int {
	// header, chart, task totals, table header, rule, nav and panel padding
	rows := h.height - 26 - len(h.topTasks())
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (h historyModel) renderTable(w int) string {
	if len(h.cycles) == 0 {
		return mutedStyle.Render("  No cycles yet")
	}

	taskWidth := max(12, min(w-52, 40))
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-*s %-12s %-18s %s", taskWidth, "Task", "Duration", "Started", "Status")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, taskWidth+46))))

	end := min(len(h.cycles), h.offset+h.visibleRows())
	now := h.now()
	for _, c := range h.cycles[h.offset:end] {
		status := c.Status()
		dot := statusStyle(status).Render("●")
		rows = append(rows, fmt.Sprintf("  %-*s %-12s %-18s %s %s",
			taskWidth, truncate(c.Task, taskWidth),
			formatMinutes(c.MinutesAmount),
			humanize.RelTime(c.StartDate, now, "ago", "from now"),
			dot, statusStyle(status).Render(statusLabel(status)),
		))
	}
	if len(h.cycles) > end || h.offset > 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d–%d of %d", h.offset+1, end, len(h.cycles))))
	}

	return strings.Join(rows, "\n")
}

func statusLabel(s cycles.Status) string {
	switch s {
	case cycles.StatusFinished:
		return "Finished"
	case cycles.StatusInterrupted:
		return "Interrupted"
	default:
		return "In progress"
	}
}

func statusStyle(s cycles.Status) lipgloss.Style {
	switch s {
	case cycles.StatusFinished:
		return successStyle
	case cycles.StatusInterrupted:
		return errorStyle
	default:
		return warningStyle
	}
}
