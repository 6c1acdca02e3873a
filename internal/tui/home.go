package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomocycle/internal/cycles"
	"github.com/sadopc/pomocycle/internal/store"
)

// homeModel is the timer view: new-cycle form, countdown and controls.
type homeModel struct {
	store  *store.Store
	timer  timerModel
	form   cycleForm
	width  int
	height int

	defaultMinutes int
	counts         map[cycles.Status]int
}

func newHomeModel(s *store.Store, t timerModel, defaultMinutes int) homeModel {
	return homeModel{
		store:          s,
		timer:          t,
		form:           newCycleForm(),
		defaultMinutes: defaultMinutes,
	}
}

func (h *homeModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

func (h homeModel) formActive() bool {
	return h.form.active()
}

type homeStatsMsg struct {
	counts map[cycles.Status]int
}

func (h homeModel) loadStats() tea.Cmd {
	return func() tea.Msg {
		counts, err := h.store.CountByStatus()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Stats error: %v", err), isError: true}
		}
		return homeStatsMsg{counts: counts}
	}
}

func (h homeModel) update(msg tea.Msg) (homeModel, tea.Cmd) {
	if msg, ok := msg.(homeStatsMsg); ok {
		h.counts = msg.counts
		return h, nil
	}
	if h.form.active() {
		return h.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.Enter):
			if h.timer.running() {
				return h, func() tea.Msg {
					return statusMsg{text: "A cycle is already running. Press x to interrupt it.", isError: true}
				}
			}
			suggestions, err := h.store.TaskNames(suggestionLimit)
			cmd := h.form.open(h.defaultMinutes, suggestions)
			if err != nil {
				cmd = tea.Batch(cmd, errorStatus("Task suggestions", err))
			}
			return h, cmd

		case key.Matches(msg, keys.Stop):
			if !h.timer.running() {
				return h, nil
			}
			cmd := h.timer.interrupt()
			return h, cmd
		}
	}
	return h, nil
}

func (h homeModel) updateForm(msg tea.Msg) (homeModel, tea.Cmd) {
	cmd, done, submitted := h.form.update(msg)
	if !done || !submitted {
		return h, cmd
	}
	in, err := h.form.input()
	if err != nil {
		return h, errorStatus("Invalid cycle", err)
	}
	startCmd := h.timer.start(in)
	return h, tea.Batch(cmd, startCmd)
}

func (h homeModel) view() string {
	w := h.width - 4
	if w < 20 {
		return "Terminal too small"
	}

	if h.form.active() {
		title := titleStyle.Render("New Cycle")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", h.form.view())
		return activePanelStyle.Width(w).Render(content)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		h.renderCountdown(w),
		h.renderStats(w),
	)
}

func (h homeModel) renderCountdown(w int) string {
	c, ok := h.timer.active()
	if !ok {
		content := lipgloss.JoinVertical(lipgloss.Center,
			clockIdleStyle.Width(w-6).Render(bigClock(cycles.FormatClock(0))),
			"",
			mutedStyle.Render("No cycle running"),
			mutedStyle.Render("s: start  q: quit"),
		)
		return panelStyle.Width(w).Render(content)
	}

	clock := cycles.FormatClock(h.timer.remaining())
	task := highlightStyle.Render(c.Task) + mutedStyle.Render(" · "+formatMinutes(c.MinutesAmount))
	content := lipgloss.JoinVertical(lipgloss.Center,
		clockRunningStyle.Width(w-6).Render(bigClock(clock)),
		"",
		task,
		renderProgressBar(h.timer.progress(), min(w-10, 50)),
		"",
		accentStyle.Render("x: interrupt"),
	)
	return activePanelStyle.Width(w).Render(content)
}

func (h homeModel) renderStats(w int) string {
	title := titleStyle.Render("This session")
	finished := h.counts[cycles.StatusFinished]
	interrupted := h.counts[cycles.StatusInterrupted]
	if finished+interrupted == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No cycles yet"),
		))
	}
	line := fmt.Sprintf("%s  %s",
		successStyle.Render(fmt.Sprintf("%d finished", finished)),
		errorStyle.Render(fmt.Sprintf("%d interrupted", interrupted)),
	)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, line))
}

func renderProgressBar(frac float64, width int) string {
	if width < 1 {
		return ""
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

// bigClock spaces out the digits of MM:SS.
func bigClock(clock string) string {
	return strings.Join(strings.Split(clock, ""), " ")
}
