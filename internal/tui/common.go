package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomocycle/internal/cycles"
)

const appName = "pomocycle"

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewHistory
)

var viewNames = []string{"Timer", "History"}

// --- Messages ---

type tickMsg time.Time

type cycleStartedMsg struct {
	cycle cycles.Cycle
}

type cycleInterruptedMsg struct {
	cycle cycles.Cycle
}

type cycleFinishedMsg struct {
	cycle cycles.Cycle
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func errorStatus(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

func formatMinutes(m int) string {
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}

func formatFocus(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
