package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/pomocycle/internal/config"
	"github.com/sadopc/pomocycle/internal/cycles"
	"github.com/sadopc/pomocycle/internal/export"
	"github.com/sadopc/pomocycle/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	cfg    *config.Config
	logger *zap.Logger
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	home    homeModel
	history historyModel

	help   help.Model
	status string

	// bellOut receives the BEL written when a cycle finishes.
	bellOut io.Writer
}

func NewApp(tr *cycles.Tracker, s *store.Store, cfg *config.Config, logger *zap.Logger) App {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := help.New()
	h.ShowAll = false

	timer := newTimerModel(tr, logger, cfg.Timer.Bell)
	return App{
		store:      s,
		cfg:        cfg,
		logger:     logger,
		activeView: viewTimer,
		home:       newHomeModel(s, timer, cfg.Timer.DefaultMinutes),
		history:    newHistoryModel(s),
		help:       h,
		bellOut:    os.Stdout,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(appName),
		a.home.loadStats(),
		a.tickCmd(),
	)
}

func (a App) tickCmd() tea.Cmd {
	return tea.Tick(a.cfg.Timer.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.home.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.history.buildChart()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child view capturing input (the new-cycle form) gets keys first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, a.home.loadStats()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		// Ticks always reach the timer, whatever view is shown.
		cmd := a.home.timer.tick(time.Time(msg))
		return a, tea.Batch(a.tickCmd(), cmd)

	case cycleStartedMsg:
		a.status = fmt.Sprintf("Started %q for %s", msg.cycle.Task, formatMinutes(msg.cycle.MinutesAmount))
		return a, a.refreshAll()

	case cycleInterruptedMsg:
		a.status = fmt.Sprintf("Interrupted %q", msg.cycle.Task)
		return a, a.refreshAll()

	case cycleFinishedMsg:
		a.status = fmt.Sprintf("Finished %q!", msg.cycle.Task)
		if a.home.timer.bell {
			return a, tea.Batch(a.ringBell(), a.refreshAll())
		}
		return a, a.refreshAll()

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.logger.Warn("status", zap.String("text", msg.text))
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case homeStatsMsg:
		a.home, _ = a.home.update(msg)
		return a, nil

	case historyDataMsg:
		a.history, _ = a.history.update(msg)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.home, cmd = a.home.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewTimer && a.home.formActive()
}

// ringBell writes a single BEL to the terminal.
func (a App) ringBell() tea.Cmd {
	out := a.bellOut
	return func() tea.Msg {
		if _, err := io.WriteString(out, "\a"); err != nil {
			a.logger.Debug("ring bell", zap.Error(err))
		}
		return nil
	}
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTimer:
		return a.home.loadStats()
	case viewHistory:
		return a.history.refresh()
	}
	return nil
}

func (a App) refreshAll() tea.Cmd {
	return tea.Batch(a.home.loadStats(), a.history.refresh())
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.home.view()
	case viewHistory:
		content = a.history.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render(appName)
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Countdown indicator, visible from every view
	timerInfo := ""
	if a.home.timer.running() {
		timerInfo = successStyle.Render(" ● " + cycles.FormatClock(a.home.timer.remaining()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export History")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		list, err := a.store.ListCycles(store.CycleFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		dir, err := a.cfg.ExportDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		dateStr := time.Now().Format("2006-01-02-150405")

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("pomocycle-export-%s.csv", dateStr))
			if err := export.ToCSV(list, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("pomocycle-export-%s.json", dateStr))
			if err := export.ToJSON(list, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		a.logger.Info("history exported", zap.String("path", path), zap.Int("cycles", len(list)))
		return exportDoneMsg{path: path}
	}
}
