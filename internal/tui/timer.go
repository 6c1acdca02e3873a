package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomocycle/internal/cycles"
	"go.uber.org/zap"
)

// timerModel drives the tracker from ticks and key presses, separate from
// display.
type timerModel struct {
	tracker *cycles.Tracker
	logger  *zap.Logger
	bell    bool

	lastTitle string
}

func newTimerModel(tr *cycles.Tracker, logger *zap.Logger, bell bool) timerModel {
	return timerModel{
		tracker: tr,
		logger:  logger,
		bell:    bell,
	}
}

func (t *timerModel) start(in cycles.NewCycleInput) tea.Cmd {
	c, err := t.tracker.CreateNewCycle(context.Background(), in)
	if err != nil && c.ID == "" {
		return errorStatus("Cannot start cycle", err)
	}
	cmds := []tea.Cmd{func() tea.Msg { return cycleStartedMsg{cycle: c} }}
	if err != nil {
		cmds = append(cmds, errorStatus("History", err))
	}
	cmds = append(cmds, t.syncTitle())
	return tea.Batch(cmds...)
}

func (t *timerModel) interrupt() tea.Cmd {
	c, err := t.tracker.InterruptCurrentCycle(context.Background())
	if err != nil && c.ID == "" {
		return errorStatus("Cannot interrupt", err)
	}
	cmds := []tea.Cmd{func() tea.Msg { return cycleInterruptedMsg{cycle: c} }}
	if err != nil {
		cmds = append(cmds, errorStatus("History", err))
	}
	cmds = append(cmds, t.syncTitle())
	return tea.Batch(cmds...)
}

func (t *timerModel) tick(now time.Time) tea.Cmd {
	res, err := t.tracker.Tick(context.Background(), now)
	var cmds []tea.Cmd
	if err != nil {
		cmds = append(cmds, errorStatus("History", err))
	}
	if res.Finished {
		t.logger.Debug("countdown reached zero", zap.String("id", res.Cycle.ID))
		c := res.Cycle
		cmds = append(cmds, func() tea.Msg { return cycleFinishedMsg{cycle: c} })
	}
	cmds = append(cmds, t.syncTitle())
	return tea.Batch(cmds...)
}

// syncTitle puts the remaining time in the terminal title while a cycle
// runs. Nothing is emitted when the title is unchanged.
func (t *timerModel) syncTitle() tea.Cmd {
	title := appName
	if t.running() {
		title = cycles.FormatClock(t.remaining())
	}
	if title == t.lastTitle {
		return nil
	}
	t.lastTitle = title
	return tea.SetWindowTitle(title)
}

func (t timerModel) running() bool {
	_, ok := t.tracker.ActiveCycle()
	return ok
}

func (t timerModel) active() (cycles.Cycle, bool) {
	return t.tracker.ActiveCycle()
}

func (t timerModel) remaining() int {
	return t.tracker.RemainingSeconds()
}

// progress is the fraction of the active cycle already spent.
func (t timerModel) progress() float64 {
	c, ok := t.tracker.ActiveCycle()
	if !ok {
		return 0
	}
	total := cycles.TotalSeconds(c)
	if total == 0 {
		return 0
	}
	return float64(t.tracker.AmountSecondsPassed()) / float64(total)
}
