package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/sadopc/pomocycle/internal/cycles"
)

const suggestionLimit = 10

// cycleForm collects the task and duration of a new cycle.
type cycleForm struct {
	form *huh.Form

	// Field pointers survive value copies of the model.
	task    *string
	minutes *string
}

func newCycleForm() cycleForm {
	task, minutes := "", ""
	return cycleForm{task: &task, minutes: &minutes}
}

func (f *cycleForm) open(defaultMinutes int, suggestions []string) tea.Cmd {
	*f.task = ""
	*f.minutes = ""
	if defaultMinutes > 0 {
		*f.minutes = strconv.Itoa(defaultMinutes)
	}

	task := huh.NewInput().
		Title("I will work on").
		Placeholder("Give your task a name").
		Validate(cycles.ValidateTask).
		Value(f.task)
	if len(suggestions) > 0 {
		task = task.Suggestions(suggestions)
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			task,
			huh.NewInput().
				Title("for (minutes)").
				Placeholder("00").
				CharLimit(2).
				Validate(func(s string) error {
					_, err := cycles.ParseMinutes(s)
					return err
				}).
				Value(f.minutes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	return f.form.Init()
}

func (f cycleForm) active() bool {
	return f.form != nil
}

func (f *cycleForm) close() {
	f.form = nil
}

// update forwards msg to the form. done reports that the form closed, and
// submitted that it completed with valid input.
func (f *cycleForm) update(msg tea.Msg) (cmd tea.Cmd, done, submitted bool) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		f.close()
		return nil, true, false
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	switch f.form.State {
	case huh.StateCompleted:
		f.close()
		return cmd, true, true
	case huh.StateAborted:
		f.close()
		return cmd, true, false
	}
	return cmd, false, false
}

// input converts the submitted fields. The minutes were validated by the
// form so the parse error is only reachable if validation was bypassed.
func (f cycleForm) input() (cycles.NewCycleInput, error) {
	m, err := cycles.ParseMinutes(*f.minutes)
	if err != nil {
		return cycles.NewCycleInput{}, err
	}
	return cycles.NewCycleInput{
		Task:          strings.TrimSpace(*f.task),
		MinutesAmount: m,
	}, nil
}

func (f cycleForm) view() string {
	if f.form == nil {
		return ""
	}
	return f.form.View()
}
