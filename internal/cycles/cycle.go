package cycles

import "time"

// Status is derived from a cycle's timestamps.
type Status string

const (
	StatusInProgress  Status = "in_progress"
	StatusInterrupted Status = "interrupted"
	StatusFinished    Status = "finished"
)

// Cycle is a single task-timer session.
type Cycle struct {
	ID              string
	Task            string
	MinutesAmount   int
	StartDate       time.Time
	InterruptedDate *time.Time
	FinishedDate    *time.Time
}

func (c Cycle) Status() Status {
	switch {
	case c.FinishedDate != nil:
		return StatusFinished
	case c.InterruptedDate != nil:
		return StatusInterrupted
	default:
		return StatusInProgress
	}
}

// EndDate returns when the cycle stopped, if it has.
func (c Cycle) EndDate() *time.Time {
	if c.FinishedDate != nil {
		return c.FinishedDate
	}
	return c.InterruptedDate
}

// Planned returns the configured length of the cycle.
func (c Cycle) Planned() time.Duration {
	return time.Duration(c.MinutesAmount) * time.Minute
}

func (c Cycle) clone() Cycle {
	if c.InterruptedDate != nil {
		t := *c.InterruptedDate
		c.InterruptedDate = &t
	}
	if c.FinishedDate != nil {
		t := *c.FinishedDate
		c.FinishedDate = &t
	}
	return c
}
