package cycles

import "time"

// State is the cycle history plus the id of the running cycle.
// An empty ActiveCycleID means nothing is counting down.
type State struct {
	Cycles        []Cycle
	ActiveCycleID string
}

// Action is a state transition handled by Reduce.
type Action interface {
	isAction()
}

type AddNewCycle struct {
	Cycle Cycle
}

type InterruptCurrentCycle struct {
	At time.Time
}

type MarkCurrentCycleAsFinished struct {
	At time.Time
}

func (AddNewCycle) isAction()                {}
func (InterruptCurrentCycle) isAction()      {}
func (MarkCurrentCycleAsFinished) isAction() {}

// Reduce applies action to state and returns the new state. The input state
// is never modified.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddNewCycle:
		next := state.clone()
		next.Cycles = append(next.Cycles, a.Cycle.clone())
		next.ActiveCycleID = a.Cycle.ID
		return next

	case InterruptCurrentCycle:
		idx := state.activeIndex()
		if idx < 0 {
			return state
		}
		next := state.clone()
		at := a.At
		next.Cycles[idx].InterruptedDate = &at
		next.ActiveCycleID = ""
		return next

	case MarkCurrentCycleAsFinished:
		idx := state.activeIndex()
		if idx < 0 {
			return state
		}
		next := state.clone()
		at := a.At
		next.Cycles[idx].FinishedDate = &at
		next.ActiveCycleID = ""
		return next
	}
	return state
}

// ActiveCycle looks up the running cycle.
func (s State) ActiveCycle() (Cycle, bool) {
	idx := s.activeIndex()
	if idx < 0 {
		return Cycle{}, false
	}
	return s.Cycles[idx], true
}

func (s State) activeIndex() int {
	if s.ActiveCycleID == "" {
		return -1
	}
	for i, c := range s.Cycles {
		if c.ID == s.ActiveCycleID {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	next := State{ActiveCycleID: s.ActiveCycleID}
	if s.Cycles != nil {
		next.Cycles = make([]Cycle, len(s.Cycles), len(s.Cycles)+1)
		for i, c := range s.Cycles {
			next.Cycles[i] = c.clone()
		}
	}
	return next
}
