package cycles

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func sampleCycle(id string) Cycle {
	return Cycle{ID: id, Task: "write report", MinutesAmount: 25, StartDate: t0}
}

func TestReduceAddNewCycle(t *testing.T) {
	var s State
	next := Reduce(s, AddNewCycle{Cycle: sampleCycle("a")})

	want := State{Cycles: []Cycle{sampleCycle("a")}, ActiveCycleID: "a"}
	if diff := cmp.Diff(want, next); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, s.Cycles, "input state must not change")
}

func TestReduceInterrupt(t *testing.T) {
	s := Reduce(State{}, AddNewCycle{Cycle: sampleCycle("a")})
	at := t0.Add(3 * time.Minute)

	next := Reduce(s, InterruptCurrentCycle{At: at})

	require.Len(t, next.Cycles, 1)
	require.NotNil(t, next.Cycles[0].InterruptedDate)
	assert.Equal(t, at, *next.Cycles[0].InterruptedDate)
	assert.Nil(t, next.Cycles[0].FinishedDate)
	assert.Empty(t, next.ActiveCycleID)
	assert.Equal(t, StatusInterrupted, next.Cycles[0].Status())

	// the previous state still shows the cycle running
	assert.Nil(t, s.Cycles[0].InterruptedDate)
	assert.Equal(t, "a", s.ActiveCycleID)
}

func TestReduceMarkFinished(t *testing.T) {
	s := Reduce(State{}, AddNewCycle{Cycle: sampleCycle("a")})
	at := t0.Add(25 * time.Minute)

	next := Reduce(s, MarkCurrentCycleAsFinished{At: at})

	require.NotNil(t, next.Cycles[0].FinishedDate)
	assert.Equal(t, at, *next.Cycles[0].FinishedDate)
	assert.Equal(t, StatusFinished, next.Cycles[0].Status())
	assert.Empty(t, next.ActiveCycleID)
}

func TestReduceStopWithoutActiveIsNoop(t *testing.T) {
	s := Reduce(State{}, AddNewCycle{Cycle: sampleCycle("a")})
	s = Reduce(s, InterruptCurrentCycle{At: t0.Add(time.Minute)})

	for _, action := range []Action{
		InterruptCurrentCycle{At: t0.Add(2 * time.Minute)},
		MarkCurrentCycleAsFinished{At: t0.Add(2 * time.Minute)},
	} {
		next := Reduce(s, action)
		if diff := cmp.Diff(s, next); diff != "" {
			t.Fatalf("%T changed state (-before +after):\n%s", action, diff)
		}
	}
}

func TestReduceUnknownActiveID(t *testing.T) {
	s := State{Cycles: []Cycle{sampleCycle("a")}, ActiveCycleID: "missing"}
	next := Reduce(s, MarkCurrentCycleAsFinished{At: t0})
	assert.Nil(t, next.Cycles[0].FinishedDate)
	assert.Equal(t, "missing", next.ActiveCycleID)
}

func TestReduceKeepsHistoryOrder(t *testing.T) {
	s := State{}
	for _, id := range []string{"a", "b", "c"} {
		s = Reduce(s, AddNewCycle{Cycle: sampleCycle(id)})
		s = Reduce(s, MarkCurrentCycleAsFinished{At: t0.Add(time.Hour)})
	}
	require.Len(t, s.Cycles, 3)
	assert.Equal(t, "a", s.Cycles[0].ID)
	assert.Equal(t, "c", s.Cycles[2].ID)
}

func TestStateActiveCycle(t *testing.T) {
	_, ok := State{}.ActiveCycle()
	assert.False(t, ok)

	s := Reduce(State{}, AddNewCycle{Cycle: sampleCycle("a")})
	c, ok := s.ActiveCycle()
	require.True(t, ok)
	assert.Equal(t, "a", c.ID)
}

func TestCycleStatusAndEndDate(t *testing.T) {
	c := sampleCycle("a")
	assert.Equal(t, StatusInProgress, c.Status())
	assert.Nil(t, c.EndDate())
	assert.Equal(t, 25*time.Minute, c.Planned())

	end := t0.Add(time.Minute)
	c.InterruptedDate = &end
	assert.Equal(t, &end, c.EndDate())
}
