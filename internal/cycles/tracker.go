package cycles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCycleActive   = errors.New("a cycle is already running")
	ErrNoActiveCycle = errors.New("no active cycle")
)

// Recorder receives every cycle whose state changed.
type Recorder interface {
	RecordCycle(ctx context.Context, c Cycle) error
}

// Tracker owns the cycle state and the seconds-passed counter shown by the
// countdown. It is safe for concurrent use.
type Tracker struct {
	mu            sync.RWMutex
	state         State
	secondsPassed int

	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Tracker)

func WithRecorder(r Recorder) Option {
	return func(t *Tracker) { t.recorder = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithIDGenerator(f func() string) Option {
	return func(t *Tracker) { t.newID = f }
}

func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CreateNewCycle validates in, starts a cycle now and makes it active.
func (t *Tracker) CreateNewCycle(ctx context.Context, in NewCycleInput) (Cycle, error) {
	if err := Validate(in); err != nil {
		return Cycle{}, err
	}

	t.mu.Lock()
	if _, ok := t.state.ActiveCycle(); ok {
		t.mu.Unlock()
		return Cycle{}, ErrCycleActive
	}
	c := Cycle{
		ID:            t.newID(),
		Task:          strings.TrimSpace(in.Task),
		MinutesAmount: in.MinutesAmount,
		StartDate:     t.now(),
	}
	t.state = Reduce(t.state, AddNewCycle{Cycle: c})
	t.secondsPassed = 0
	t.mu.Unlock()

	t.logger.Info("cycle started",
		zap.String("id", c.ID),
		zap.String("task", c.Task),
		zap.Duration("planned", c.Planned()))
	return c, t.record(ctx, c)
}

// InterruptCurrentCycle stops the active cycle before its time is up.
func (t *Tracker) InterruptCurrentCycle(ctx context.Context) (Cycle, error) {
	t.mu.Lock()
	c, err := t.stopLocked(InterruptCurrentCycle{At: t.now()})
	t.mu.Unlock()
	if err != nil {
		return Cycle{}, err
	}
	t.logger.Info("cycle interrupted",
		zap.String("id", c.ID),
		zap.Duration("after", c.InterruptedDate.Sub(c.StartDate)))
	return c, t.record(ctx, c)
}

// MarkCurrentCycleAsFinished closes the active cycle as completed.
func (t *Tracker) MarkCurrentCycleAsFinished(ctx context.Context) (Cycle, error) {
	t.mu.Lock()
	c, err := t.stopLocked(MarkCurrentCycleAsFinished{At: t.now()})
	t.mu.Unlock()
	if err != nil {
		return Cycle{}, err
	}
	t.logger.Info("cycle finished", zap.String("id", c.ID), zap.String("task", c.Task))
	return c, t.record(ctx, c)
}

func (t *Tracker) stopLocked(action Action) (Cycle, error) {
	active, ok := t.state.ActiveCycle()
	if !ok {
		return Cycle{}, ErrNoActiveCycle
	}
	t.state = Reduce(t.state, action)
	for _, c := range t.state.Cycles {
		if c.ID == active.ID {
			return c.clone(), nil
		}
	}
	return Cycle{}, ErrNoActiveCycle
}

// TickResult describes the countdown after a tick.
type TickResult struct {
	Cycle         Cycle
	Active        bool
	SecondsPassed int
	Remaining     int
	Finished      bool
}

// Tick recomputes the seconds passed from the wall clock. When the planned
// time has elapsed the cycle is marked finished and the counter is pinned to
// the total.
func (t *Tracker) Tick(ctx context.Context, now time.Time) (TickResult, error) {
	t.mu.Lock()
	active, ok := t.state.ActiveCycle()
	if !ok {
		t.mu.Unlock()
		return TickResult{}, nil
	}

	total := TotalSeconds(active)
	diff := SecondsSince(active, now)
	if diff < total {
		t.secondsPassed = diff
		t.mu.Unlock()
		return TickResult{
			Cycle:         active,
			Active:        true,
			SecondsPassed: diff,
			Remaining:     total - diff,
		}, nil
	}

	c, err := t.stopLocked(MarkCurrentCycleAsFinished{At: now})
	t.secondsPassed = total
	t.mu.Unlock()
	if err != nil {
		return TickResult{}, err
	}

	t.logger.Info("cycle finished", zap.String("id", c.ID), zap.String("task", c.Task))
	res := TickResult{Cycle: c, SecondsPassed: total, Finished: true}
	return res, t.record(ctx, c)
}

func (t *Tracker) SetSecondsPassed(seconds int) {
	t.mu.Lock()
	t.secondsPassed = seconds
	t.mu.Unlock()
}

func (t *Tracker) AmountSecondsPassed() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.secondsPassed
}

// RemainingSeconds is what the countdown displays: zero when idle.
func (t *Tracker) RemainingSeconds() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	active, ok := t.state.ActiveCycle()
	if !ok {
		return 0
	}
	return Remaining(TotalSeconds(active), t.secondsPassed)
}

func (t *Tracker) ActiveCycle() (Cycle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.state.ActiveCycle()
	return c.clone(), ok
}

func (t *Tracker) ActiveCycleID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.ActiveCycleID
}

// Cycles returns a copy of the history in creation order.
func (t *Tracker) Cycles() []Cycle {
	return t.Snapshot().Cycles
}

func (t *Tracker) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.clone()
}

func (t *Tracker) record(ctx context.Context, c Cycle) error {
	if t.recorder == nil {
		return nil
	}
	if err := t.recorder.RecordCycle(ctx, c); err != nil {
		t.logger.Warn("record cycle", zap.String("id", c.ID), zap.Error(err))
		return fmt.Errorf("record cycle %s: %w", c.ID, err)
	}
	return nil
}
