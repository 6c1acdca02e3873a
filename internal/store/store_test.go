package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/pomocycle/internal/cycles"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// record is a test helper that stores a cycle started offset after base.
func record(t *testing.T, s *Store, id, task string, minutes int, offset time.Duration, status cycles.Status) cycles.Cycle {
	t.Helper()
	c := cycles.Cycle{
		ID:            id,
		Task:          task,
		MinutesAmount: minutes,
		StartDate:     base.Add(offset),
	}
	switch status {
	case cycles.StatusFinished:
		end := c.StartDate.Add(c.Planned())
		c.FinishedDate = &end
	case cycles.StatusInterrupted:
		end := c.StartDate.Add(2 * time.Minute)
		c.InterruptedDate = &end
	}
	if err := s.RecordCycle(context.Background(), c); err != nil {
		t.Fatalf("record cycle: %v", err)
	}
	return c
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/history.db"

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen, should not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestMemoryStoresAreIsolated(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)
	record(t, a, "a1", "read", 25, 0, cycles.StatusFinished)

	list, err := b.ListCycles(CycleFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty store, got %d cycles", len(list))
	}
}

// ============================================================
// Cycles
// ============================================================

func TestRecordAndGetCycle(t *testing.T) {
	s := newTestStore(t)
	want := record(t, s, "c1", "write", 25, 0, cycles.StatusInProgress)

	got, err := s.GetCycle("c1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Task != want.Task || got.MinutesAmount != 25 {
		t.Fatalf("unexpected cycle: %+v", got)
	}
	if !got.StartDate.Equal(want.StartDate) {
		t.Fatalf("start = %v, want %v", got.StartDate, want.StartDate)
	}
	if got.InterruptedDate != nil || got.FinishedDate != nil {
		t.Fatal("running cycle should have no end dates")
	}
	if got.Status() != cycles.StatusInProgress {
		t.Fatalf("status = %s", got.Status())
	}
}

func TestGetCycleMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetCycle("nope"); err == nil {
		t.Fatal("expected error for missing cycle")
	}
}

func TestGetCycleBadTimestamp(t *testing.T) {
	s := newTestStore(t)
	record(t, s, "c1", "write", 25, 0, cycles.StatusInProgress)
	if _, err := s.db.Exec(`UPDATE cycles SET start_date = 'yesterday' WHERE id = 'c1'`); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetCycle("c1"); err == nil || !strings.Contains(err.Error(), "start date") {
		t.Fatalf("expected start date error, got %v", err)
	}
	if _, err := s.ListCycles(CycleFilter{}); err == nil {
		t.Fatal("expected list to fail on a bad row")
	}

	if _, err := s.db.Exec(`UPDATE cycles SET start_date = '2024-03-01T09:00:00Z', finished_date = 'soon' WHERE id = 'c1'`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetCycle("c1"); err == nil || !strings.Contains(err.Error(), "finished date") {
		t.Fatalf("expected finished date error, got %v", err)
	}
}

func TestRecordCycleUpserts(t *testing.T) {
	s := newTestStore(t)
	c := record(t, s, "c1", "write", 25, 0, cycles.StatusInProgress)

	end := c.StartDate.Add(5 * time.Minute)
	c.InterruptedDate = &end
	if err := s.RecordCycle(context.Background(), c); err != nil {
		t.Fatal(err)
	}

	list, _ := s.ListCycles(CycleFilter{})
	if len(list) != 1 {
		t.Fatalf("expected 1 cycle after upsert, got %d", len(list))
	}
	if list[0].Status() != cycles.StatusInterrupted {
		t.Fatalf("status = %s, want interrupted", list[0].Status())
	}
	if !list[0].InterruptedDate.Equal(end) {
		t.Fatalf("interrupted = %v, want %v", list[0].InterruptedDate, end)
	}
}

func TestRecordCycleCancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.RecordCycle(ctx, cycles.Cycle{ID: "x", Task: "t", MinutesAmount: 1, StartDate: base})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestListCyclesNewestFirst(t *testing.T) {
	s := newTestStore(t)
	record(t, s, "old", "a", 25, 0, cycles.StatusFinished)
	record(t, s, "mid", "b", 25, time.Hour, cycles.StatusInterrupted)
	record(t, s, "new", "c", 25, 2*time.Hour, cycles.StatusInProgress)

	list, err := s.ListCycles(CycleFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3, got %d", len(list))
	}
	if list[0].ID != "new" || list[2].ID != "old" {
		t.Fatalf("unexpected order: %s, %s, %s", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestListCyclesFilters(t *testing.T) {
	s := newTestStore(t)
	record(t, s, "1", "read", 25, 0, cycles.StatusFinished)
	record(t, s, "2", "read", 10, time.Hour, cycles.StatusInterrupted)
	record(t, s, "3", "code", 45, 2*time.Hour, cycles.StatusFinished)
	record(t, s, "4", "code", 45, 3*time.Hour, cycles.StatusInProgress)

	tests := []struct {
		name   string
		filter CycleFilter
		want   int
	}{
		{"all", CycleFilter{}, 4},
		{"finished", CycleFilter{Status: cycles.StatusFinished}, 2},
		{"interrupted", CycleFilter{Status: cycles.StatusInterrupted}, 1},
		{"task", CycleFilter{Task: "code"}, 2},
		{"task and status", CycleFilter{Task: "code", Status: cycles.StatusFinished}, 1},
		{"limit", CycleFilter{Limit: 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.ListCycles(tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != tt.want {
				t.Fatalf("got %d cycles, want %d", len(list), tt.want)
			}
		})
	}
}

func TestListCyclesDateRange(t *testing.T) {
	s := newTestStore(t)
	record(t, s, "1", "a", 25, 0, cycles.StatusFinished)
	record(t, s, "2", "a", 25, 24*time.Hour, cycles.StatusFinished)
	record(t, s, "3", "a", 25, 48*time.Hour, cycles.StatusFinished)

	from := base.Add(12 * time.Hour)
	to := base.Add(36 * time.Hour)
	list, err := s.ListCycles(CycleFilter{From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "2" {
		t.Fatalf("expected only cycle 2, got %+v", list)
	}
}

func TestTaskNames(t *testing.T) {
	s := newTestStore(t)
	record(t, s, "1", "read", 25, 0, cycles.StatusFinished)
	record(t, s, "2", "code", 25, time.Hour, cycles.StatusFinished)
	record(t, s, "3", "read", 25, 2*time.Hour, cycles.StatusFinished)

	names, err := s.TaskNames(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "read" || names[1] != "code" {
		t.Fatalf("unexpected names: %v", names)
	}

	names, _ = s.TaskNames(1)
	if len(names) != 1 {
		t.Fatalf("limit ignored: %v", names)
	}
}

func TestTaskSummaries(t *testing.T) {
	s := newTestStore(t)
	record(t, s, "1", "read", 25, 0, cycles.StatusFinished)
	record(t, s, "2", "read", 25, time.Hour, cycles.StatusInterrupted)
	record(t, s, "3", "code", 10, 2*time.Hour, cycles.StatusFinished)
	record(t, s, "4", "code", 10, 3*time.Hour, cycles.StatusInProgress)

	sums, err := s.TaskSummaries()
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}

	code, read := sums[0], sums[1]
	if code.Task != "code" || code.Cycles != 2 || code.Finished != 1 || code.Interrupted != 0 {
		t.Fatalf("unexpected code summary: %+v", code)
	}
	if code.FocusSeconds != 600 {
		t.Fatalf("code focus = %d, want 600", code.FocusSeconds)
	}
	// 25 min finished + 2 min before interruption
	if read.FocusSeconds != 1500+120 {
		t.Fatalf("read focus = %d, want 1620", read.FocusSeconds)
	}
	if read.Interrupted != 1 {
		t.Fatalf("read interrupted = %d", read.Interrupted)
	}
}

func TestTaskSummariesEmpty(t *testing.T) {
	s := newTestStore(t)
	sums, err := s.TaskSummaries()
	if err != nil {
		t.Fatal(err)
	}
	if len(sums) != 0 {
		t.Fatalf("expected none, got %v", sums)
	}
}

func TestCountByStatus(t *testing.T) {
	s := newTestStore(t)
	record(t, s, "1", "a", 25, 0, cycles.StatusFinished)
	record(t, s, "2", "a", 25, time.Hour, cycles.StatusFinished)
	record(t, s, "3", "a", 25, 2*time.Hour, cycles.StatusInterrupted)

	counts, err := s.CountByStatus()
	if err != nil {
		t.Fatal(err)
	}
	if counts[cycles.StatusFinished] != 2 || counts[cycles.StatusInterrupted] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if counts[cycles.StatusInProgress] != 0 {
		t.Fatalf("in progress should be 0, got %d", counts[cycles.StatusInProgress])
	}
}

// ============================================================
// Tracker integration
// ============================================================

func TestStoreAsTrackerRecorder(t *testing.T) {
	s := newTestStore(t)
	now := base
	tr := cycles.NewTracker(
		cycles.WithRecorder(s),
		cycles.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	c, err := tr.CreateNewCycle(ctx, cycles.NewCycleInput{Task: "deep work", MinutesAmount: 1})
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(time.Minute)
	if _, err := tr.Tick(ctx, now); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetCycle(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status() != cycles.StatusFinished {
		t.Fatalf("status = %s, want finished", got.Status())
	}
}
