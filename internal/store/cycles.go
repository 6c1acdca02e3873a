package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/pomocycle/internal/cycles"
)

const cycleColumns = `id, task, minutes_amount, start_date, interrupted_date, finished_date`

// RecordCycle inserts c or updates the stored copy with the same id.
func (s *Store) RecordCycle(ctx context.Context, c cycles.Cycle) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cycles (id, task, minutes_amount, start_date, interrupted_date, finished_date, status, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			task = excluded.task,
			minutes_amount = excluded.minutes_amount,
			start_date = excluded.start_date,
			interrupted_date = excluded.interrupted_date,
			finished_date = excluded.finished_date,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		c.ID, c.Task, c.MinutesAmount, formatTime(c.StartDate),
		nullTime(c.InterruptedDate), nullTime(c.FinishedDate), string(c.Status()), now,
	)
	if err != nil {
		return fmt.Errorf("record cycle %s: %w", c.ID, err)
	}
	return nil
}

func (s *Store) GetCycle(id string) (*cycles.Cycle, error) {
	row := s.db.QueryRow(`SELECT `+cycleColumns+` FROM cycles WHERE id = ?`, id)
	c, err := scanCycle(row)
	if err != nil {
		return nil, fmt.Errorf("get cycle %s: %w", id, err)
	}
	return c, nil
}

// ListCycles returns matching cycles, newest first.
func (s *Store) ListCycles(f CycleFilter) ([]cycles.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles WHERE 1=1`
	var args []any

	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.Task != "" {
		query += ` AND task = ?`
		args = append(args, f.Task)
	}
	if f.From != nil {
		query += ` AND start_date >= ?`
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		query += ` AND start_date < ?`
		args = append(args, formatTime(*f.To))
	}
	query += ` ORDER BY start_date DESC, rowid DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	defer rows.Close()

	var list []cycles.Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// TaskNames returns distinct task names, most recently started first.
func (s *Store) TaskNames(limit int) ([]string, error) {
	query := `SELECT task FROM cycles GROUP BY task ORDER BY MAX(start_date) DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("task names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// TaskSummaries aggregates focus time per task. A finished cycle counts its
// planned length, an interrupted one the time until the interruption.
func (s *Store) TaskSummaries() ([]TaskSummary, error) {
	rows, err := s.db.Query(`
		SELECT task,
		       COUNT(*),
		       SUM(CASE WHEN status = 'finished' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'interrupted' THEN 1 ELSE 0 END),
		       COALESCE(SUM(CASE
		           WHEN status = 'finished' THEN minutes_amount * 60
		           WHEN status = 'interrupted' THEN
		               CAST(strftime('%s', interrupted_date) AS INTEGER) - CAST(strftime('%s', start_date) AS INTEGER)
		           ELSE 0 END), 0)
		FROM cycles
		GROUP BY task
		ORDER BY task`)
	if err != nil {
		return nil, fmt.Errorf("task summaries: %w", err)
	}
	defer rows.Close()

	var out []TaskSummary
	for rows.Next() {
		var ts TaskSummary
		if err := rows.Scan(&ts.Task, &ts.Cycles, &ts.Finished, &ts.Interrupted, &ts.FocusSeconds); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// CountByStatus counts stored cycles per status.
func (s *Store) CountByStatus() (map[cycles.Status]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM cycles GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[cycles.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[cycles.Status(status)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCycle(sc scanner) (*cycles.Cycle, error) {
	c := &cycles.Cycle{}
	var startDate string
	var interrupted, finished sql.NullString
	if err := sc.Scan(&c.ID, &c.Task, &c.MinutesAmount, &startDate, &interrupted, &finished); err != nil {
		return nil, err
	}
	start, err := time.Parse(time.RFC3339, startDate)
	if err != nil {
		return nil, fmt.Errorf("cycle %s: start date: %w", c.ID, err)
	}
	c.StartDate = start
	if c.InterruptedDate, err = parseNullTime(interrupted); err != nil {
		return nil, fmt.Errorf("cycle %s: interrupted date: %w", c.ID, err)
	}
	if c.FinishedDate, err = parseNullTime(finished); err != nil {
		return nil, fmt.Errorf("cycle %s: finished date: %w", c.ID, err)
	}
	return c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
