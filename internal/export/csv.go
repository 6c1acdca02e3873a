package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/pomocycle/internal/cycles"
)

var csvHeader = []string{"ID", "Task", "Minutes", "Start", "End", "Status", "Elapsed"}

func ToCSV(list []cycles.Cycle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, c := range list {
		row := []string{
			c.ID,
			c.Task,
			strconv.Itoa(c.MinutesAmount),
			c.StartDate.Local().Format(time.RFC3339),
			formatEnd(c),
			string(c.Status()),
			formatDuration(elapsedSeconds(c)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatEnd(c cycles.Cycle) string {
	if end := c.EndDate(); end != nil {
		return end.Local().Format(time.RFC3339)
	}
	return ""
}

// elapsedSeconds is the time spent on a stopped cycle. Running cycles report 0.
func elapsedSeconds(c cycles.Cycle) int64 {
	end := c.EndDate()
	if end == nil {
		return 0
	}
	return int64(end.Sub(c.StartDate).Seconds())
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
