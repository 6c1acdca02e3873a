package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomocycle/internal/cycles"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Cycles     []jsonCycle `json:"cycles"`
}

type jsonCycle struct {
	ID            string `json:"id"`
	Task          string `json:"task"`
	MinutesAmount int    `json:"minutes_amount"`
	StartDate     string `json:"start_date"`
	InterruptedAt string `json:"interrupted_date,omitempty"`
	FinishedAt    string `json:"finished_date,omitempty"`
	Status        string `json:"status"`
	ElapsedSec    int64  `json:"elapsed_seconds"`
	Elapsed       string `json:"elapsed"`
}

func ToJSON(list []cycles.Cycle, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(list),
	}

	for _, c := range list {
		jc := jsonCycle{
			ID:            c.ID,
			Task:          c.Task,
			MinutesAmount: c.MinutesAmount,
			StartDate:     c.StartDate.Local().Format(time.RFC3339),
			Status:        string(c.Status()),
			ElapsedSec:    elapsedSeconds(c),
			Elapsed:       formatDuration(elapsedSeconds(c)),
		}
		if c.InterruptedDate != nil {
			jc.InterruptedAt = c.InterruptedDate.Local().Format(time.RFC3339)
		}
		if c.FinishedDate != nil {
			jc.FinishedAt = c.FinishedDate.Local().Format(time.RFC3339)
		}
		export.Cycles = append(export.Cycles, jc)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
