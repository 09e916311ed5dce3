package reconcile

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LabourWorkEntry is one append-only work-log row.
type LabourWorkEntry struct {
	WorkerID   string              `json:"worker_id"`
	WorkerName string              `json:"worker_name"`
	Date       time.Time           `json:"date"`
	Hours      decimal.Decimal     `json:"hours"`
	Rate       decimal.Decimal     `json:"rate"`
	Cost       decimal.NullDecimal `json:"cost"`
}

// EntryCost is the recorded cost, or hours * rate when none was recorded.
func (w LabourWorkEntry) EntryCost() decimal.Decimal {
	if w.Cost.Valid {
		return w.Cost.Decimal
	}
	return w.Hours.Mul(w.Rate)
}

type WorkerLabour struct {
	WorkerID   string          `json:"worker_id"`
	WorkerName string          `json:"worker_name"`
	Entries    int             `json:"entries"`
	Hours      decimal.Decimal `json:"hours"`
	Cost       decimal.Decimal `json:"cost"`
}

type LabourSummary struct {
	EntryCount int             `json:"entry_count"`
	TotalHours decimal.Decimal `json:"total_hours"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	// Workers keeps first-seen order.
	Workers []WorkerLabour `json:"workers"`
}

// SummarizeLabour sums work-log rows overall and per worker.
func (e *Engine) SummarizeLabour(entries []LabourWorkEntry) (LabourSummary, error) {
	summary := LabourSummary{Workers: []WorkerLabour{}}
	index := make(map[string]int)

	for i, entry := range entries {
		field := fmt.Sprintf("entries[%d]", i)
		if err := nonNegative(field+".hours", entry.Hours); err != nil {
			return LabourSummary{}, err
		}
		if err := nonNegative(field+".rate", entry.Rate); err != nil {
			return LabourSummary{}, err
		}
		if err := optionalAmount(field+".cost", entry.Cost); err != nil {
			return LabourSummary{}, err
		}

		cost := entry.EntryCost()
		summary.EntryCount++
		summary.TotalHours = summary.TotalHours.Add(entry.Hours)
		summary.TotalCost = summary.TotalCost.Add(cost)

		pos, ok := index[entry.WorkerID]
		if !ok {
			pos = len(summary.Workers)
			index[entry.WorkerID] = pos
			summary.Workers = append(summary.Workers, WorkerLabour{
				WorkerID:   entry.WorkerID,
				WorkerName: entry.WorkerName,
			})
		}
		w := &summary.Workers[pos]
		w.Entries++
		w.Hours = w.Hours.Add(entry.Hours)
		w.Cost = w.Cost.Add(cost)
	}

	summary.TotalHours = e.round(summary.TotalHours)
	summary.TotalCost = e.round(summary.TotalCost)
	for i := range summary.Workers {
		summary.Workers[i].Hours = e.round(summary.Workers[i].Hours)
		summary.Workers[i].Cost = e.round(summary.Workers[i].Cost)
	}
	return summary, nil
}
