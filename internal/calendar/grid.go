package calendar

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/studyplanner/internal/study"
)

// GridCells is the number of cells of a month view: six weeks.
const GridCells = 42

// Cell is one day of a month view.
type Cell struct {
	Date    civil.Date `json:"date"`
	InMonth bool       `json:"in_month"`
	Events  []Event    `json:"events,omitempty"`
}

// MonthGrid returns the 42 days shown for a month, starting on the Sunday on or
// before the first day of the month.
func MonthGrid(year int, month time.Month) []Cell {
	first := civil.Date{Year: year, Month: month, Day: 1}
	weekday := first.In(time.UTC).Weekday()
	start := first.AddDays(-int(weekday))

	cells := make([]Cell, GridCells)
	for i := range cells {
		d := start.AddDays(i)
		cells[i] = Cell{Date: d, InMonth: d.Month == month && d.Year == year}
	}
	return cells
}

// Fill attaches the indexed events of each cell's date.
func (idx Index) Fill(cells []Cell) []Cell {
	filled := make([]Cell, len(cells))
	for i, c := range cells {
		c.Events = idx.On(c.Date)
		filled[i] = c
	}
	return filled
}

// PendingDigest lists the reviews still to be done as of a date.
type PendingDigest struct {
	AsOf     civil.Date `json:"as_of"`
	DueToday []Event    `json:"due_today"`
	Overdue  []Event    `json:"overdue"`
}

// Empty reports whether nothing is pending.
func (p PendingDigest) Empty() bool {
	return len(p.DueToday) == 0 && len(p.Overdue) == 0
}

// PendingReviews collects incomplete reviews dated asOf or earlier.
// Overdue reviews are sorted oldest first.
func PendingReviews(studies []study.StudyRecord, asOf civil.Date) PendingDigest {
	digest := PendingDigest{AsOf: asOf}
	for _, s := range studies {
		for i, r := range s.Reviews {
			if r.Completed || r.Date.After(asOf) {
				continue
			}
			if r.Date == asOf {
				digest.DueToday = append(digest.DueToday, reviewEvent(s, i))
			} else {
				digest.Overdue = append(digest.Overdue, reviewEvent(s, i))
			}
		}
	}
	sort.SliceStable(digest.Overdue, func(i, j int) bool {
		return digest.Overdue[i].Date.Before(digest.Overdue[j].Date)
	})
	return digest
}
