package calendar

import (
	"sort"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/studyplanner/internal/study"
)

// Index buckets events by date so that day lookups do not rescan every study.
type Index struct {
	events map[civil.Date][]Event
}

// IndexEventsByDate builds an Index in a single pass over the inputs.
func IndexEventsByDate(studies []study.StudyRecord, customEvents []CustomEvent) Index {
	idx := Index{events: make(map[civil.Date][]Event)}
	forEachEvent(studies, customEvents, func(e Event) {
		idx.events[e.Date] = append(idx.events[e.Date], e)
	})
	return idx
}

// On returns the events of date in the same order as EventsOnDate.
func (idx Index) On(date civil.Date) []Event {
	events := idx.events[date]
	if len(events) == 0 {
		return nil
	}
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// Dates returns every date with at least one event, ascending.
func (idx Index) Dates() []civil.Date {
	dates := make([]civil.Date, 0, len(idx.events))
	for d := range idx.events {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}
