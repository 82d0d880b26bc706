package calendar

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/studyplanner/internal/study"
)

// Category classifies an exported row.
type Category string

const (
	CategoryStudy           Category = "STUDY"
	CategoryReviewPending   Category = "REVIEW_PENDING"
	CategoryReviewCompleted Category = "REVIEW_COMPLETED"
	CategoryCustomEvent     Category = "CUSTOM_EVENT"
)

// Label returns the wording used in exported files.
func (c Category) Label() string {
	switch c {
	case CategoryStudy:
		return "ESTUDO"
	case CategoryReviewPending:
		return "REVISÃO PENDENTE"
	case CategoryReviewCompleted:
		return "REVISÃO CONCLUÍDA"
	case CategoryCustomEvent:
		return "EVENTO PERSONALIZADO"
	}
	return string(c)
}

// NoDescription is the context of a custom event without description.
const NoDescription = "N/A"

// ExportRow is one line of an event export.
type ExportRow struct {
	Date     civil.Date `json:"date"`
	Label    string     `json:"label"`
	Category Category   `json:"category"`
	Context  string     `json:"context"`
}

// EventsInRange returns the events between from and to, both inclusive, as export rows
// sorted by date. Rows on the same date keep their construction order.
func EventsInRange(studies []study.StudyRecord, customEvents []CustomEvent, disciplines study.Disciplines, from, to civil.Date) []ExportRow {
	rows := []ExportRow{}
	forEachEvent(studies, customEvents, func(e Event) {
		if e.Date.Before(from) || e.Date.After(to) {
			return
		}
		rows = append(rows, toExportRow(e, disciplines))
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

func toExportRow(e Event, disciplines study.Disciplines) ExportRow {
	row := ExportRow{Date: e.Date, Label: e.Title}
	switch e.Kind {
	case KindStudy:
		row.Category = CategoryStudy
		row.Context = disciplines.NameOf(e.DisciplineID)
	case KindReview:
		row.Category = CategoryReviewPending
		if e.Completed {
			row.Category = CategoryReviewCompleted
		}
		row.Context = disciplines.NameOf(e.DisciplineID)
	case KindCustom:
		row.Category = CategoryCustomEvent
		row.Context = e.Description
		if row.Context == "" {
			row.Context = NoDescription
		}
	default:
		panic(fmt.Sprintf("calendar: unexpected event kind %v", e.Kind))
	}
	return row
}
