// Package calendar aggregates studies, their reviews and custom events into dated events.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/studyplanner/internal/study"
)

// EventKind tells which source produced an Event.
type EventKind int

const (
	KindStudy EventKind = iota
	KindReview
	KindCustom
)

func (k EventKind) String() string {
	switch k {
	case KindStudy:
		return "study"
	case KindReview:
		return "review"
	case KindCustom:
		return "custom"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one entry shown on a calendar day.
type Event struct {
	Kind  EventKind  `json:"kind"`
	Date  civil.Date `json:"date"`
	Title string     `json:"title"`

	// Set for study and review events
	StudyID      string `json:"study_id,omitempty"`
	DisciplineID string `json:"discipline_id,omitempty"`
	Subject      string `json:"subject,omitempty"`

	// Set for review events
	ReviewIndex int                `json:"review_index"`
	Days        study.ReviewOffset `json:"days,omitempty"`
	Completed   bool               `json:"completed"`

	// Set for custom events
	CustomEventID string `json:"custom_event_id,omitempty"`
	Description   string `json:"description,omitempty"`
}

// CustomEvent is a user-defined calendar entry unrelated to studies.
type CustomEvent struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Date        civil.Date `json:"date" yaml:"date"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
}

// CustomEventInput holds the user-editable fields of a CustomEvent.
type CustomEventInput struct {
	Title       string     `validate:"required" label:"título"`
	Description string     `label:"descrição"`
	Date        civil.Date `validate:"required" label:"data"`
}

// ValidateCustomEvent trims and validates a custom event.
func ValidateCustomEvent(v *study.Validator, in CustomEventInput) (CustomEventInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := v.Struct(in); err != nil {
		return in, err
	}
	return in, nil
}

func studyEvent(s study.StudyRecord) Event {
	return Event{
		Kind:         KindStudy,
		Date:         s.StudyDate,
		Title:        s.Subject,
		StudyID:      s.ID,
		DisciplineID: s.DisciplineID,
		Subject:      s.Subject,
	}
}

func reviewEvent(s study.StudyRecord, index int) Event {
	r := s.Reviews[index]
	return Event{
		Kind:         KindReview,
		Date:         r.Date,
		Title:        "Revisão: " + s.Subject,
		StudyID:      s.ID,
		DisciplineID: s.DisciplineID,
		Subject:      s.Subject,
		ReviewIndex:  index,
		Days:         r.Days,
		Completed:    r.Completed,
	}
}

func customEvent(e CustomEvent) Event {
	return Event{
		Kind:          KindCustom,
		Date:          e.Date,
		Title:         e.Title,
		CustomEventID: e.ID,
		Description:   e.Description,
	}
}

// forEachEvent visits every event in construction order: each study followed by its
// reviews, in input order, then the custom events.
func forEachEvent(studies []study.StudyRecord, customEvents []CustomEvent, visit func(Event)) {
	for _, s := range studies {
		visit(studyEvent(s))
		for i := range s.Reviews {
			visit(reviewEvent(s, i))
		}
	}
	for _, e := range customEvents {
		visit(customEvent(e))
	}
}

// EventsOnDate returns the events falling on date in construction order.
func EventsOnDate(studies []study.StudyRecord, customEvents []CustomEvent, date civil.Date) []Event {
	var events []Event
	forEachEvent(studies, customEvents, func(e Event) {
		if e.Date == date {
			events = append(events, e)
		}
	})
	return events
}
