package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

var (
	studyColor     = color.New(color.FgGreen)
	reviewColor    = color.New(color.FgYellow)
	completedColor = color.New(color.Faint)
	customColor    = color.New(color.FgCyan)
	headingColor   = color.New(color.Bold)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func printTable(w io.Writer, t *table.Table) {
	fmt.Fprintln(w, t.String())
}

func formatReviews(reviews []study.Review) string {
	parts := make([]string, len(reviews))
	for i, r := range reviews {
		mark := " "
		if r.Completed {
			mark = "x"
		}
		parts[i] = fmt.Sprintf("%d.[%s] %s (%s)", i+1, mark, study.FormatDate(r.Date), r.Days)
	}
	return strings.Join(parts, "\n")
}

func printStudies(w io.Writer, studies []study.StudyRecord, disciplines study.Disciplines) {
	if len(studies) == 0 {
		fmt.Fprintln(w, "Nenhum estudo encontrado.")
		return
	}
	t := newTable("ID", "DISCIPLINA", "ASSUNTO", "DATA", "REVISÕES")
	for _, s := range studies {
		t.Row(s.ID, disciplines.NameOf(s.DisciplineID), s.Subject, study.FormatDate(s.StudyDate), formatReviews(s.Reviews))
	}
	printTable(w, t)
}

// eventLine formats one calendar event with the color of its kind.
func eventLine(e calendar.Event) string {
	switch e.Kind {
	case calendar.KindStudy:
		return studyColor.Sprintf("[estudo] %s", e.Subject)
	case calendar.KindReview:
		if e.Completed {
			return completedColor.Sprintf("[revisão %s, concluída] %s", e.Days, e.Subject)
		}
		return reviewColor.Sprintf("[revisão %s] %s", e.Days, e.Subject)
	case calendar.KindCustom:
		if e.Description != "" {
			return customColor.Sprintf("[evento] %s: %s", e.Title, e.Description)
		}
		return customColor.Sprintf("[evento] %s", e.Title)
	}
	return e.Title
}
