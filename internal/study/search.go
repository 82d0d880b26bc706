package study

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var folder = cases.Lower(language.BrazilianPortuguese)

// FormatDate renders a date the way users read it: DD/MM/YYYY.
func FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format("02/01/2006")
}

// FilterStudies keeps the studies whose subject or discipline name contains text,
// ignoring case, or whose formatted study date contains it. An empty text keeps all.
func FilterStudies(studies []StudyRecord, disciplines Disciplines, text string) []StudyRecord {
	query := folder.String(strings.TrimSpace(text))
	if query == "" {
		return studies
	}

	var matched []StudyRecord
	for _, s := range studies {
		if strings.Contains(folder.String(s.Subject), query) ||
			strings.Contains(folder.String(disciplines.NameOf(s.DisciplineID)), query) ||
			strings.Contains(FormatDate(s.StudyDate), query) {
			matched = append(matched, s)
		}
	}
	return matched
}
